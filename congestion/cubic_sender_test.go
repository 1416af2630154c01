package congestion

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/flowquic/recovery/protocol"
)

var _ = Describe("CubicSender", func() {
	var rttStats *RTTStats
	var mss protocol.ByteCount

	BeforeEach(func() {
		rttStats = NewRTTStats()
		mss = protocol.DefaultMaxDatagramSize
	})

	It("starts in slow start at 10 MSS", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		Expect(c.InSlowStart()).To(BeTrue())
		Expect(c.GetCongestionWindow()).To(Equal(mss * protocol.InitialWindowPackets))
	})

	It("grows the window by the full acked size per ack during slow start", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		before := c.GetCongestionWindow()

		// Bytes in flight fill the window, so the sender is cwnd-limited and
		// allowed to grow.
		c.OnCongestionEvent(false, before, time.Now(), []Acked{
			{PktNum: 1, Size: mss, InFlight: true},
		}, nil, rttStats)

		Expect(c.GetCongestionWindow()).To(Equal(before + mss))
	})

	It("cuts the window by beta=0.5 on the first loss when running Reno", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		now := time.Now()

		// Packet 1 is sent and acked first, so an ack predating the cutback
		// already exists — the realistic case, since loss detection itself
		// is ack-driven. Packet 2 is then sent and reported lost.
		c.OnPacketSent(now, 0, 1, mss, true)
		c.OnPacketAcked(1, mss, 0, now, 0)
		c.OnPacketSent(now, mss, 2, mss, true)

		before := c.GetCongestionWindow()
		c.OnCongestionEvent(false, before, now, nil, []Lost{
			{PacketNumber: 2, BytesLost: mss},
		}, rttStats)

		Expect(c.InRecovery()).To(BeTrue())
		Expect(c.GetCongestionWindow()).To(Equal(protocol.MaxByteCount(protocol.ByteCount(float64(before)*0.5), 2*mss)))
	})

	It("ignores a second loss from before the current recovery period started", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		now := time.Now()

		// Packets 1 and 2 are both sent before either is reported lost, so
		// the cutback triggered by packet 1's loss records
		// largestSentAtLastCutback = 2.
		c.OnPacketSent(now, 0, 1, mss, true)
		c.OnPacketSent(now, mss, 2, mss, true)

		c.OnCongestionEvent(false, 2*mss, now, nil, []Lost{{PacketNumber: 1, BytesLost: mss}}, rttStats)
		afterFirstCut := c.GetCongestionWindow()
		Expect(c.InRecovery()).To(BeFalse()) // no ack observed yet, but no packet acked past cutback either

		// A loss reported for packet 2, sent before the cutback, is part of
		// the same loss event (RFC 6582) and must not cut the window again.
		c.OnCongestionEvent(false, afterFirstCut, now, nil, []Lost{{PacketNumber: 2, BytesLost: mss}}, rttStats)

		Expect(c.GetCongestionWindow()).To(Equal(afterFirstCut))
	})

	It("exits recovery once a packet sent after the cutback is acked, and reacts to the next independent loss", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		now := time.Now()

		// Packet 1 is acked, packet 2 is sent and lost: recovery opens with
		// largestSentAtLastCutback = 2.
		c.OnPacketSent(now, 0, 1, mss, true)
		c.OnPacketAcked(1, mss, 0, now, 0)
		c.OnPacketSent(now, mss, 2, mss, true)
		c.OnCongestionEvent(false, mss, now, nil, []Lost{{PacketNumber: 2, BytesLost: mss}}, rttStats)
		Expect(c.InRecovery()).To(BeTrue())

		// Packet 3 is sent after the cutback, and its ack closes the
		// recovery period: this is the mechanism that must exist for the
		// sender to ever grow again and to treat a later, independent loss
		// as a fresh cutback rather than silently swallowing it.
		c.OnPacketSent(now, mss, 3, mss, true)
		c.OnCongestionEvent(true, mss, now, []Acked{{PktNum: 3, Size: mss, InFlight: true}}, nil, rttStats)
		Expect(c.InRecovery()).To(BeFalse())
		cwndBeforeSecondCut := c.GetCongestionWindow()

		// A later, independent loss must cut the window again — a sender
		// stuck in a permanent recovery state would ignore this entirely.
		c.OnPacketSent(now, mss, 4, mss, true)
		c.OnCongestionEvent(false, mss, now, nil, []Lost{{PacketNumber: 4, BytesLost: mss}}, rttStats)
		Expect(c.InRecovery()).To(BeTrue())
		Expect(c.GetCongestionWindow()).To(Equal(protocol.MaxByteCount(protocol.ByteCount(float64(cwndBeforeSecondCut)*0.5), 2*mss)))
	})

	It("gates sending through PRR while in recovery", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		now := time.Now()

		c.OnPacketSent(now, 0, 1, mss, true)
		c.OnPacketAcked(1, mss, 0, now, 0)
		c.OnPacketSent(now, mss, 2, mss, true)
		c.OnCongestionEvent(false, mss, now, nil, []Lost{{PacketNumber: 2, BytesLost: mss}}, rttStats)

		Expect(c.InRecovery()).To(BeTrue())
		// bytesInFlight below MSS always allows a send, per PRR's
		// forward-progress guarantee.
		Expect(c.CanSend(0)).To(BeTrue())
	})

	It("resets to slow start and halves ssthresh on a retransmission timeout", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		cwndBefore := c.GetCongestionWindow()

		c.OnRetransmissionTimeout(true)

		Expect(c.InSlowStart()).To(BeTrue())
		Expect(c.GetCongestionWindow()).To(Equal(mss * minCongestionWindowSegments))
		Expect(c.SlowStartThreshold()).To(Equal(cwndBefore / 2))
	})

	It("restores the initial window on a connection migration", func() {
		c := NewCubicSender(rttStats, true, mss, 1000)
		now := time.Now()

		c.OnPacketSent(now, 0, 1, mss, true)
		c.OnPacketAcked(1, mss, 0, now, 0)
		c.OnPacketSent(now, mss, 2, mss, true)
		c.OnCongestionEvent(false, mss, now, nil, []Lost{{PacketNumber: 2, BytesLost: mss}}, rttStats)
		Expect(c.InRecovery()).To(BeTrue())

		c.OnConnectionMigration()

		Expect(c.InRecovery()).To(BeFalse())
		Expect(c.GetCongestionWindow()).To(Equal(mss * protocol.InitialWindowPackets))
	})
})
