package recovery_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/flowquic/recovery/congestion"
	"github.com/flowquic/recovery/protocol"
	"github.com/flowquic/recovery/rangeset"
	"github.com/flowquic/recovery/recovery"
)

// handshakeConfirmed is the HandshakeStatus these scenarios run under:
// keys installed, address verified, handshake done. This mirrors the
// original implementation's test-only Default for HandshakeStatus,
// which simulates a fully established connection so PTO arms for
// Application space.
var handshakeConfirmed = recovery.HandshakeStatus{
	HasHandshakeKeys:    true,
	PeerVerifiedAddress: true,
	Completed:           true,
}

func sentPacket(pktNum protocol.PacketNumber, now time.Time) recovery.Sent {
	return recovery.Sent{
		PacketNumber: pktNum,
		TimeSent:     now,
		AckEliciting: true,
		InFlight:     true,
		HasData:      false,
		Size:         1000,
	}
}

var _ = Describe("Recovery", func() {
	var r *recovery.Recovery
	var now time.Time

	BeforeEach(func() {
		r = recovery.NewWithConfig(recovery.RecoveryConfig{
			MaxSendUDPPayloadSize: protocol.DefaultMaxDatagramSize,
			CCAlgorithm:           congestion.AlgorithmReno,
		})
		now = time.Now()
	})

	Describe("probe timeout", func() {
		It("retransmits via PTO when no packet is actually lost", func() {
			for i := protocol.PacketNumber(0); i < 4; i++ {
				r.OnPacketSent(sentPacket(i, now), protocol.EpochApplication, handshakeConfirmed, now)
			}
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(4000)))

			now = now.Add(10 * time.Millisecond)

			var acked rangeset.RangeSet
			acked.Insert(0, 2)
			lostPackets, lostBytes := r.OnAckReceived(&acked, 25*time.Microsecond, protocol.EpochApplication, handshakeConfirmed, now)
			Expect(lostPackets).To(Equal(0))
			Expect(lostBytes).To(Equal(protocol.ByteCount(0)))
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(2000)))
			Expect(r.LostCount()).To(Equal(0))

			timer, has := r.LossDetectionTimer()
			Expect(has).To(BeTrue())
			now = timer

			r.OnLossDetectionTimeout(handshakeConfirmed, now)
			Expect(r.LossProbes(protocol.EpochApplication)).To(Equal(1))
			Expect(r.LostCount()).To(Equal(0))

			for i := protocol.PacketNumber(4); i < 6; i++ {
				r.OnPacketSent(sentPacket(i, now), protocol.EpochApplication, handshakeConfirmed, now)
			}
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(4000)))

			now = now.Add(10 * time.Millisecond)

			var ptoAcked rangeset.RangeSet
			ptoAcked.Insert(4, 6)
			lostPackets, lostBytes = r.OnAckReceived(&ptoAcked, 25*time.Microsecond, protocol.EpochApplication, handshakeConfirmed, now)
			Expect(lostPackets).To(Equal(2))
			Expect(lostBytes).To(Equal(protocol.ByteCount(2000)))
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(0)))
			Expect(r.LostCount()).To(Equal(2))
		})
	})

	Describe("time-threshold loss detection", func() {
		It("declares a packet lost once the loss timer fires", func() {
			for i := protocol.PacketNumber(0); i < 4; i++ {
				r.OnPacketSent(sentPacket(i, now), protocol.EpochApplication, handshakeConfirmed, now)
			}

			now = now.Add(10 * time.Millisecond)

			var acked rangeset.RangeSet
			acked.Insert(0, 2)
			acked.Insert(3, 4)
			lostPackets, _ := r.OnAckReceived(&acked, 25*time.Microsecond, protocol.EpochApplication, handshakeConfirmed, now)
			Expect(lostPackets).To(Equal(0))
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(1000)))
			Expect(r.LostCount()).To(Equal(0))

			timer, has := r.LossDetectionTimer()
			Expect(has).To(BeTrue())
			now = timer

			r.OnLossDetectionTimeout(handshakeConfirmed, now)
			Expect(r.LossProbes(protocol.EpochApplication)).To(Equal(0))
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(0)))
			Expect(r.LostCount()).To(Equal(1))
		})
	})

	Describe("reordering", func() {
		It("treats an out-of-order ACK arriving for an already-lost packet as a spurious loss and widens the reorder threshold", func() {
			for i := protocol.PacketNumber(0); i < 4; i++ {
				r.OnPacketSent(sentPacket(i, now), protocol.EpochApplication, handshakeConfirmed, now)
			}

			now = now.Add(10 * time.Millisecond)

			var reordered rangeset.RangeSet
			reordered.Insert(2, 4)
			lostPackets, lostBytes := r.OnAckReceived(&reordered, 25*time.Microsecond, protocol.EpochApplication, handshakeConfirmed, now)
			Expect(lostPackets).To(Equal(1))
			Expect(lostBytes).To(Equal(protocol.ByteCount(1000)))

			now = now.Add(10 * time.Millisecond)

			Expect(r.PacketThreshold()).To(Equal(protocol.PacketNumber(3)))

			var late rangeset.RangeSet
			late.Insert(0, 2)
			lostPackets, lostBytes = r.OnAckReceived(&late, 25*time.Microsecond, protocol.EpochApplication, handshakeConfirmed, now)
			Expect(lostPackets).To(Equal(0))
			Expect(lostBytes).To(Equal(protocol.ByteCount(0)))

			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(0)))
			Expect(r.LostCount()).To(Equal(1))
			Expect(r.LostSpuriousCount()).To(Equal(1))
			Expect(r.PacketThreshold()).To(Equal(protocol.PacketNumber(4)))
		})
	})

	Describe("space discard", func() {
		It("frees bytes_in_flight for the discarded epoch and stops it from arming the loss timer", func() {
			for i := protocol.PacketNumber(0); i < 5; i++ {
				r.OnPacketSent(sentPacket(i, now), protocol.EpochInitial, handshakeConfirmed, now)
			}
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(5000)))

			_, hasTimerBefore := r.LossDetectionTimer()
			Expect(hasTimerBefore).To(BeTrue())

			r.OnPktNumSpaceDiscarded(protocol.EpochInitial, handshakeConfirmed, now)
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(0)))

			// The discarded epoch's queue is empty: acking the very packets
			// that were just discarded has no further effect.
			var lateAck rangeset.RangeSet
			lateAck.Insert(0, 5)
			lostPackets, lostBytes := r.OnAckReceived(&lateAck, 25*time.Microsecond, protocol.EpochInitial, handshakeConfirmed, now)
			Expect(lostPackets).To(Equal(0))
			Expect(lostBytes).To(Equal(protocol.ByteCount(0)))
			Expect(r.BytesInFlight()).To(Equal(protocol.ByteCount(0)))

			// With no outstanding packets left in any epoch, the loss
			// detection timer no longer arms at all — Initial's discard
			// removed the only thing that was keeping it armed.
			_, hasTimerAfter := r.LossDetectionTimer()
			Expect(hasTimerAfter).To(BeFalse())
		})
	})
})
