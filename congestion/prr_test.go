package congestion

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/flowquic/recovery/protocol"
)

var _ = Describe("prrSender", func() {
	It("paces a single loss to sending on every other ack", func() {
		var prr prrSender
		numPacketsInFlight := protocol.ByteCount(50)
		bytesInFlight := numPacketsInFlight * maxSegmentSize
		ssthreshAfterLoss := numPacketsInFlight / 2
		congestionWindow := ssthreshAfterLoss * maxSegmentSize

		prr.onPacketLost(bytesInFlight)

		// A single ack always lets one packet leave, for forward progress.
		prr.onPacketAcked(maxSegmentSize)
		bytesInFlight -= maxSegmentSize
		Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeTrue())

		prr.onPacketSent(maxSegmentSize)
		Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeFalse())

		for i := protocol.ByteCount(0); i < ssthreshAfterLoss-1; i++ {
			prr.onPacketAcked(maxSegmentSize)
			bytesInFlight -= maxSegmentSize
			Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeFalse())

			prr.onPacketAcked(maxSegmentSize)
			bytesInFlight -= maxSegmentSize
			Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeTrue())

			prr.onPacketSent(maxSegmentSize)
			bytesInFlight += maxSegmentSize
		}

		Expect(bytesInFlight).To(Equal(congestionWindow))
		for i := 0; i < 10; i++ {
			prr.onPacketAcked(maxSegmentSize)
			bytesInFlight -= maxSegmentSize
			Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeTrue())

			prr.onPacketSent(maxSegmentSize)
			bytesInFlight += maxSegmentSize

			Expect(bytesInFlight).To(Equal(congestionWindow))
			Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeFalse())
		}
	})

	It("allows PRR-SSRB to burst two packets per ack after a burst loss", func() {
		var prr prrSender
		bytesInFlight := 20 * maxSegmentSize
		numPacketsLost := protocol.ByteCount(13)
		ssthreshAfterLoss := protocol.ByteCount(10)
		congestionWindow := ssthreshAfterLoss * maxSegmentSize

		bytesInFlight -= numPacketsLost * maxSegmentSize
		prr.onPacketLost(bytesInFlight)

		for i := 0; i < 3; i++ {
			prr.onPacketAcked(maxSegmentSize)
			bytesInFlight -= maxSegmentSize

			for j := 0; j < 2; j++ {
				Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeTrue())
				prr.onPacketSent(maxSegmentSize)
				bytesInFlight += maxSegmentSize
			}

			Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeFalse())
		}

		for i := 0; i < 10; i++ {
			prr.onPacketAcked(maxSegmentSize)
			bytesInFlight -= maxSegmentSize
			Expect(prr.canSend(congestionWindow, bytesInFlight, ssthreshAfterLoss*maxSegmentSize)).To(BeTrue())

			prr.onPacketSent(maxSegmentSize)
			bytesInFlight += maxSegmentSize
		}
	})
})
