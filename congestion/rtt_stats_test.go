package congestion

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("RTTStats", func() {
	It("starts at the RFC 9002 default before any sample", func() {
		r := NewRTTStats()
		Expect(r.SmoothedRTT()).To(Equal(InitialRTT))
		Expect(r.PTO()).To(Equal(InitialRTT + 4*(InitialRTT/2)))
	})

	It("bootstraps smoothed_rtt and rttvar directly from the first sample", func() {
		r := NewRTTStats()
		now := time.Now()
		r.UpdateRTT(100*time.Millisecond, 0, now)

		Expect(r.LatestRTT()).To(Equal(100 * time.Millisecond))
		Expect(r.SmoothedRTT()).To(Equal(100 * time.Millisecond))
		Expect(r.RTTVariance()).To(Equal(50 * time.Millisecond))
		Expect(r.MinRTT()).To(Equal(100 * time.Millisecond))
	})

	It("folds later samples with the 7/8-1/8 and 3/4-1/4 EWMA weights", func() {
		r := NewRTTStats()
		now := time.Now()
		r.UpdateRTT(100*time.Millisecond, 0, now)
		r.UpdateRTT(200*time.Millisecond, 0, now.Add(time.Second))

		Expect(r.LatestRTT()).To(Equal(200 * time.Millisecond))
		Expect(r.SmoothedRTT()).To(Equal(100*time.Millisecond*7/8 + 200*time.Millisecond/8))
		Expect(r.RTTVariance()).To(Equal(50*time.Millisecond*3/4 + absDuration(100*time.Millisecond-200*time.Millisecond)/4))
	})

	It("subtracts ack delay once the sample clears min_rtt plus the delay", func() {
		r := NewRTTStats()
		now := time.Now()
		r.UpdateRTT(100*time.Millisecond, 0, now)

		ackDelay := 20 * time.Millisecond
		r.UpdateRTT(150*time.Millisecond, ackDelay, now.Add(time.Second))

		adjusted := 150*time.Millisecond - ackDelay
		Expect(r.SmoothedRTT()).To(Equal(100*time.Millisecond*7/8 + adjusted/8))
	})

	It("ignores a negative RTT sample", func() {
		r := NewRTTStats()
		now := time.Now()
		r.UpdateRTT(100*time.Millisecond, 0, now)
		r.UpdateRTT(-5*time.Millisecond, 0, now.Add(time.Second))

		Expect(r.LatestRTT()).To(Equal(100 * time.Millisecond))
	})

	It("tracks the minimum RTT observed within the window, ignoring ack delay", func() {
		r := NewRTTStats()
		now := time.Now()
		r.UpdateRTT(100*time.Millisecond, 0, now)
		r.UpdateRTT(50*time.Millisecond, 30*time.Millisecond, now.Add(time.Second))

		Expect(r.MinRTT()).To(Equal(50 * time.Millisecond))
	})
})
