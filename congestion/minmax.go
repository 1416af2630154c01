package congestion

import "time"

// minmaxSample is one generation of the windowed-minimum estimator: the
// smallest value seen since t, and the time it was recorded.
type minmaxSample struct {
	val time.Duration
	t   time.Time
}

// minmaxRTT is a three-generation windowed-minimum tracker over
// duration samples, bounded to rttWindow. It answers MinRTT in O(1) and
// never holds a sample older than the window, per spec.md §4.1: "a
// three-sample minmax estimator: replace the current estimate when a
// smaller sample arrives, and rotate through three generations when the
// oldest exceeds the window". There is no pack example that ships this
// filter, so it is written from the spec's own description rather than
// grounded on a library (see DESIGN.md).
type minmaxRTT struct {
	s           [3]minmaxSample
	initialized bool
}

// Reset seeds all three generations with a single sample, used on the
// first RTT measurement of a connection.
func (m *minmaxRTT) Reset(now time.Time, val time.Duration) {
	s := minmaxSample{val: val, t: now}
	m.s[0], m.s[1], m.s[2] = s, s, s
	m.initialized = true
}

// Get returns the current windowed minimum.
func (m *minmaxRTT) Get() time.Duration {
	if !m.initialized {
		return 0
	}
	return m.s[0].val
}

// RunningMin folds in a new sample, expiring generations older than
// window.
func (m *minmaxRTT) RunningMin(window time.Duration, now time.Time, val time.Duration) {
	if !m.initialized {
		m.Reset(now, val)
		return
	}

	sample := minmaxSample{val: val, t: now}

	// A new minimum resets the whole window: every future generation
	// starts from here.
	if val <= m.s[0].val || now.Sub(m.s[2].t) > window {
		m.Reset(now, val)
		return
	}

	if val <= m.s[1].val {
		m.s[1] = sample
		m.s[2] = sample
	} else if val <= m.s[2].val {
		m.s[2] = sample
	}

	// Expire generations whose window has passed, sliding newer
	// generations down and seeding the freed slot with the new sample.
	switch {
	case now.Sub(m.s[0].t) > window:
		m.s[0] = m.s[1]
		m.s[1] = m.s[2]
		m.s[2] = sample
		if now.Sub(m.s[0].t) > window {
			m.s[0] = m.s[1]
			m.s[1] = m.s[2]
		}
	case m.s[1].t == m.s[0].t && now.Sub(m.s[1].t) > window/4:
		m.s[1] = sample
		m.s[2] = sample
	case m.s[2].t == m.s[1].t && now.Sub(m.s[2].t) > window/2:
		m.s[2] = sample
	}
}
