// Package rangeset stands in for the connection's real ACK-range
// container (spec.md §1 lists it as an external collaborator). It
// implements just enough of a sorted, half-open packet-number interval
// set for the recovery core to walk in on_ack_received.
package rangeset

import (
	"sort"

	"github.com/flowquic/recovery/protocol"
)

// Range is a half-open packet-number interval [Start, End).
type Range struct {
	Start protocol.PacketNumber
	End   protocol.PacketNumber
}

// RangeSet is an ascending, non-overlapping set of packet-number ranges,
// as would be decoded from an ACK frame's range list.
type RangeSet struct {
	ranges []Range
}

// Insert adds [start, end) to the set, merging with any adjacent or
// overlapping range. Used by tests to build ACK payloads; the decoder
// that would populate this from wire bytes is out of scope here.
func (s *RangeSet) Insert(start, end protocol.PacketNumber) {
	if end <= start {
		return
	}
	r := Range{Start: start, End: end}
	merged := make([]Range, 0, len(s.ranges)+1)
	inserted := false
	for _, existing := range s.ranges {
		switch {
		case existing.End < r.Start:
			merged = append(merged, existing)
		case r.End < existing.Start:
			if !inserted {
				merged = append(merged, r)
				inserted = true
			}
			merged = append(merged, existing)
		default:
			// Overlapping or adjacent: extend r to cover existing.
			r.Start = protocol.MinPacketNumber(r.Start, existing.Start)
			r.End = protocol.MaxPacketNumber(r.End, existing.End)
		}
	}
	if !inserted {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	s.ranges = merged
}

// Ranges returns the set's ranges in ascending order. The returned slice
// must not be mutated by the caller.
func (s *RangeSet) Ranges() []Range {
	return s.ranges
}

// Largest returns the largest packet number covered by the set. Panics
// if the set is empty, matching the protocol invariant that
// on_ack_received is never called with an empty ACK range set.
func (s *RangeSet) Largest() protocol.PacketNumber {
	if len(s.ranges) == 0 {
		panic("rangeset: BUG: Largest called on an empty RangeSet")
	}
	return s.ranges[len(s.ranges)-1].End - 1
}

// Empty reports whether the set has no ranges.
func (s *RangeSet) Empty() bool {
	return len(s.ranges) == 0
}
