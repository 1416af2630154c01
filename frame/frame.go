// Package frame stands in for the connection's real frame encoder,
// which owns CRYPTO/STREAM/PING/ACK wire encoding and is deliberately
// out of scope for the recovery core (spec.md §1). The recovery core
// never inspects a frame's contents: it only stores frames attached to
// a Sent record, releases them to acked_frames/lost_frames on
// disposition, and clones them for PTO probes. A marker interface is
// all that contract needs.
package frame

// Frame is an opaque unit of retransmittable (or not) data the packet
// encoder placed into a packet. The real implementation lives in the
// connection's wire-format package; this core only moves frames
// between queues.
type Frame interface {
	// Clone returns a copy suitable for a PTO probe, which must retransmit
	// the data while the original Sent record remains outstanding.
	Clone() Frame
}
