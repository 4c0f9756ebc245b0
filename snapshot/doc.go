// Package snapshot provides NetworkSnapshot, the read-only view of a Tor
// consensus that every path-selection and anonymity-engine computation is
// built against: an ordered relay list, a symmetric family/subnet relation,
// the role-weight multiplier table, and the optional via-pair map used by
// latency-aware path selection.
//
// A NetworkSnapshot is built once (by Build, from already-parsed relay.Relay
// values and a relation matrix supplied by the caller's ConsensusReader /
// DescriptorStore collaborators) and never mutated afterward — the same
// "assemble once under a constructor, then treat as read-only and share
// across goroutines" lifecycle the teacher repo's core.Graph uses, but
// without core.Graph's mutex pair, since nothing here mutates post-Build.
package snapshot
