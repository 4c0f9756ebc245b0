// Package relay defines Relay, the unit of network topology every other
// package in mator operates over: a Tor relay's identity, bandwidth, flag
// set, exit policy, and geolocation/AS metadata.
//
// Relay is a plain, immutable-by-convention value type grounded on
// core.Vertex/core.Edge in the teacher repo — the same "small struct plus
// a purely additive flag set plus an ordered-rule policy" shape, adapted
// from graph-vertex identity to Tor-relay identity. Flags are represented
// as a bitmask (FlagSet) rather than a map, since the fixed 12-flag
// vocabulary in the consensus format never grows at runtime.
package relay
