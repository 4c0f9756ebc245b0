// Package relation implements RelationshipPolicy: the three symmetric
// predicates — exit/entry related, exit/middle related, entry/middle
// related — that forbid certain (guard, middle, exit) triples from ever
// being assembled into a circuit.
//
// Grounded on ShorTor's RelationshipManager hierarchy
// (relationship_manager.hpp): SubnetRelations becomes the subnet-only
// policy below, ASRelations becomes the AS-aware policy consulting an
// ASPathOracle collaborator, and CombinedRelations becomes the Combine
// function. ConsensusRelations has no analogue here — family/subnet
// relation computation itself belongs to the ConsensusReader/
// DescriptorStore collaborators (external to this module per SPEC_FULL's
// Non-goals) and arrives pre-computed in snapshot.NetworkSnapshot.
package relation
