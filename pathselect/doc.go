// Package pathselect builds PathSelection: the joint probability model
// over (guard, middle, exit) circuits for one (sender, recipient) corner.
//
// All five variants share one construction skeleton — role eligibility,
// then variant-specific weight assignment, then related-mass
// precomputation, then optional via-relay inflation — matching §4.1's "five
// variants share a common skeleton" and grounded on the TorLike base class
// the original source's PSTor/PSUniform/PSSelektor/PSDistribuTor/PSLASTor
// all derive from (path_selection_standard.hpp). Rather than mirroring that
// inheritance hierarchy, mator follows §9's REDESIGN FLAG: one PathSelection
// struct with five constructor functions building the same three weight
// vectors plus derived quantities, dispatched by ordinary Go values instead
// of a vtable.
package pathselect
