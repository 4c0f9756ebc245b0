package relation

// Policy is the three symmetric predicates a path-selection sweep
// consults to forbid related relays from occupying two slots of the same
// circuit. All three arguments are relay indices into the same
// snapshot.NetworkSnapshot; every method is symmetric in its two listed
// arguments.
type Policy interface {
	ExitEntryRelated(exit, entry int) bool
	ExitMiddleRelated(exit, middle int) bool
	EntryMiddleRelated(entry, middle int) bool
}

// relatedFunc is the shape of snapshot.NetworkSnapshot.Related without its
// error return, taken as a plain function so this package does not depend
// on the concrete snapshot type: callers can adapt any symmetric-lookup
// source, including test fixtures.
type relatedFunc func(i, j int) bool

// SubnetPolicy is the subnet/family-only RelationshipPolicy: a pure lookup
// into the snapshot's precomputed `related` relation, grounded on
// SubnetRelations.
type SubnetPolicy struct {
	related relatedFunc
}

// NewSubnetPolicy builds a SubnetPolicy backed by related, typically
// snapshot.NetworkSnapshot.Related with the error return discarded by the
// caller (related relay indices are always in range by construction).
func NewSubnetPolicy(related relatedFunc) SubnetPolicy {
	return SubnetPolicy{related: related}
}

func (p SubnetPolicy) ExitEntryRelated(exit, entry int) bool     { return p.related(exit, entry) }
func (p SubnetPolicy) ExitMiddleRelated(exit, middle int) bool   { return p.related(exit, middle) }
func (p SubnetPolicy) EntryMiddleRelated(entry, middle int) bool { return p.related(entry, middle) }

// ASPathOracle reports which autonomous systems a route between two IPs
// crosses. mator ships only EmptyASPathOracle: Tor's original
// implementation stubs this lookup to the empty set (see
// ASRelations::tracert in the source this module is grounded on) for lack
// of a traceroute/BGP data source, and this module preserves that capability
// seam rather than guessing at a replacement.
type ASPathOracle interface {
	ASNumbers(fromAddr, toAddr string) map[uint32]struct{}
}

// EmptyASPathOracle always reports no crossed autonomous systems.
type EmptyASPathOracle struct{}

// ASNumbers implements ASPathOracle by returning the empty set.
func (EmptyASPathOracle) ASNumbers(fromAddr, toAddr string) map[uint32]struct{} {
	return nil
}

// relayAddr resolves a relay index to the address string an ASPathOracle
// expects. Kept as a function value for the same decoupling reason as
// relatedFunc above.
type relayAddr func(idx int) string

// ASPolicy additionally consults an ASPathOracle: an exit/entry pair is
// related if the sender->entry and exit->recipient paths share any AS,
// on top of the ordinary subnet relation. Only ExitEntryRelated is
// affected; ExitMiddleRelated and EntryMiddleRelated fall back to the
// embedded SubnetPolicy, matching ASRelations in the source this is
// grounded on (AS relations are "not necessarily symmetric" there, but
// mator's Policy contract requires symmetry, so ASPolicy recomputes both
// directions and ORs them — see DESIGN.md).
type ASPolicy struct {
	SubnetPolicy
	oracle        ASPathOracle
	addr          relayAddr
	senderAddr    string
	recipientAddr string
}

// NewASPolicy builds an AS-aware RelationshipPolicy for a fixed
// (sender, recipient) circuit endpoint pair.
func NewASPolicy(related relatedFunc, addr relayAddr, oracle ASPathOracle, senderAddr, recipientAddr string) ASPolicy {
	return ASPolicy{
		SubnetPolicy:  NewSubnetPolicy(related),
		oracle:        oracle,
		addr:          addr,
		senderAddr:    senderAddr,
		recipientAddr: recipientAddr,
	}
}

// ExitEntryRelated is true if the subnet relation holds, OR the
// sender->entry and exit->recipient AS paths share an AS in either
// assignment of (exit, entry) to the two circuit legs.
func (p ASPolicy) ExitEntryRelated(exit, entry int) bool {
	if p.SubnetPolicy.ExitEntryRelated(exit, entry) {
		return true
	}
	senderToEntry := p.oracle.ASNumbers(p.senderAddr, p.addr(entry))
	exitToRecipient := p.oracle.ASNumbers(p.addr(exit), p.recipientAddr)
	if sharesAS(senderToEntry, exitToRecipient) {
		return true
	}
	// Symmetrize: also check the pair with roles swapped, since Policy's
	// contract requires ExitEntryRelated to be symmetric in (exit, entry).
	senderToExit := p.oracle.ASNumbers(p.senderAddr, p.addr(exit))
	entryToRecipient := p.oracle.ASNumbers(p.addr(entry), p.recipientAddr)
	return sharesAS(senderToExit, entryToRecipient)
}

func sharesAS(a, b map[uint32]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for as := range small {
		if _, ok := large[as]; ok {
			return true
		}
	}
	return false
}

// combined ORs two policies together, grounded on CombinedRelations.
type combined struct {
	a, b Policy
}

// Combine returns a Policy that forbids a triple whenever either a or b
// would forbid it.
func Combine(a, b Policy) Policy {
	return combined{a: a, b: b}
}

func (c combined) ExitEntryRelated(exit, entry int) bool {
	return c.a.ExitEntryRelated(exit, entry) || c.b.ExitEntryRelated(exit, entry)
}
func (c combined) ExitMiddleRelated(exit, middle int) bool {
	return c.a.ExitMiddleRelated(exit, middle) || c.b.ExitMiddleRelated(exit, middle)
}
func (c combined) EntryMiddleRelated(entry, middle int) bool {
	return c.a.EntryMiddleRelated(entry, middle) || c.b.EntryMiddleRelated(entry, middle)
}
