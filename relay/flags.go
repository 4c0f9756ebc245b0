package relay

import "strings"

// Flag is a single bit in a relay's FlagSet, drawn from the consensus
// document's fixed vocabulary. Flags are purely additive: a relay either
// carries a flag or it doesn't, and no flag implies or excludes another at
// this layer (role eligibility in pathselect derives meaning from
// combinations of these bits).
type Flag uint16

// The twelve consensus flags, in the order the spec lists them.
const (
	Authority Flag = 1 << iota
	BadExit
	Exit
	Fast
	Guard
	HSDir
	Named
	Stable
	Running
	Unnamed
	Valid
	V2Dir
)

var flagNames = map[Flag]string{
	Authority: "Authority",
	BadExit:   "BadExit",
	Exit:      "Exit",
	Fast:      "Fast",
	Guard:     "Guard",
	HSDir:     "HSDir",
	Named:     "Named",
	Stable:    "Stable",
	Running:   "Running",
	Unnamed:   "Unnamed",
	Valid:     "Valid",
	V2Dir:     "V2Dir",
}

// FlagSet is a bitmask over Flag. The zero value is the empty set.
type FlagSet uint16

// Has reports whether every bit in want is set.
func (fs FlagSet) Has(want Flag) bool {
	return FlagSet(want)&fs == FlagSet(want)
}

// HasAny reports whether at least one bit in want is set.
func (fs FlagSet) HasAny(want FlagSet) bool {
	return fs&want != 0
}

// With returns fs with f added. FlagSet is a value type, so this never
// mutates a shared Relay's flags out from under a concurrent reader.
func (fs FlagSet) With(f Flag) FlagSet {
	return fs | FlagSet(f)
}

// Without returns fs with f removed.
func (fs FlagSet) Without(f Flag) FlagSet {
	return fs &^ FlagSet(f)
}

// String renders the set flags in declaration order, e.g. "Fast|Guard|Valid".
func (fs FlagSet) String() string {
	var names []string
	for _, f := range []Flag{Authority, BadExit, Exit, Fast, Guard, HSDir, Named, Stable, Running, Unnamed, Valid, V2Dir} {
		if fs.Has(f) {
			names = append(names, flagNames[f])
		}
	}
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, "|")
}
