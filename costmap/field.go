package costmap

import (
	"fmt"

	"github.com/relaynet/mator/relay"
)

// Field names the relay attribute a leaf predicate compares.
type Field string

// The fields the PCF grammar can condition on.
const (
	FieldFingerprint Field = "FINGERPRINT"
	FieldName        Field = "NAME"
	FieldCountry     Field = "COUNTRY"
	FieldBandwidth   Field = "BANDWIDTH"
	FieldAvgBandwidth Field = "AVGBANDWIDTH"
	FieldLatitude    Field = "LATITUDE"
	FieldLongitude   Field = "LONGITUDE"
	FieldPlatform    Field = "PLATFORM"
	FieldVersion     Field = "VERSION"
	FieldPublished   Field = "PUBLISHED"
	FieldASNumber    Field = "ASNUMBER"
	FieldASName      Field = "ASNAME"
)

// CompareOp is a leaf predicate's comparison operator.
type CompareOp string

const (
	OpEqual        CompareOp = "="
	OpLess         CompareOp = "<"
	OpGreater      CompareOp = ">"
	OpFlaggedWith  CompareOp = "FLAGGED" // operand is a relay.Flag name
)

type fieldPred struct {
	field Field
	op    CompareOp
	// exactly one of numOperand/strOperand is meaningful, selected by field.
	numOperand float64
	strOperand string
}

// FieldCompareNumber builds a leaf predicate comparing a numeric field
// (BANDWIDTH, AVGBANDWIDTH, LATITUDE, LONGITUDE, ASNUMBER) against value
// using op (<, >, =).
func FieldCompareNumber(field Field, op CompareOp, value float64) Predicate {
	return fieldPred{field: field, op: op, numOperand: value}
}

// FieldCompareString builds a leaf predicate testing a string field
// (FINGERPRINT, NAME, COUNTRY, PLATFORM, VERSION, ASNAME) for equality,
// matching the grammar's restriction that string properties support only
// equality comparisons.
func FieldCompareString(field Field, value string) Predicate {
	return fieldPred{field: field, op: OpEqual, strOperand: value}
}

// FieldFlagged builds a leaf predicate testing whether the relay carries
// the named consensus flag (e.g. "Guard", "Exit").
func FieldFlagged(flagName string) Predicate {
	return fieldPred{field: "FLAGGED", op: OpFlaggedWith, strOperand: flagName}
}

var flagsByName = map[string]relay.Flag{
	"Authority": relay.Authority,
	"BadExit":   relay.BadExit,
	"Exit":      relay.Exit,
	"Fast":      relay.Fast,
	"Guard":     relay.Guard,
	"HSDir":     relay.HSDir,
	"Named":     relay.Named,
	"Stable":    relay.Stable,
	"Running":   relay.Running,
	"Unnamed":   relay.Unnamed,
	"Valid":     relay.Valid,
	"V2Dir":     relay.V2Dir,
}

func (p fieldPred) Eval(r relay.Relay) bool {
	switch p.field {
	case "FLAGGED":
		f, ok := flagsByName[p.strOperand]
		return ok && r.Flags.Has(f)
	case FieldFingerprint:
		return r.Fingerprint == p.strOperand
	case FieldName:
		return r.Nickname == p.strOperand
	case FieldCountry:
		return r.Geo.Country == p.strOperand
	case FieldPlatform:
		return r.Platform == p.strOperand
	case FieldVersion:
		return r.Version == p.strOperand
	case FieldASName:
		return r.ASName == p.strOperand
	case FieldBandwidth:
		return compareNum(float64(r.Bandwidth), p.op, p.numOperand)
	case FieldAvgBandwidth:
		return compareNum(float64(r.AvgBandwidth), p.op, p.numOperand)
	case FieldLatitude:
		return compareNum(r.Geo.Lat, p.op, p.numOperand)
	case FieldLongitude:
		return compareNum(r.Geo.Lon, p.op, p.numOperand)
	case FieldASNumber:
		return compareNum(float64(r.ASNumber), p.op, p.numOperand)
	case FieldPublished:
		return compareNum(float64(r.Published.Unix()), p.op, p.numOperand)
	default:
		return false
	}
}

func compareNum(actual float64, op CompareOp, want float64) bool {
	switch op {
	case OpLess:
		return actual < want
	case OpGreater:
		return actual > want
	default:
		return actual == want
	}
}

func (p fieldPred) String() string {
	if p.field == "FLAGGED" {
		return fmt.Sprintf("FLAGGED(%s)", p.strOperand)
	}
	if p.strOperand != "" {
		return fmt.Sprintf("%s%s\"%s\"", p.field, p.op, p.strOperand)
	}
	return fmt.Sprintf("%s%s%g", p.field, p.op, p.numOperand)
}
