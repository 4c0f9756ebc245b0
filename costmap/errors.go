package costmap

import "fmt"

// PCFParseError is returned by ParsePCFList when the source expression is
// malformed. Pos is the byte offset into the source string where the
// parser gave up, matching the original C++ parser's
// pcf_parse_exception(reason, position) contract (§4.4/§7).
type PCFParseError struct {
	Pos int
	Msg string
}

func (e *PCFParseError) Error() string {
	return fmt.Sprintf("pcf parse error at byte %d: %s", e.Pos, e.Msg)
}
