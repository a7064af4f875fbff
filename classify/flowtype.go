package classify

import "fmt"

// Flowtype enumerates the fixed classification outcomes. Numeric values and
// names are asserted to agree at Classifier construction time.
type Flowtype uint8

const (
	IN Flowtype = 1 + iota
	OUT
	IN_WEB
	OUT_WEB
	IN_NULL
	OUT_NULL
	INT2INT
	EXT2EXT
	IN_ICMP
	OUT_ICMP
	OTHER
)

var flowtypeNames = [...]string{
	IN:       "in",
	OUT:      "out",
	IN_WEB:   "inweb",
	OUT_WEB:  "outweb",
	IN_NULL:  "innull",
	OUT_NULL: "outnull",
	INT2INT:  "int2int",
	EXT2EXT:  "ext2ext",
	IN_ICMP:  "inicmp",
	OUT_ICMP: "outicmp",
	OTHER:    "other",
}

func (f Flowtype) String() string {
	if int(f) < len(flowtypeNames) && flowtypeNames[f] != "" {
		return flowtypeNames[f]
	}
	return fmt.Sprintf("flowtype(%d)", uint8(f))
}

// FlowtypeString parses the fixed name back into a Flowtype.
func FlowtypeString(s string) (Flowtype, error) {
	for f, name := range flowtypeNames {
		if name == s {
			return Flowtype(f), nil
		}
	}
	return 0, fmt.Errorf("classify: %w: %q", ErrFlowtypeName, s)
}

// assertNameAgreement returns an error if flowtypeNames has a gap or the
// wrong length, catching a typo in the table at the earliest possible point
// (Classifier construction), matching the "classifier asserts
// numeric/name agreement at startup" requirement.
func assertNameAgreement() error {
	for f := IN; f <= OTHER; f++ {
		if int(f) >= len(flowtypeNames) || flowtypeNames[f] == "" {
			return fmt.Errorf("classify: flowtype %d has no name", f)
		}
	}
	return nil
}
