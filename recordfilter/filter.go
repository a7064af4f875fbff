// Package recordfilter implements a small boolean expression language over
// flow record fields, e.g.:
//
//	proto == 6 && (dport == 80 || dport == 443) && !(sip ~ 10.0.0.0/8)
//
// It is the shared service behind Sensor.CheckFilters (spec §4.E) and the
// record-filtering analysis tools (out of scope individually, per spec §1,
// but all built on this one expression language).
package recordfilter

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter is a compiled boolean expression, ready to Match records.
type Filter struct {
	String string
	First  *Expr
}

// Expr is one `<attr> <op> <value>` term, optionally chained to the next
// term with a logical AND (And=true) or OR (And=false).
type Expr struct {
	String string

	Not  bool
	And  bool
	Next *Expr

	Attr Attr
	Op   Op
	Val  any // int64 or string depending on Attr; address values stay strings until eval
	Sub  *Expr
}

type Attr int
type Op int

const (
	ATTR_SUB Attr = iota
	ATTR_SIP
	ATTR_DIP
	ATTR_PROTO
	ATTR_SPORT
	ATTR_DPORT
	ATTR_PACKETS
	ATTR_BYTES
	ATTR_FLAGS
	ATTR_SENSOR
	ATTR_FLOWTYPE
	ATTR_APPLICATION
	ATTR_ICMP_TYPE
	ATTR_ICMP_CODE
	ATTR_TCP_STATE
)

const (
	OP_TRUE Op = iota
	OP_EQ
	OP_LT
	OP_LE
	OP_GT
	OP_GE
	OP_CONTAINS // ~ : CIDR contains, only for sip/dip
)

var (
	ErrEmpty     = fmt.Errorf("empty filter")
	ErrUnmatched = fmt.Errorf("unmatched parentheses")
	ErrAttr      = fmt.Errorf("invalid attribute")
	ErrOp        = fmt.Errorf("invalid operator")
	ErrValue     = fmt.Errorf("invalid value")
	ErrOpValue   = fmt.Errorf("operator needs value")
	ErrLogic     = fmt.Errorf("expecting logical operator")
)

// New compiles a filter expression.
func New(expr string) (*Filter, error) {
	f := &Filter{String: expr}

	parsed, left, err := parse(expr, 0)
	if err != nil {
		if left != "" {
			return nil, fmt.Errorf("filter %q: parse error near %q: %w", expr, left, err)
		}
		return nil, fmt.Errorf("filter %q: parse error: %w", expr, err)
	}

	f.First = parsed
	return f, nil
}

func parse(expstr string, lvl int) (parsed *Expr, left string, err error) {
	str := strings.TrimSpace(expstr)
	if len(str) == 0 {
		return nil, str, ErrEmpty
	}

	parsed = &Expr{String: str}
	exp := parsed
	for {
		str = strings.TrimSpace(str)
		if len(str) == 0 {
			break
		}

		if exp.Attr != 0 || exp.Sub != nil {
			switch {
			case str[0] == ')':
				if lvl > 0 {
					return parsed, str[1:], nil
				}
				return nil, str, ErrUnmatched
			case strings.HasPrefix(str, "&&"):
				exp.And = true
				str = str[2:]
			case strings.HasPrefix(str, "||"):
				exp.And = false
				str = str[2:]
			default:
				return nil, str, ErrLogic
			}
			str = strings.TrimSpace(str)
			exp.Next = &Expr{String: str}
			exp = exp.Next
		}

		switch {
		case str[0] == '!':
			str = str[1:]
			exp.Not = true
			continue
		case str[0] == '(':
			nexp, nstr, nerr := parse(str[1:], lvl+1)
			if nerr != nil {
				if nstr != "" {
					str = nstr
				}
				return nil, str, nerr
			}
			exp.Attr = ATTR_SUB
			exp.Sub = nexp
			str = nstr
			continue
		}

		var attr string
		for i, c := range str {
			if c == ' ' || c == ')' {
				attr = str[:i]
				str = str[i:]
				break
			}
		}
		if attr == "" {
			attr = str
			str = ""
		}

		var op string
		str = strings.TrimSpace(str)
		if len(str) > 1 && !strings.HasPrefix(str, "&&") && !strings.HasPrefix(str, "||") && str[0] != ')' {
			before, after, found := strings.Cut(str, " ")
			if found {
				op = before
				str = after
			}
		}

		var val string
		if op != "" {
			str = strings.TrimSpace(str)
			if len(str) == 0 {
				return nil, str, ErrValue
			} else if str[0] == '"' {
				var qs strings.Builder
				esc := false
				for i, c := range str {
					if i == 0 {
						continue
					} else if esc {
						esc = false
					} else if c == '\\' {
						esc = true
						continue
					} else if c == '"' {
						val = qs.String()
						str = str[i+1:]
						break
					}
					qs.WriteRune(c)
				}
			} else {
				for i, c := range str {
					if c == ' ' || c == ')' {
						val = str[:i]
						str = str[i:]
						break
					}
				}
				if val == "" {
					val = str
					str = ""
				}
			}
		}

		exp.String = strings.TrimSpace(exp.String[:len(exp.String)-len(str)])

		if attr == "" {
			return nil, exp.String, ErrAttr
		} else if op != "" && val == "" {
			return nil, exp.String, ErrOpValue
		}

		if !exp.parseAttr(attr) {
			return nil, exp.String, ErrAttr
		} else if !exp.parseOp(op) {
			return nil, exp.String, ErrOp
		} else if !exp.parseValue(val) {
			return nil, exp.String, ErrValue
		}
	}

	if lvl > 0 {
		return nil, "", ErrUnmatched
	}
	return parsed, "", nil
}

func (e *Expr) parseAttr(attr string) bool {
	switch strings.ToLower(attr) {
	case "sip":
		e.Attr = ATTR_SIP
	case "dip":
		e.Attr = ATTR_DIP
	case "proto", "protocol":
		e.Attr = ATTR_PROTO
	case "sport":
		e.Attr = ATTR_SPORT
	case "dport":
		e.Attr = ATTR_DPORT
	case "packets", "pkts":
		e.Attr = ATTR_PACKETS
	case "bytes":
		e.Attr = ATTR_BYTES
	case "flags":
		e.Attr = ATTR_FLAGS
	case "sensor":
		e.Attr = ATTR_SENSOR
	case "flowtype":
		e.Attr = ATTR_FLOWTYPE
	case "application", "app":
		e.Attr = ATTR_APPLICATION
	case "icmp_type":
		e.Attr = ATTR_ICMP_TYPE
	case "icmp_code":
		e.Attr = ATTR_ICMP_CODE
	case "tcp_state":
		e.Attr = ATTR_TCP_STATE
	default:
		return false
	}
	return true
}

func (e *Expr) parseOp(op string) bool {
	if op == "" {
		e.Op = OP_TRUE
		return true
	}
	switch op {
	case "==", "=":
		e.Op = OP_EQ
	case "!=":
		e.Op = OP_EQ
		e.Not = !e.Not
	case "<":
		e.Op = OP_LT
	case "<=":
		e.Op = OP_LE
	case ">":
		e.Op = OP_GT
	case ">=":
		e.Op = OP_GE
	case "~":
		e.Op = OP_CONTAINS
	default:
		return false
	}
	return true
}

func (e *Expr) parseValue(val string) bool {
	if val == "" {
		return true
	}

	switch e.Attr {
	case ATTR_SIP, ATTR_DIP:
		e.Val = val // parsed lazily as netip.Prefix/Addr at eval time
		return true
	default:
		if v, err := strconv.ParseInt(val, 0, 64); err == nil {
			e.Val = v
			return true
		}
		e.Val = val
		return true
	}
}
