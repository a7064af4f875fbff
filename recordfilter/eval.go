package recordfilter

import (
	"net/netip"
	"strings"

	"github.com/flowsilk/flowpack/record"
)

// Match reports whether rec satisfies f. An empty filter matches nothing
// (CheckFilters treats a filter match as "discard", so a nil/empty filter
// would otherwise discard everything).
func (f *Filter) Match(rec *record.Record) bool {
	if f == nil || f.First == nil {
		return false
	}
	return exprEval(f.First, rec)
}

// exprEval walks the And/Or chain with short-circuit semantics: a true term
// joined by || short-circuits to true, a false term joined by && short-
// circuits to false. Mirrors the filter package's chain evaluator.
func exprEval(first *Expr, rec *record.Record) (result bool) {
	prevAnd := false
	anyOK := false
	for e := first; e != nil; e = e.Next {
		res := e.eval(rec)

		anyOK = anyOK || res
		isAnd := prevAnd || e.And

		if res {
			if !isAnd {
				return true
			}
		} else {
			if isAnd {
				return false
			}
		}
		prevAnd = e.And
	}
	return anyOK
}

func (e *Expr) eval(rec *record.Record) bool {
	var res bool
	if e.Attr == ATTR_SUB {
		res = exprEval(e.Sub, rec)
	} else {
		res = e.evalLeaf(rec)
	}
	if e.Not {
		return !res
	}
	return res
}

func (e *Expr) evalLeaf(rec *record.Record) bool {
	switch e.Attr {
	case ATTR_SIP:
		return e.evalAddr(rec.SrcIP.Addr)
	case ATTR_DIP:
		return e.evalAddr(rec.DstIP.Addr)
	case ATTR_PROTO:
		return e.evalInt(int64(rec.Protocol))
	case ATTR_SPORT:
		return e.evalInt(int64(rec.SrcPort))
	case ATTR_DPORT:
		return e.evalInt(int64(rec.DstPort))
	case ATTR_PACKETS:
		return e.evalInt(int64(rec.Packets))
	case ATTR_BYTES:
		return e.evalInt(int64(rec.Bytes))
	case ATTR_FLAGS:
		return e.evalInt(int64(rec.CombinedFlags()))
	case ATTR_SENSOR:
		return e.evalInt(int64(rec.SensorID))
	case ATTR_FLOWTYPE:
		return e.evalInt(int64(rec.FlowtypeID))
	case ATTR_APPLICATION:
		return e.evalInt(int64(rec.Application))
	case ATTR_ICMP_TYPE:
		if !rec.IsICMP() {
			return false
		}
		typ, _ := rec.ICMPTypeCode()
		return e.evalInt(int64(typ))
	case ATTR_ICMP_CODE:
		if !rec.IsICMP() {
			return false
		}
		_, code := rec.ICMPTypeCode()
		return e.evalInt(int64(code))
	case ATTR_TCP_STATE:
		return e.evalInt(int64(rec.TCPState))
	default:
		return false
	}
}

func (e *Expr) evalInt(field int64) bool {
	v, ok := e.Val.(int64)
	if !ok {
		return false
	}
	switch e.Op {
	case OP_TRUE:
		return field != 0
	case OP_EQ:
		return field == v
	case OP_LT:
		return field < v
	case OP_LE:
		return field <= v
	case OP_GT:
		return field > v
	case OP_GE:
		return field >= v
	default:
		return false
	}
}

func (e *Expr) evalAddr(addr netip.Addr) bool {
	s, ok := e.Val.(string)
	if !ok {
		return false
	}

	switch e.Op {
	case OP_TRUE:
		return addr.IsValid()
	case OP_CONTAINS:
		prefix, err := parsePrefix(s)
		if err != nil {
			return false
		}
		return prefix.Contains(unmapForCompare(addr, prefix))
	case OP_EQ:
		other, err := netip.ParseAddr(s)
		if err != nil {
			return false
		}
		return addr == other
	default:
		return false
	}
}

func parsePrefix(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		return netip.ParsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// unmapForCompare aligns addr's address family with prefix's before
// Contains, since a record's stored address may be a v4-in-v6 mapped form.
func unmapForCompare(addr netip.Addr, prefix netip.Prefix) netip.Addr {
	if addr.Is4In6() && prefix.Addr().Is4() {
		return addr.Unmap()
	}
	return addr
}
