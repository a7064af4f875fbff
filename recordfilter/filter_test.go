package recordfilter

import (
	"net/netip"
	"testing"

	"github.com/flowsilk/flowpack/record"
	"github.com/stretchr/testify/require"
)

func rec(sip, dip string, proto uint8, sport, dport uint16) *record.Record {
	return &record.Record{
		SrcIP:    record.FromAddr(netip.MustParseAddr(sip)),
		DstIP:    record.FromAddr(netip.MustParseAddr(dip)),
		Protocol: proto,
		SrcPort:  sport,
		DstPort:  dport,
	}
}

func TestFilter_SimpleCompare(t *testing.T) {
	f, err := New("proto == 6 && dport == 443")
	require.NoError(t, err)

	require.True(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1234, 443)))
	require.False(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1234, 80)))
	require.False(t, f.Match(rec("10.0.0.1", "10.0.0.2", 17, 1234, 443)))
}

func TestFilter_Or(t *testing.T) {
	f, err := New("dport == 80 || dport == 443")
	require.NoError(t, err)

	require.True(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1234, 80)))
	require.True(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1234, 443)))
	require.False(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1234, 22)))
}

func TestFilter_Negation(t *testing.T) {
	f, err := New("!(sip ~ 10.0.0.0/8)")
	require.NoError(t, err)

	require.False(t, f.Match(rec("10.1.1.1", "192.0.2.1", 6, 1, 1)))
	require.True(t, f.Match(rec("192.0.2.1", "10.1.1.1", 6, 1, 1)))
}

func TestFilter_CIDRContains(t *testing.T) {
	f, err := New("dip ~ 192.0.2.0/24")
	require.NoError(t, err)

	require.True(t, f.Match(rec("10.0.0.1", "192.0.2.55", 6, 1, 1)))
	require.False(t, f.Match(rec("10.0.0.1", "198.51.100.1", 6, 1, 1)))
}

func TestFilter_Comparisons(t *testing.T) {
	f, err := New("bytes >= 1000 && packets < 10")
	require.NoError(t, err)

	r := rec("10.0.0.1", "10.0.0.2", 6, 1, 1)
	r.Bytes, r.Packets = 1500, 5
	require.True(t, f.Match(r))

	r.Packets = 20
	require.False(t, f.Match(r))
}

func TestFilter_NestedGroups(t *testing.T) {
	f, err := New("proto == 6 && (dport == 80 || dport == 443)")
	require.NoError(t, err)

	require.True(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1, 80)))
	require.True(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1, 443)))
	require.False(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1, 22)))
	require.False(t, f.Match(rec("10.0.0.1", "10.0.0.2", 17, 1, 80)))
}

func TestFilter_ParseErrors(t *testing.T) {
	_, err := New("")
	require.ErrorIs(t, err, ErrEmpty)

	_, err = New("bogus == 6")
	require.ErrorIs(t, err, ErrAttr)

	_, err = New("proto @@ 6")
	require.ErrorIs(t, err, ErrOp)

	_, err = New("(proto == 6")
	require.ErrorIs(t, err, ErrUnmatched)
}

func TestFilter_ICMP(t *testing.T) {
	f, err := New("icmp_type == 8")
	require.NoError(t, err)

	r := rec("10.0.0.1", "10.0.0.2", 1, 0, 0)
	r.SetICMPTypeCode(8, 0)
	require.True(t, f.Match(r))

	r.SetICMPTypeCode(0, 0)
	require.False(t, f.Match(r))
}

func TestFilter_NilMatchesNothing(t *testing.T) {
	var f *Filter
	require.False(t, f.Match(rec("10.0.0.1", "10.0.0.2", 6, 1, 1)))
}
