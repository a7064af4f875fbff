package classify

import (
	"net/netip"
	"testing"

	"github.com/flowsilk/flowpack/decider"
	"github.com/flowsilk/flowpack/ipaddr"
	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/record"
	"github.com/stretchr/testify/require"
)

func addr(s string) record.IP {
	return record.FromAddr(netip.MustParseAddr(s))
}

func newFixture(t *testing.T) (*Classifier, *probe.Probe) {
	t.Helper()

	probes := probe.NewRegistry()
	sensors := decider.NewRegistry()

	external := ipaddr.NewBlock(netip.MustParsePrefix("192.0.2.0/24"))
	s := &decider.Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = decider.Decider{Kind: decider.IPBLOCK, Block: external}
	s.Deciders[probe.NETWORK_INTERNAL] = decider.Decider{Kind: decider.REMAIN_IPBLOCK}
	require.NoError(t, s.Verify())

	sid, err := sensors.Add(s)
	require.NoError(t, err)

	pid, err := probes.Add("p0", probe.NETFLOW_V5, 0)
	require.NoError(t, err)
	probes.Get(pid).AddSensor(sid)
	s.AddProbe(pid)

	cl, err := New(probes, sensors)
	require.NoError(t, err)

	return cl, probes.Get(pid)
}

func TestClassify_InboundOutbound(t *testing.T) {
	cl, p := newFixture(t)

	var ftypes [4]Flowtype
	var sids [4]probe.SensorID

	// external -> internal: IN
	rec := record.Record{SrcIP: addr("192.0.2.1"), DstIP: addr("10.1.1.1"), Protocol: 6, DstPort: 22}
	n, err := cl.Classify(p, &rec, ftypes[:], sids[:])
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, IN, ftypes[0])

	// internal -> external: OUT
	rec = record.Record{SrcIP: addr("10.1.1.1"), DstIP: addr("192.0.2.1"), Protocol: 6, DstPort: 22}
	n, err = cl.Classify(p, &rec, ftypes[:], sids[:])
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, OUT, ftypes[0])
}

func TestClassify_WebSplit(t *testing.T) {
	cl, p := newFixture(t)

	var ftypes [4]Flowtype
	var sids [4]probe.SensorID

	rec := record.Record{SrcIP: addr("192.0.2.1"), DstIP: addr("10.1.1.1"), Protocol: 6, DstPort: 443}
	n, err := cl.Classify(p, &rec, ftypes[:], sids[:])
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, IN_WEB, ftypes[0])
}

func TestClassify_NeitherSideMatches(t *testing.T) {
	probes := probe.NewRegistry()
	sensors := decider.NewRegistry()

	s := &decider.Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = decider.Decider{Kind: decider.IPBLOCK, Block: ipaddr.NewBlock(netip.MustParsePrefix("203.0.113.0/24"))}
	s.Deciders[probe.NETWORK_INTERNAL] = decider.Decider{Kind: decider.IPBLOCK, Block: ipaddr.NewBlock(netip.MustParsePrefix("10.0.0.0/8"))}
	require.NoError(t, s.Verify())

	sid, err := sensors.Add(s)
	require.NoError(t, err)
	pid, err := probes.Add("p0", probe.NETFLOW_V5, 0)
	require.NoError(t, err)
	probes.Get(pid).AddSensor(sid)
	s.AddProbe(pid)

	cl, err := New(probes, sensors)
	require.NoError(t, err)
	p := probes.Get(pid)

	var ftypes [4]Flowtype
	var sids [4]probe.SensorID

	// source address in neither explicit block -> no source network matches
	rec := record.Record{SrcIP: addr("192.0.2.1"), DstIP: addr("10.1.1.1"), Protocol: 6, DstPort: 80}
	n, err := cl.Classify(p, &rec, ftypes[:], sids[:])
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, OTHER, ftypes[0])
}

func TestClassify_FixedNetworkBypassesDeciders(t *testing.T) {
	probes := probe.NewRegistry()
	sensors := decider.NewRegistry()

	ext := probe.NETWORK_EXTERNAL
	intl := probe.NETWORK_INTERNAL
	s := &decider.Sensor{Name: "s0"}
	s.FixedNetwork[decider.SRC] = &ext
	s.FixedNetwork[decider.DST] = &intl
	require.NoError(t, s.Verify())

	sid, err := sensors.Add(s)
	require.NoError(t, err)
	pid, err := probes.Add("p0", probe.NETFLOW_V5, 0)
	require.NoError(t, err)
	probes.Get(pid).AddSensor(sid)
	s.AddProbe(pid)

	cl, err := New(probes, sensors)
	require.NoError(t, err)
	p := probes.Get(pid)

	var ftypes [4]Flowtype
	var sids [4]probe.SensorID

	// addresses match neither decider, but both sides are fixed, so this
	// must still classify as IN rather than OTHER.
	rec := record.Record{SrcIP: addr("198.51.100.1"), DstIP: addr("198.51.100.2"), Protocol: 6, DstPort: 22}
	n, err := cl.Classify(p, &rec, ftypes[:], sids[:])
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, IN, ftypes[0])
}

func TestIsWeb_MatchesEitherSide(t *testing.T) {
	// reverse-direction web flow: server's ephemeral source port is the web
	// port, destination port is the client's ephemeral port.
	rec := record.Record{Protocol: 6, SrcPort: 443, DstPort: 34567}
	require.True(t, rec.IsWeb())

	rec = record.Record{Protocol: 6, SrcPort: 34567, DstPort: 443}
	require.True(t, rec.IsWeb())

	rec = record.Record{Protocol: 6, SrcPort: 12345, DstPort: 54321}
	require.False(t, rec.IsWeb())

	rec = record.Record{Protocol: 17, SrcPort: 443, DstPort: 34567}
	require.False(t, rec.IsWeb())
}

func TestApplyFirewallOverlay(t *testing.T) {
	require.Equal(t, IN_NULL, applyFirewallOverlay(IN, fwDeniedIngress))
	require.Equal(t, OUT_NULL, applyFirewallOverlay(OUT, fwDeniedEgress))
	require.Equal(t, IN_NULL, applyFirewallOverlay(IN_WEB, fwDenied))
	require.Equal(t, OUT_NULL, applyFirewallOverlay(OUT_WEB, fwDeniedServPort))
	require.Equal(t, OTHER, applyFirewallOverlay(OTHER, fwDenied))
	// idempotent: a second pass over an already-coerced flowtype is a no-op
	require.Equal(t, IN_NULL, applyFirewallOverlay(IN_NULL, fwDenied))
}

func TestFlowtypeStringRoundTrip(t *testing.T) {
	for f := IN; f <= OTHER; f++ {
		parsed, err := FlowtypeString(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}
	_, err := FlowtypeString("bogus")
	require.ErrorIs(t, err, ErrFlowtypeName)
}
