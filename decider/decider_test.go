package decider

import (
	"net/netip"
	"testing"

	"github.com/flowsilk/flowpack/ipaddr"
	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/recordfilter"
	"github.com/stretchr/testify/require"
)

func recWithSrc(sip string) *record.Record {
	return &record.Record{SrcIP: record.FromAddr(netip.MustParseAddr(sip))}
}

func recWithProto(proto uint8) *record.Record {
	return &record.Record{Protocol: proto}
}

func newTestFilter(expr string) (*recordfilter.Filter, error) {
	return recordfilter.New(expr)
}

func TestVerify_BothFixedIsValidRegardless(t *testing.T) {
	ext := probe.NETWORK_EXTERNAL
	intl := probe.NETWORK_INTERNAL
	s := &Sensor{Name: "s0"}
	s.FixedNetwork[SRC] = &ext
	s.FixedNetwork[DST] = &intl
	require.NoError(t, s.Verify())
}

func TestVerify_NeitherSideSetFails(t *testing.T) {
	s := &Sensor{Name: "s0"}
	err := s.Verify()
	require.ErrorIs(t, err, ErrInvalidSensor)
}

func TestVerify_MismatchedFamiliesFails(t *testing.T) {
	s := &Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = Decider{Kind: IPBLOCK, Block: ipaddr.NewBlock(netip.MustParsePrefix("192.0.2.0/24"))}
	s.Deciders[probe.NETWORK_INTERNAL] = Decider{Kind: INTERFACE, Interfaces: map[uint32]struct{}{1: {}}}
	err := s.Verify()
	require.ErrorIs(t, err, ErrInvalidSensor)
}

func TestVerify_TwoRemaindersFails(t *testing.T) {
	s := &Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = Decider{Kind: REMAIN_IPBLOCK}
	s.Deciders[probe.NETWORK_INTERNAL] = Decider{Kind: REMAIN_IPBLOCK}
	err := s.Verify()
	require.ErrorIs(t, err, ErrInvalidSensor)
}

func TestVerify_RemainderWithoutSiblingFails(t *testing.T) {
	s := &Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = Decider{Kind: REMAIN_IPBLOCK}
	err := s.Verify()
	require.ErrorIs(t, err, ErrInvalidSensor)
}

func TestVerify_FillsImplicitRemainder(t *testing.T) {
	s := &Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = Decider{Kind: IPBLOCK, Block: ipaddr.NewBlock(netip.MustParsePrefix("192.0.2.0/24"))}
	require.NoError(t, s.Verify())
	require.Equal(t, REMAIN_IPBLOCK, s.Deciders[probe.NETWORK_INTERNAL].Kind)
}

func TestVerify_NullInterfaceCoexistsWithIPBlock(t *testing.T) {
	s := &Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = Decider{Kind: IPBLOCK, Block: ipaddr.NewBlock(netip.MustParsePrefix("192.0.2.0/24"))}
	s.Deciders[probe.NETWORK_INTERNAL] = Decider{Kind: REMAIN_IPBLOCK}
	s.Deciders[probe.NETWORK_NULL] = Decider{Kind: INTERFACE, Interfaces: map[uint32]struct{}{9: {}}}
	require.NoError(t, s.Verify())
}

func TestVerify_ReservedVariantsRejected(t *testing.T) {
	s := &Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = Decider{Kind: NEG_IPBLOCK}
	s.Deciders[probe.NETWORK_INTERNAL] = Decider{Kind: IPBLOCK, Block: ipaddr.NewBlock(netip.MustParsePrefix("192.0.2.0/24"))}
	err := s.Verify()
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestTestFlowInterfaces_RemainIPBlockComplement(t *testing.T) {
	s := &Sensor{Name: "s0"}
	s.Deciders[probe.NETWORK_EXTERNAL] = Decider{Kind: IPBLOCK, Block: ipaddr.NewBlock(netip.MustParsePrefix("192.0.2.0/24"))}
	require.NoError(t, s.Verify())

	require.True(t, s.TestFlowInterfaces(recWithSrc("192.0.2.5"), probe.NETWORK_EXTERNAL, SRC))
	require.False(t, s.TestFlowInterfaces(recWithSrc("192.0.2.5"), probe.NETWORK_INTERNAL, SRC))
	require.True(t, s.TestFlowInterfaces(recWithSrc("10.1.1.1"), probe.NETWORK_INTERNAL, SRC))
}

func TestCheckFilters(t *testing.T) {
	s := &Sensor{Name: "s0"}
	f, err := newTestFilter("proto == 17")
	require.NoError(t, err)
	s.Filters = append(s.Filters, f)

	require.True(t, s.CheckFilters(recWithProto(17)))
	require.False(t, s.CheckFilters(recWithProto(6)))
}
