package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validSite = `
web_split: true
probes:
  - name: p0
    type: netflow-v5
sensors:
  - name: s0
    class: all
    probes: [p0]
    external:
      kind: ipblock
      blocks: ["192.0.2.0/24"]
    internal:
      kind: remain-ipblock
`

func TestParse_ValidSite(t *testing.T) {
	site, err := Parse([]byte(validSite))
	require.NoError(t, err)
	require.NotNil(t, site.Classifier)

	p := site.Probes.ByName("p0")
	require.NotNil(t, p)
	require.Equal(t, 1, p.SensorCount())
}

func TestParse_UnknownProbeType(t *testing.T) {
	_, err := Parse([]byte(`
probes:
  - name: p0
    type: bogus
sensors: []
`))
	require.ErrorIs(t, err, ErrProbeType)
}

func TestParse_SensorReferencesUnknownProbe(t *testing.T) {
	_, err := Parse([]byte(`
probes: []
sensors:
  - name: s0
    probes: [ghost]
    external:
      kind: remain-ipblock
    internal:
      kind: remain-ipblock
`))
	require.ErrorIs(t, err, ErrProbeRef)
}

func TestParse_NamedIPSet(t *testing.T) {
	site, err := Parse([]byte(`
probes:
  - name: p0
    type: ipfix
ipsets:
  darknet: ["198.51.100.0/24"]
sensors:
  - name: s0
    probes: [p0]
    external:
      kind: ipset
      set: darknet
    internal:
      kind: remain-ipset
      set: darknet
`))
	require.NoError(t, err)
	require.NotNil(t, site.Sensors.ByName("s0"))
}

func TestParse_UnknownNamedSet(t *testing.T) {
	_, err := Parse([]byte(`
probes: []
sensors:
  - name: s0
    external:
      kind: ipset
      set: ghost
    internal:
      kind: remain-ipblock
`))
	require.ErrorIs(t, err, ErrDeciderRef)
}

func TestParse_InvalidCIDR(t *testing.T) {
	_, err := Parse([]byte(`
probes: []
sensors:
  - name: s0
    external:
      kind: ipblock
      blocks: ["not-a-cidr"]
    internal:
      kind: remain-ipblock
`))
	require.ErrorIs(t, err, ErrBlock)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("probes: [this is not valid yaml"))
	require.ErrorIs(t, err, ErrParse)
}

func TestParse_ProbeQuirks(t *testing.T) {
	site, err := Parse([]byte(`
probes:
  - name: p0
    type: netflow-v9
    quirks: [zero-packets, fw-event]
sensors: []
`))
	require.NoError(t, err)
	p := site.Probes.ByName("p0")
	require.NotNil(t, p)
}

func TestParse_SensorFilter(t *testing.T) {
	site, err := Parse([]byte(`
probes:
  - name: p0
    type: silk
sensors:
  - name: s0
    probes: [p0]
    external:
      kind: ipblock
      blocks: ["192.0.2.0/24"]
    internal:
      kind: remain-ipblock
    filters:
      - "proto == 6"
`))
	require.NoError(t, err)
	require.NotNil(t, site.Sensors.ByName("s0"))
}

func TestParse_InvalidFilter(t *testing.T) {
	_, err := Parse([]byte(`
probes: []
sensors:
  - name: s0
    external:
      kind: remain-ipblock
    internal:
      kind: remain-ipblock
    filters:
      - "proto @@ 6"
`))
	require.ErrorIs(t, err, ErrFilter)
}
