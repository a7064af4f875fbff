package config

// Doc is the top-level shape of a site configuration file: probes, the
// named IP sets/blocks they may share, and the sensors that classify their
// records.
type Doc struct {
	WebSplit  *bool `yaml:"web_split"`
	ICMPSplit *bool `yaml:"icmp_split"`

	Probes  []ProbeDoc            `yaml:"probes"`
	IPSets  map[string][]string   `yaml:"ipsets"`  // name -> CIDR list, shared across deciders
	Sensors []SensorDoc           `yaml:"sensors"`
}

// ProbeDoc configures one ingest endpoint.
type ProbeDoc struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"` // netflow-v5, netflow-v9, ipfix, sflow, silk
	Quirks []string `yaml:"quirks"`
}

// SensorDoc configures one logical vantage point.
type SensorDoc struct {
	Name    string   `yaml:"name"`
	Class   string   `yaml:"class"`
	Probes  []string `yaml:"probes"` // probe names feeding this sensor

	FixedSrc string `yaml:"fixed_src"` // network name, if the source side is pinned
	FixedDst string `yaml:"fixed_dst"`

	External *DeciderDoc `yaml:"external"`
	Internal *DeciderDoc `yaml:"internal"`
	Null     *DeciderDoc `yaml:"null"`

	Filters []string `yaml:"filters"`
}

// DeciderDoc configures one network's membership rule.
type DeciderDoc struct {
	Kind       string   `yaml:"kind"` // interface, remain-interface, ipblock, remain-ipblock, ipset, remain-ipset
	Interfaces []uint32 `yaml:"interfaces"`
	Blocks     []string `yaml:"blocks"` // literal CIDR list
	Set        string   `yaml:"set"`    // name into Doc.IPSets
}
