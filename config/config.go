// Package config loads a site configuration file and builds the probe and
// sensor registries the packing classifier runs against. Shaped after
// exabgp/convert.go's external-representation-to-internal-struct
// conversion: a plain YAML document unmarshaled into Doc, then converted
// field by field into the probe.Registry/decider.Registry/classify.Classifier
// trio, with conversion errors wrapped the same way convert.go reports
// ErrInvalidPrefix/ErrInvalidNextHop/etc for a malformed Line.
package config

import (
	"fmt"
	"os"

	"github.com/flowsilk/flowpack/classify"
	"github.com/flowsilk/flowpack/decider"
	"github.com/flowsilk/flowpack/probe"
	"gopkg.in/yaml.v3"
)

// Site is the fully-built result of loading a configuration file.
type Site struct {
	Probes     *probe.Registry
	Sensors    *decider.Registry
	Classifier *classify.Classifier
}

// Load reads and parses the YAML document at path, then builds a Site from
// it. Any conversion failure names the offending probe or sensor.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Site from an already-read YAML document, e.g. embedded
// configuration or a test fixture.
func Parse(data []byte) (*Site, error) {
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return doc.Build()
}
