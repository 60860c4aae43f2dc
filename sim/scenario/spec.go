// Package scenario loads YAML scenario files into validated run
// configurations. It is the thin collaborator surface between stored
// scenario documents and the sim package; the engine itself never touches
// files.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/factory-sim/factory-sim/sim"
)

// Spec is the top-level scenario file: run parameters plus the inlined
// configuration sections.
type Spec struct {
	Name    string  `yaml:"name,omitempty"`
	Seed    int64   `yaml:"seed,omitempty"`
	Horizon float64 `yaml:"horizon,omitempty"`

	Config sim.Config `yaml:",inline"`
}

// Load reads and parses a scenario file. Unknown fields are rejected so
// typos surface as load errors rather than silently ignored sections.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if spec.Horizon == 0 {
		logrus.Warn("scenario has no horizon; the caller must provide one")
	}
	if err := spec.Config.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
