package topology

import (
	"fmt"

	yaml "gopkg.in/yaml.v2"
)

// Topology is the resolved form of a compose document. It is built once by Parse or
// Load and is not modified afterwards; Subset returns a new Topology.
type Topology struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`

	Services Services `yaml:"services"`
	Volumes  Volumes  `yaml:"volumes,omitempty"`
}

// Load interpolates env into the string values of data, parses the result and
// validates it.
func Load(data []byte, env map[string]string) (*Topology, error) {
	p, err := interpolateDocument(data, env)
	if err != nil {
		return nil, err
	}

	t, err := Parse(p)
	if err != nil {
		return nil, err
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Parse decodes a document with a services section and an optional volumes section.
// It checks structure only; references are checked by Validate.
func Parse(data []byte) (*Topology, error) {
	var doc interface{}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed("", "%s", err)
	}

	top, ok := doc.(map[interface{}]interface{})
	if !ok {
		return nil, malformed("", "document must be a mapping, got %s", kindOf(doc))
	}

	switch t := top["services"].(type) {
	case map[interface{}]interface{}:
	case nil:
		return nil, malformed("services", "section is required")
	default:
		return nil, malformed("services", "must be a mapping, got %s", kindOf(t))
	}

	switch t := top["volumes"].(type) {
	case map[interface{}]interface{}, nil:
	default:
		return nil, malformed("volumes", "must be a mapping, got %s", kindOf(t))
	}

	var t Topology

	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, nested("", err)
	}

	return &t, nil
}

func (t *Topology) Raw() ([]byte, error) {
	return yaml.Marshal(t)
}

func (t *Topology) Service(name string) (*Service, error) {
	for _, s := range t.Services {
		if s.Name == name {
			c := s.clone()
			return &c, nil
		}
	}

	return nil, fmt.Errorf("no such service: %s", name)
}

func (t *Topology) ServiceNames() []string {
	names := make([]string, len(t.Services))

	for i, s := range t.Services {
		names[i] = s.Name
	}

	return names
}

func (t *Topology) Volume(name string) (*Volume, error) {
	for _, v := range t.Volumes {
		if v.Name == name {
			return &v, nil
		}
	}

	return nil, fmt.Errorf("no such volume: %s", name)
}
