package topology

type Volume struct {
	Name string `yaml:"-"`

	Driver   string `yaml:"driver,omitempty"`
	External bool   `yaml:"external,omitempty"`
}

type Volumes []Volume

func (v Volume) GetName() string {
	return v.Name
}
