package topology

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/distribution/reference"
	shellquote "github.com/kballard/go-shellquote"
	homedir "github.com/mitchellh/go-homedir"
)

type Service struct {
	Name string `yaml:"-"`

	Build       ServiceBuild   `yaml:"build,omitempty"`
	Command     ServiceCommand `yaml:"command,omitempty"`
	DependsOn   Dependencies   `yaml:"depends_on,omitempty"`
	Environment Environment    `yaml:"environment,omitempty"`
	Image       string         `yaml:"image,omitempty"`
	Links       []string       `yaml:"links,omitempty"`
	Ports       Ports          `yaml:"ports,omitempty"`
	Volumes     Mounts         `yaml:"volumes,omitempty"`
}

type Services []Service

type ServiceBuild struct {
	Args       BuildArgs `yaml:"args,omitempty"`
	Context    string    `yaml:"context,omitempty"`
	Dockerfile string    `yaml:"dockerfile,omitempty"`
}

type BuildArgs map[string]string

// ServiceCommand holds either a shell-style string or an exec-style array.
type ServiceCommand struct {
	Array  []string
	String string
}

type Dependencies []string

type Environment []EnvironmentItem

type EnvironmentItem struct {
	Name  string
	Value string
}

func (s Service) GetName() string {
	return s.Name
}

// Argv returns the command override as an argument vector, or nil when the image
// default should be used.
func (s Service) Argv() ([]string, error) {
	return s.Command.Argv()
}

// Dependencies returns the names of the services that must start before this one:
// depends_on entries followed by link targets, without duplicates.
func (s Service) Dependencies() []string {
	seen := map[string]bool{}
	deps := []string{}

	for _, d := range s.DependsOn {
		if !seen[d] {
			seen[d] = true
			deps = append(deps, d)
		}
	}

	for _, l := range s.Links {
		name := strings.SplitN(l, ":", 2)[0]

		if !seen[name] {
			seen[name] = true
			deps = append(deps, name)
		}
	}

	return deps
}

func (s Service) EnvironmentMap() map[string]string {
	return s.Environment.Map()
}

// ImageReference returns the normalized form of the image, e.g. postgres:13 becomes
// docker.io/library/postgres:13.
func (s Service) ImageReference() (string, error) {
	if s.Image == "" {
		return "", fmt.Errorf("service %s has no image", s.Name)
	}

	named, err := reference.ParseNormalizedNamed(s.Image)
	if err != nil {
		return "", err
	}

	return reference.TagNameOnly(named).String(), nil
}

func (s Service) IsBuild() bool {
	return s.Build.Context != ""
}

// Source is the build context for built services and the image reference otherwise.
func (s Service) Source() string {
	if s.IsBuild() {
		return s.Build.Context
	}

	return s.Image
}

// VolumeNames returns the named volumes this service mounts, in mount order.
func (s Service) VolumeNames() []string {
	names := []string{}

	for _, m := range s.Volumes {
		if m.Kind() == MountVolume {
			names = append(names, m.Source)
		}
	}

	return names
}

// clone returns s with none of its slices or maps shared.
func (s Service) clone() Service {
	s.Build.Args = maps.Clone(s.Build.Args)
	s.Command.Array = slices.Clone(s.Command.Array)
	s.DependsOn = slices.Clone(s.DependsOn)
	s.Environment = slices.Clone(s.Environment)
	s.Links = slices.Clone(s.Links)
	s.Ports = slices.Clone(s.Ports)
	s.Volumes = slices.Clone(s.Volumes)

	return s
}

func (s Service) validate() error {
	switch {
	case s.Build.Context == "" && s.Image == "":
		return malformed("", "one of build or image is required")
	case s.Build.Context != "" && s.Image != "":
		return malformed("", "build and image are mutually exclusive")
	}

	if s.Image != "" {
		if _, err := reference.ParseNormalizedNamed(s.Image); err != nil {
			return malformed("image", "invalid image reference %q: %s", s.Image, err)
		}
	}

	return nil
}

func (c ServiceCommand) Argv() ([]string, error) {
	if len(c.Array) > 0 {
		return c.Array, nil
	}

	if c.String == "" {
		return nil, nil
	}

	return shellquote.Split(c.String)
}

func (c ServiceCommand) IsZero() bool {
	return c.String == "" && len(c.Array) == 0
}

func (e Environment) Map() map[string]string {
	env := map[string]string{}

	for _, item := range e {
		env[item.Name] = item.Value
	}

	return env
}

// set overwrites an existing key in place or appends a new one.
func (e *Environment) set(name, value string) {
	for i := range *e {
		if (*e)[i].Name == name {
			(*e)[i].Value = value
			return
		}
	}

	*e = append(*e, EnvironmentItem{Name: name, Value: value})
}

func (ei EnvironmentItem) String() string {
	return fmt.Sprintf("%s=%s", ei.Name, ei.Value)
}

const (
	MountAnonymous = "anonymous"
	MountBind      = "bind"
	MountTmpfs     = "tmpfs"
	MountVolume    = "volume"
)

type Mount struct {
	Mode   string
	Source string
	Target string
	Type   string
}

type Mounts []Mount

// Kind classifies the mount. Sources that look like paths are bind mounts, anything
// else names a volume that must be declared.
func (m Mount) Kind() string {
	if m.Type != "" {
		return m.Type
	}

	switch {
	case m.Source == "":
		return MountAnonymous
	case isHostPath(m.Source):
		return MountBind
	default:
		return MountVolume
	}
}

// HostPath resolves a bind mount source to an absolute path, expanding ~ and joining
// relative paths onto dir.
func (m Mount) HostPath(dir string) (string, error) {
	if m.Kind() != MountBind {
		return "", fmt.Errorf("not a bind mount: %s", m)
	}

	p, err := homedir.Expand(m.Source)
	if err != nil {
		return "", err
	}

	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}

	return filepath.Clean(p), nil
}

func (m Mount) ReadOnly() bool {
	for _, o := range strings.Split(m.Mode, ",") {
		if o == "ro" {
			return true
		}
	}

	return false
}

func (m Mount) String() string {
	parts := []string{}

	if m.Source != "" {
		parts = append(parts, m.Source)
	}

	parts = append(parts, m.Target)

	if m.Mode != "" {
		parts = append(parts, m.Mode)
	}

	return strings.Join(parts, ":")
}

func isHostPath(source string) bool {
	switch {
	case strings.HasPrefix(source, "/"):
		return true
	case source == "." || source == "..":
		return true
	case strings.HasPrefix(source, "./"), strings.HasPrefix(source, "../"):
		return true
	case source == "~" || strings.HasPrefix(source, "~/"):
		return true
	}

	return false
}
