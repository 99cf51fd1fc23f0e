package topology

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

type NameGetter interface {
	GetName() string
}

type NameSetter interface {
	SetName(name string) error
}

type validator interface {
	validate() error
}

var (
	regexpName      = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
	regexpTypeError = regexp.MustCompile(`^line \d+: `)
)

var mountModes = map[string]bool{
	"ro": true, "rw": true, "z": true, "Z": true,
	"cached": true, "consistent": true, "delegated": true, "nocopy": true,
	"private": true, "rprivate": true, "shared": true, "rshared": true, "slave": true, "rslave": true,
}

func (v Services) MarshalYAML() (interface{}, error) {
	return marshalMapSlice(v)
}

func (v *Services) UnmarshalYAML(unmarshal func(interface{}) error) error {
	return unmarshalMapSlice(unmarshal, v, "services")
}

func (v *Service) SetName(name string) error {
	if !regexpName.MatchString(name) {
		return malformed("", "invalid service name %q", name)
	}

	v.Name = name
	return nil
}

func (v Volumes) MarshalYAML() (interface{}, error) {
	return marshalMapSlice(v)
}

func (v *Volumes) UnmarshalYAML(unmarshal func(interface{}) error) error {
	return unmarshalMapSlice(unmarshal, v, "volumes")
}

func (v *Volume) SetName(name string) error {
	if !regexpName.MatchString(name) {
		return malformed("", "invalid volume name %q", name)
	}

	v.Name = name
	return nil
}

func (v *ServiceBuild) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w interface{}

	if err := unmarshal(&w); err != nil {
		return nested("build", err)
	}

	switch t := w.(type) {
	case map[interface{}]interface{}:
		type serviceBuild ServiceBuild
		var r serviceBuild
		if err := unmarshal(&r); err != nil {
			return nested("build", err)
		}
		*v = ServiceBuild(r)
		if v.Context == "" {
			v.Context = "."
		}
	case string:
		if strings.TrimSpace(t) == "" {
			return malformed("build", "context can not be blank")
		}
		v.Context = t
	default:
		return malformed("build", "must be a string or mapping, got %s", kindOf(t))
	}

	return nil
}

func (v ServiceBuild) MarshalYAML() (interface{}, error) {
	if len(v.Args) == 0 && v.Dockerfile == "" {
		return v.Context, nil
	}

	type serviceBuild ServiceBuild
	return serviceBuild(v), nil
}

func (v *BuildArgs) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w interface{}

	if err := unmarshal(&w); err != nil {
		return nested("args", err)
	}

	args := BuildArgs{}

	switch t := w.(type) {
	case []interface{}:
		for _, a := range t {
			s, ok := a.(string)
			if !ok {
				return malformed("args", "entry %v must be a KEY=VALUE string", a)
			}
			name, value, err := splitAssignment(s)
			if err != nil {
				return malformed("args", "%s", err)
			}
			args[name] = value
		}
	case map[interface{}]interface{}:
		for k, a := range t {
			name, ok := k.(string)
			if !ok || name == "" {
				return malformed("args", "invalid key %v", k)
			}
			value, err := scalarString(a)
			if err != nil {
				return malformed("args", "%s: %s", name, err)
			}
			args[name] = value
		}
	default:
		return malformed("args", "must be a list or mapping, got %s", kindOf(t))
	}

	*v = args

	return nil
}

func (v *ServiceCommand) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w interface{}

	if err := unmarshal(&w); err != nil {
		return nested("command", err)
	}

	switch t := w.(type) {
	case string:
		v.String = t
	case []interface{}:
		for _, a := range t {
			s, err := scalarString(a)
			if err != nil {
				return malformed("command", "%s", err)
			}
			v.Array = append(v.Array, s)
		}
	default:
		return malformed("command", "must be a string or list, got %s", kindOf(t))
	}

	return nil
}

func (v ServiceCommand) MarshalYAML() (interface{}, error) {
	if len(v.Array) > 0 {
		return v.Array, nil
	}

	return v.String, nil
}

func (v *Dependencies) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w interface{}

	if err := unmarshal(&w); err != nil {
		return nested("depends_on", err)
	}

	names := []string{}

	switch t := w.(type) {
	case []interface{}:
		for _, d := range t {
			s, ok := d.(string)
			if !ok || s == "" {
				return malformed("depends_on", "invalid service name %v", d)
			}
			names = append(names, s)
		}
	case map[interface{}]interface{}:
		var ms yaml.MapSlice
		if err := unmarshal(&ms); err != nil {
			return nested("depends_on", err)
		}
		for _, msi := range ms {
			s, ok := msi.Key.(string)
			if !ok || s == "" {
				return malformed("depends_on", "invalid service name %v", msi.Key)
			}
			switch msi.Value.(type) {
			case nil, yaml.MapSlice, map[interface{}]interface{}:
			default:
				return malformed("depends_on", "%s: must be a mapping", s)
			}
			names = append(names, s)
		}
	default:
		return malformed("depends_on", "must be a list or mapping, got %s", kindOf(t))
	}

	seen := map[string]bool{}

	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			*v = append(*v, n)
		}
	}

	return nil
}

func (v *Environment) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w interface{}

	if err := unmarshal(&w); err != nil {
		return nested("environment", err)
	}

	env := Environment{}

	switch t := w.(type) {
	case []interface{}:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return malformed("environment", "entry %v must be a KEY=VALUE string", e)
			}
			name, value, err := splitAssignment(s)
			if err != nil {
				return malformed("environment", "%s", err)
			}
			env.set(name, value)
		}
	case map[interface{}]interface{}:
		var ms yaml.MapSlice
		if err := unmarshal(&ms); err != nil {
			return nested("environment", err)
		}
		for _, msi := range ms {
			name, ok := msi.Key.(string)
			if !ok || name == "" {
				return malformed("environment", "invalid key %v", msi.Key)
			}
			value, err := scalarString(msi.Value)
			if err != nil {
				return malformed("environment", "%s: %s", name, err)
			}
			env.set(name, value)
		}
	default:
		return malformed("environment", "must be a list or mapping, got %s", kindOf(t))
	}

	*v = env

	return nil
}

func (v Environment) MarshalYAML() (interface{}, error) {
	ss := make([]string, len(v))

	for i, e := range v {
		ss[i] = e.String()
	}

	return ss, nil
}

func (v *Ports) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w []interface{}

	if err := unmarshal(&w); err != nil {
		return malformed("ports", "must be a list")
	}

	pp := make(Ports, len(w))

	for i, x := range w {
		s, ok := x.(string)
		if !ok {
			return malformed("ports", "invalid port mapping %v", x)
		}

		p, err := ParsePort(s)
		if err != nil {
			return malformed("ports", "%s", err)
		}

		pp[i] = p
	}

	*v = pp

	return nil
}

func (v Ports) MarshalYAML() (interface{}, error) {
	ss := make([]string, len(v))

	for i, p := range v {
		ss[i] = p.String()
	}

	return ss, nil
}

func (v *Mounts) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w []interface{}

	if err := unmarshal(&w); err != nil {
		return malformed("volumes", "must be a list")
	}

	mm := make(Mounts, len(w))

	for i, x := range w {
		switch t := x.(type) {
		case string:
			m, err := ParseMount(t)
			if err != nil {
				return malformed("volumes", "%s", err)
			}
			mm[i] = m
		case map[interface{}]interface{}:
			m, err := parseMountLong(t)
			if err != nil {
				return nested("volumes", err)
			}
			mm[i] = m
		default:
			return malformed("volumes", "invalid volume mount %v", x)
		}
	}

	*v = mm

	return nil
}

func (v Mount) MarshalYAML() (interface{}, error) {
	if v.Type == "" {
		return v.String(), nil
	}

	ms := yaml.MapSlice{{Key: "type", Value: v.Type}}

	if v.Source != "" {
		ms = append(ms, yaml.MapItem{Key: "source", Value: v.Source})
	}

	ms = append(ms, yaml.MapItem{Key: "target", Value: v.Target})

	if v.ReadOnly() {
		ms = append(ms, yaml.MapItem{Key: "read_only", Value: true})
	}

	return ms, nil
}

// ParseMount parses the short [SOURCE:]TARGET[:MODE] volume syntax.
func ParseMount(s string) (Mount, error) {
	var m Mount

	parts := strings.Split(s, ":")

	switch len(parts) {
	case 1:
		m.Target = parts[0]
	case 2:
		m.Source, m.Target = parts[0], parts[1]
	case 3:
		m.Source, m.Target, m.Mode = parts[0], parts[1], parts[2]
	default:
		return m, fmt.Errorf("invalid volume mount %s", s)
	}

	if len(parts) > 1 && m.Source == "" {
		return m, fmt.Errorf("invalid volume mount %s: source can not be blank", s)
	}

	if !strings.HasPrefix(m.Target, "/") {
		return m, fmt.Errorf("invalid volume mount %s: target must be an absolute path", s)
	}

	if m.Mode != "" {
		for _, o := range strings.Split(m.Mode, ",") {
			if !mountModes[o] {
				return m, fmt.Errorf("invalid volume mount %s: unknown mode %s", s, o)
			}
		}
	}

	return m, nil
}

func parseMountLong(w map[interface{}]interface{}) (Mount, error) {
	var r struct {
		Type     string `yaml:"type"`
		Source   string `yaml:"source"`
		Target   string `yaml:"target"`
		ReadOnly bool   `yaml:"read_only"`
	}

	if err := remarshal(w, &r); err != nil {
		return Mount{}, err
	}

	m := Mount{Source: r.Source, Target: r.Target, Type: r.Type}

	if r.ReadOnly {
		m.Mode = "ro"
	}

	switch r.Type {
	case "":
	case MountVolume:
		if r.Source == "" {
			m.Type = ""
		}
	case MountBind:
		if r.Source == "" {
			return m, malformed("", "bind mount of %s requires a source", r.Target)
		}
	case MountTmpfs:
		if r.Source != "" {
			return m, malformed("", "tmpfs mount of %s can not have a source", r.Target)
		}
	default:
		return m, malformed("", "unknown mount type %s", r.Type)
	}

	if !strings.HasPrefix(r.Target, "/") {
		return m, malformed("", "mount target %q must be an absolute path", r.Target)
	}

	return m, nil
}

func splitAssignment(s string) (string, string, error) {
	parts := strings.SplitN(s, "=", 2)

	if len(parts) != 2 {
		return "", "", fmt.Errorf("entry %q must be KEY=VALUE", s)
	}

	if strings.TrimSpace(parts[0]) == "" {
		return "", "", fmt.Errorf("entry %q has an empty key", s)
	}

	return parts[0], parts[1], nil
}

func scalarString(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprintf("%v", t), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %s", kindOf(t))
	}
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int, int64, uint64, float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "list"
	case map[interface{}]interface{}, yaml.MapSlice:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// nested places an error found while decoding a child node under path.
func nested(path string, err error) error {
	switch t := err.(type) {
	case *MalformedSpecError:
		return t.under(path)
	case *DuplicateKeyError, *DanglingReferenceError, *DependencyCycleError:
		return err
	case *yaml.TypeError:
		reasons := make([]string, len(t.Errors))
		for i, e := range t.Errors {
			reasons[i] = regexpTypeError.ReplaceAllString(e, "")
		}
		return malformed(path, "%s", strings.Join(reasons, "; "))
	default:
		return malformed(path, "%s", err)
	}
}

func remarshal(in, out interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, out)
}

func marshalMapSlice(in interface{}) (interface{}, error) {
	ms := yaml.MapSlice{}

	iv := reflect.ValueOf(in)

	if iv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("not a slice")
	}

	for i := 0; i < iv.Len(); i++ {
		ii := iv.Index(i).Interface()

		if iing, ok := ii.(NameGetter); ok {
			ms = append(ms, yaml.MapItem{
				Key:   iing.GetName(),
				Value: ii,
			})
		}
	}

	return ms, nil
}

// unmarshalMapSlice decodes a named section into a slice in declaration order,
// rejecting repeated names before any entry is decoded.
func unmarshalMapSlice(unmarshal func(interface{}) error, v interface{}, section string) error {
	rv := reflect.ValueOf(v).Elem()
	vit := rv.Type().Elem()

	var ms yaml.MapSlice

	if err := unmarshal(&ms); err != nil {
		return malformed(section, "must be a mapping")
	}

	names := make([]string, len(ms))
	seen := map[string]bool{}

	for i, msi := range ms {
		switch t := msi.Key.(type) {
		case int:
			names[i] = fmt.Sprintf("%d", t)
		case string:
			names[i] = t
		default:
			return malformed(section, "unknown key type: %T", t)
		}

		if seen[names[i]] {
			return &DuplicateKeyError{Section: section, Key: names[i]}
		}

		seen[names[i]] = true
	}

	for i, msi := range ms {
		path := fmt.Sprintf("%s.%s", section, names[i])
		item := reflect.New(vit).Interface()

		if err := remarshal(msi.Value, item); err != nil {
			return nested(path, err)
		}

		if ns, ok := item.(NameSetter); ok {
			if err := ns.SetName(names[i]); err != nil {
				return nested(section, err)
			}
		}

		if iv, ok := item.(validator); ok {
			if err := iv.validate(); err != nil {
				return nested(path, err)
			}
		}

		rv.Set(reflect.Append(rv, reflect.ValueOf(item).Elem()))
	}

	return nil
}
