package topology

import (
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

var (
	regexpInterpolation = regexp.MustCompile(`\$(?:\$|\{([^}]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)
	regexpVariable      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// interpolateDocument substitutes env into every string scalar of data, mapping keys
// included, and encodes the result again. Substituted values stay strings and are
// never read as YAML; comments are dropped before substitution.
func interpolateDocument(data []byte, env map[string]string) ([]byte, error) {
	var doc yaml.MapSlice

	// syntax errors and documents that are not a mapping are left for Parse to report
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc) == 0 {
		return data, nil
	}

	v, err := interpolateNode(doc, env)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(v)
}

func interpolateNode(n interface{}, env map[string]string) (interface{}, error) {
	switch t := n.(type) {
	case string:
		return interpolate(t, env)
	case yaml.MapSlice:
		ms := make(yaml.MapSlice, len(t))

		for i, item := range t {
			k, err := interpolateNode(item.Key, env)
			if err != nil {
				return nil, err
			}

			v, err := interpolateNode(item.Value, env)
			if err != nil {
				return nil, err
			}

			ms[i] = yaml.MapItem{Key: k, Value: v}
		}

		return ms, nil
	case []interface{}:
		is := make([]interface{}, len(t))

		for i, x := range t {
			v, err := interpolateNode(x, env)
			if err != nil {
				return nil, err
			}

			is[i] = v
		}

		return is, nil
	}

	return n, nil
}

// interpolate substitutes $VAR, ${VAR}, ${VAR:-default}, ${VAR-default}, ${VAR:?message}
// and ${VAR?message} from env. $$ is a literal $.
func interpolate(s string, env map[string]string) (string, error) {
	var ierr error

	p := regexpInterpolation.ReplaceAllStringFunc(s, func(m string) string {
		if ierr != nil {
			return m
		}

		sm := regexpInterpolation.FindStringSubmatch(m)

		switch {
		case m == "$$":
			return "$"
		case sm[2] != "":
			return env[sm[2]]
		}

		v, err := expand(sm[1], env)
		if err != nil {
			ierr = err
			return m
		}

		return v
	})

	if ierr != nil {
		return "", ierr
	}

	return p, nil
}

func expand(expr string, env map[string]string) (string, error) {
	name, op, arg := expr, "", ""

	for _, o := range []string{":-", ":?", "-", "?"} {
		if i := strings.Index(expr, o); i > 0 && (op == "" || i < strings.Index(expr, op)) {
			name, op, arg = expr[:i], o, expr[i+len(o):]
		}
	}

	if !regexpVariable.MatchString(name) {
		return "", malformed("", "invalid interpolation format ${%s}", expr)
	}

	v, ok := env[name]

	switch op {
	case ":-":
		if v == "" {
			return arg, nil
		}
	case "-":
		if !ok {
			return arg, nil
		}
	case ":?":
		if v == "" {
			return "", malformed("", "required variable %s is missing a value: %s", name, arg)
		}
	case "?":
		if !ok {
			return "", malformed("", "required variable %s is missing a value: %s", name, arg)
		}
	}

	return v, nil
}
