package topology

// Validate checks that every dependency, link and named volume resolves and that
// the dependency graph has no cycles.
func (t *Topology) Validate() error {
	services, err := t.serviceIndex()
	if err != nil {
		return err
	}

	volumes := map[string]bool{}

	for _, v := range t.Volumes {
		if volumes[v.Name] {
			return &DuplicateKeyError{Section: "volumes", Key: v.Name}
		}

		volumes[v.Name] = true
	}

	for _, s := range t.Services {
		for _, d := range s.Dependencies() {
			if _, ok := services[d]; !ok {
				return &DanglingReferenceError{Service: s.Name, Kind: "service", Key: d}
			}
		}

		for _, v := range s.VolumeNames() {
			if !volumes[v] {
				return &DanglingReferenceError{Service: s.Name, Kind: "volume", Key: v}
			}
		}
	}

	if c := t.cycle(); c != nil {
		return &DependencyCycleError{Members: c}
	}

	return nil
}

func (t *Topology) serviceIndex() (map[string]int, error) {
	index := map[string]int{}

	for i, s := range t.Services {
		if _, ok := index[s.Name]; ok {
			return nil, &DuplicateKeyError{Section: "services", Key: s.Name}
		}

		index[s.Name] = i
	}

	return index, nil
}

const (
	unvisited = iota
	visiting
	visited
)

// cycle walks the graph depth first in declaration order and returns the members of
// the first cycle found, starting from the service where the walk entered it.
func (t *Topology) cycle() []string {
	deps := map[string][]string{}

	for _, s := range t.Services {
		deps[s.Name] = s.Dependencies()
	}

	state := map[string]int{}
	stack := []string{}

	var visit func(name string) []string

	visit = func(name string) []string {
		state[name] = visiting
		stack = append(stack, name)

		for _, d := range deps[name] {
			if _, ok := deps[d]; !ok {
				continue
			}

			switch state[d] {
			case visiting:
				for i, n := range stack {
					if n == d {
						return append([]string{}, stack[i:]...)
					}
				}
			case unvisited:
				if c := visit(d); c != nil {
					return c
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = visited

		return nil
	}

	for _, s := range t.Services {
		if state[s.Name] == unvisited {
			if c := visit(s.Name); c != nil {
				return c
			}
		}
	}

	return nil
}
