package topology

import (
	"fmt"
	"iter"

	"github.com/gobwas/glob"
)

// StartupOrder returns the services with every service after all of its
// dependencies. Among services that are ready at the same time the one declared
// first wins, so the result is stable for a given document. The order is computed
// fresh on every call and holds copies, so editing it leaves t unchanged.
func (t *Topology) StartupOrder() (Services, error) {
	index, err := t.serviceIndex()
	if err != nil {
		return nil, err
	}

	for _, s := range t.Services {
		for _, d := range s.Dependencies() {
			if _, ok := index[d]; !ok {
				return nil, &DanglingReferenceError{Service: s.Name, Kind: "service", Key: d}
			}
		}
	}

	placed := map[string]bool{}
	order := make(Services, 0, len(t.Services))

	for len(order) < len(t.Services) {
		next := -1

		for i, s := range t.Services {
			if placed[s.Name] {
				continue
			}

			ready := true

			for _, d := range s.Dependencies() {
				if !placed[d] {
					ready = false
					break
				}
			}

			if ready {
				next = i
				break
			}
		}

		if next < 0 {
			return nil, &DependencyCycleError{Members: t.cycle()}
		}

		placed[t.Services[next].Name] = true
		order = append(order, t.Services[next].clone())
	}

	return order, nil
}

// Startup yields the startup order one service at a time. Each range over the
// sequence recomputes the order; on failure a single error is yielded.
func (t *Topology) Startup() iter.Seq2[Service, error] {
	return func(yield func(Service, error) bool) {
		order, err := t.StartupOrder()
		if err != nil {
			yield(Service{}, err)
			return
		}

		for _, s := range order {
			if !yield(s, nil) {
				return
			}
		}
	}
}

// Subset returns a new Topology holding the services whose names match any of the
// glob patterns, together with everything they depend on and the volumes they
// mount. Declaration order is kept.
func (t *Topology) Subset(patterns ...string) (*Topology, error) {
	want := map[string]bool{}

	if len(patterns) == 0 {
		for _, s := range t.Services {
			want[s.Name] = true
		}
	}

	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid service pattern %q: %s", p, err)
		}

		matched := false

		for _, s := range t.Services {
			if g.Match(s.Name) {
				want[s.Name] = true
				matched = true
			}
		}

		if !matched {
			return nil, fmt.Errorf("no such service: %s", p)
		}
	}

	deps := map[string][]string{}

	for _, s := range t.Services {
		deps[s.Name] = s.Dependencies()
	}

	queue := []string{}

	for name := range want {
		queue = append(queue, name)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		for _, d := range deps[name] {
			if _, ok := deps[d]; ok && !want[d] {
				want[d] = true
				queue = append(queue, d)
			}
		}
	}

	st := &Topology{
		Name:     t.Name,
		Version:  t.Version,
		Services: Services{},
		Volumes:  Volumes{},
	}

	mounted := map[string]bool{}

	for _, s := range t.Services {
		if want[s.Name] {
			st.Services = append(st.Services, s.clone())

			for _, v := range s.VolumeNames() {
				mounted[v] = true
			}
		}
	}

	for _, v := range t.Volumes {
		if mounted[v.Name] {
			st.Volumes = append(st.Volumes, v)
		}
	}

	return st, nil
}
