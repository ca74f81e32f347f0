package fallback

import (
	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/provider"
)

// ApplyOrder reorders registered chains. Each list names provider ids in the
// order they should be tried; adapters not named keep their relative order
// after the named ones, and unknown ids are ignored.
func (r *Runner) ApplyOrder(order map[travel.Capability][]string) {
	for c, ids := range order {
		chain, ok := r.chains[c]
		if !ok {
			continue
		}
		named := make(map[string]bool, len(ids))
		ordered := make([]provider.Adapter, 0, len(chain))
		for _, id := range ids {
			if named[id] {
				continue
			}
			named[id] = true
			for _, a := range chain {
				if a.ID() == id {
					ordered = append(ordered, a)
				}
			}
		}
		for _, a := range chain {
			if !named[a.ID()] {
				ordered = append(ordered, a)
			}
		}
		r.chains[c] = ordered
	}
}

// Describe lists the provider ids of every chain, for logs and the admin API
func (r *Runner) Describe() map[travel.Capability][]string {
	out := make(map[travel.Capability][]string, len(r.chains))
	for c, chain := range r.chains {
		for _, a := range chain {
			out[c] = append(out[c], a.ID())
		}
	}
	return out
}
