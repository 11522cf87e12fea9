package state

import "sort"

// ExclusionSet holds input names that must never appear in a captured snapshot.
type ExclusionSet struct {
	names map[string]struct{}
}

func NewExclusionSet(names ...string) *ExclusionSet {
	e := &ExclusionSet{names: map[string]struct{}{}}
	e.Exclude(names...)
	return e
}

func (e *ExclusionSet) Exclude(names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		e.names[name] = struct{}{}
	}
}

func (e *ExclusionSet) Contains(name string) bool {
	_, ok := e.names[name]
	return ok
}

func (e *ExclusionSet) Names() []string {
	out := make([]string, 0, len(e.names))
	for name := range e.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Apply returns a copy of the snapshot without excluded keys. Excluded names
// absent from the snapshot are ignored.
func (e *ExclusionSet) Apply(s Snapshot) Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		if e.Contains(k) {
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}
