package vkboot

// ExtensionSet compares wanted and required names against what a runtime or
// adapter actually offers. Layers use the same type with no required names.
type ExtensionSet struct {
	wanted   []string
	required []string
	actual   map[string]struct{}
}

func NewExtensionSet(wanted, required, actual []string) *ExtensionSet {
	set := &ExtensionSet{
		wanted:   wanted,
		required: required,
		actual:   make(map[string]struct{}, len(actual)),
	}
	for _, name := range actual {
		set.actual[trimString(name)] = struct{}{}
	}
	return set
}

func (e *ExtensionSet) Has(name string) bool {
	_, ok := e.actual[trimString(name)]
	return ok
}

// HasRequired reports whether every required name is present, with the
// missing ones in request order.
func (e *ExtensionSet) HasRequired() (bool, []string) {
	missing := e.missing(e.required)
	return len(missing) == 0, missing
}

func (e *ExtensionSet) HasWanted() (bool, []string) {
	missing := e.missing(e.wanted)
	return len(missing) == 0, missing
}

// Extensions returns required names followed by wanted names not already
// required, without duplicates.
func (e *ExtensionSet) Extensions() []string {
	seen := make(map[string]struct{}, len(e.required)+len(e.wanted))
	var out []string
	for _, list := range [][]string{e.required, e.wanted} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func (e *ExtensionSet) missing(names []string) []string {
	var missing []string
	for _, name := range names {
		if !e.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
