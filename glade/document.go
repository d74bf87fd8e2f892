package glade

// RootSummary describes what will be generated for one root widget.
type RootSummary struct {
	ID        string   `yaml:"id"`
	Class     string   `yaml:"class"`
	Instance  string   `yaml:"instance"`
	Callbacks []string `yaml:"callbacks,omitempty"`
	Creations []string `yaml:"creation_functions,omitempty"`
}

// Summary groups the document's fragments by root widget, in document order.
func (d *Document) Summary() []RootSummary {
	summaries := make([]RootSummary, 0, len(d.Roots))
	index := make(map[string]int, len(d.Roots))

	for _, f := range d.Fragments {
		switch f.Kind {
		case FragmentClass:
			index[f.Root] = len(summaries)
			summaries = append(summaries, RootSummary{
				ID:       f.Root,
				Class:    f.Class,
				Instance: Uncapitalize(f.Root),
			})
		case FragmentCallback:
			s := &summaries[index[f.Root]]
			s.Callbacks = append(s.Callbacks, f.Handler)
		case FragmentCreation:
			s := &summaries[index[f.Root]]
			s.Creations = append(s.Creations, f.Handler)
		}
	}
	return summaries
}

// Count returns how many fragments of the given kind the document holds.
func (d *Document) Count(kind FragmentKind) int {
	n := 0
	for _, f := range d.Fragments {
		if f.Kind == kind {
			n++
		}
	}
	return n
}
