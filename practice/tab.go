package practice

// Tab selects which aid the shell renders
type Tab int

const (
	TabMetronome Tab = iota
	TabTrainer
	TabLoop
)

// Tabs in display order
var Tabs = []Tab{TabMetronome, TabTrainer, TabLoop}

func (t Tab) String() string {
	switch t {
	case TabTrainer:
		return "Speed Trainer"
	case TabLoop:
		return "Loop Section"
	default:
		return "Metronome"
	}
}

// Key is the short config name
func (t Tab) Key() string {
	switch t {
	case TabTrainer:
		return "trainer"
	case TabLoop:
		return "loop"
	default:
		return "metronome"
	}
}

// ParseTab maps a config name back to a tab, defaulting to the metronome
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if t.Key() == s {
			return t
		}
	}
	return TabMetronome
}

func (t Tab) next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

func (t Tab) prev() Tab {
	return Tabs[(int(t)+len(Tabs)-1)%len(Tabs)]
}
