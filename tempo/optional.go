package tempo

// Optional is an int that may be absent. The zero value is empty.
type Optional struct {
	value  int
	exists bool
}

func Some(value int) Optional {
	return Optional{value: value, exists: true}
}

func None() Optional {
	return Optional{}
}

func (o Optional) Unpack() (int, bool) {
	return o.value, o.exists
}

// Value panics when o is empty.
func (o Optional) Value() int {
	if !o.exists {
		panic("access value of empty Optional")
	}
	return o.value
}

func (o Optional) Empty() bool {
	return !o.exists
}

func (o Optional) Equals(value int) bool {
	return o.exists && o.value == value
}
