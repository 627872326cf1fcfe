package tempo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TimeSignature is a meter. Only Beats affects timing, Unit is display only.
type TimeSignature struct {
	Beats int // beats per measure
	Unit  int // note value of one beat
}

// Signatures is the set of recognised meters, in display order.
var Signatures = []TimeSignature{
	{2, 4},
	{3, 4},
	{4, 4},
	{5, 4},
	{6, 8},
	{7, 8},
	{9, 8},
	{12, 8},
}

var CommonTime = TimeSignature{4, 4}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats, ts.Unit)
}

// Valid reports whether ts is one of Signatures
func (ts TimeSignature) Valid() bool {
	return ts.index() >= 0
}

func (ts TimeSignature) index() int {
	for i, s := range Signatures {
		if s == ts {
			return i
		}
	}
	return -1
}

// Next cycles forward through Signatures. Unknown meters restart at the first one.
func (ts TimeSignature) Next() TimeSignature {
	return Signatures[(ts.index()+1)%len(Signatures)]
}

// Prev cycles backward through Signatures.
func (ts TimeSignature) Prev() TimeSignature {
	i := ts.index()
	if i <= 0 {
		return Signatures[len(Signatures)-1]
	}
	return Signatures[i-1]
}

// ParseTimeSignature accepts one of the literals "2/4", "3/4", "4/4", "5/4",
// "6/8", "7/8", "9/8" and "12/8".
func ParseTimeSignature(s string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return TimeSignature{}, errors.Errorf("invalid time signature format %q", s)
	}

	beats, err1 := strconv.Atoi(parts[0])
	unit, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return TimeSignature{}, errors.Errorf("invalid number in time signature %q", s)
	}

	ts := TimeSignature{Beats: beats, Unit: unit}
	if !ts.Valid() {
		return TimeSignature{}, errors.Errorf("time signature %q not supported", s)
	}
	return ts, nil
}

// MustParseTimeSignature panics on unknown literals. Meant for package-level tables.
func MustParseTimeSignature(s string) TimeSignature {
	ts, err := ParseTimeSignature(s)
	if err != nil {
		panic(err)
	}
	return ts
}
