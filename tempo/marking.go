package tempo

type marking struct {
	upTo int
	name string
}

// upper bounds are inclusive
var markings = []marking{
	{59, "Largo"},
	{65, "Larghetto"},
	{75, "Adagio"},
	{107, "Andante"},
	{119, "Moderato"},
	{155, "Allegro"},
	{175, "Vivace"},
	{199, "Presto"},
	{MaxBPM, "Prestissimo"},
}

// Marking returns the Italian tempo name for bpm.
func Marking(bpm int) string {
	bpm = Clamp(bpm)
	for _, m := range markings {
		if bpm <= m.upTo {
			return m.name
		}
	}
	return markings[len(markings)-1].name
}
