package harmony

var triadNames = map[[2]int]string{
	{4, 7}: "major triad",
	{3, 7}: "minor triad",
	{3, 6}: "diminished triad",
	{4, 8}: "augmented triad",
}

var seventhNames = map[[3]int]string{
	{4, 7, 10}: "dominant seventh chord",
	{4, 7, 11}: "major seventh chord",
	{3, 7, 10}: "minor seventh chord",
	{3, 6, 10}: "half-diminished seventh chord",
	{3, 6, 9}:  "diminished seventh chord",
	{3, 7, 11}: "minor-major seventh chord",
	{4, 8, 11}: "augmented major seventh chord",
	{4, 8, 10}: "augmented seventh chord",
}

// intervals returns the semitones of the third, fifth and (if any) seventh
// above root.
func (c *component) intervals(key Key, root Pitch) []int {
	third, fifth := 4, 7
	switch c.quality {
	case Minor:
		third = 3
	case Diminished, HalfDiminished:
		third, fifth = 3, 6
	case Augmented:
		fifth = 8
	}
	if !c.seventh {
		return []int{third, fifth}
	}
	var seventh int
	switch c.quality {
	case Diminished:
		seventh = 9
	case HalfDiminished:
		seventh = 10
	default:
		// Diatonic seventh above the root.
		seventh = mod12(key.Degree((c.degree+5)%7+1).PitchClass() - root.PitchClass())
	}
	return []int{third, fifth, seventh}
}

func commonName(c *component, key Key, root Pitch) string {
	switch c.kind {
	case italian:
		return "Italian augmented sixth chord"
	case french:
		return "French augmented sixth chord"
	case german:
		return "German augmented sixth chord"
	}
	iv := c.intervals(key, root)
	if len(iv) == 2 {
		if name, ok := triadNames[[2]int{iv[0], iv[1]}]; ok {
			return name
		}
	} else {
		if name, ok := seventhNames[[3]int{iv[0], iv[1], iv[2]}]; ok {
			return name
		}
	}
	return "chord"
}
