package harmony

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	cases := map[string]string{
		"C":  "C major",
		"B-": "B- major",
		"d":  "d minor",
		"f#": "f# minor",
		"e-": "e- minor",
	}
	for in, want := range cases {
		k, err := ParseKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, k.String())
	}

	for _, bad := range []string{"", "H", "C+"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestDegree(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("G", MustParseKey("C").Degree(5).Name())
	assert.Equal("G", MustParseKey("a").Degree(7).Name())
	assert.Equal("A-", MustParseKey("E-").Degree(4).Name())
	assert.Equal("D#", MustParseKey("E").Degree(7).Name())
	assert.Equal("G-", MustParseKey("b-").Degree(6).Name())
}

func TestPitchClass(t *testing.T) {
	p, err := ParsePitch("B-")
	require.NoError(t, err)
	assert.Equal(t, 10, p.PitchClass())
	p, err = ParsePitch("c#")
	require.NoError(t, err)
	assert.Equal(t, 1, p.PitchClass())
	p, err = ParsePitch("C-")
	require.NoError(t, err)
	assert.Equal(t, 11, p.PitchClass())
}

func TestParseRomanNumeral(t *testing.T) {
	cases := []struct {
		key       string
		figure    string
		canonical string
		chord     string
		localKey  string
		inversion int
	}{
		{"C", "I", "I", "C-major triad", "C major", 0},
		{"C", "V7", "V7", "G-dominant seventh chord", "C major", 0},
		{"C", "V7b", "V65", "G-dominant seventh chord", "C major", 1},
		{"C", "I7", "I7", "C-major seventh chord", "C major", 0},
		{"C", "ii7", "ii7", "D-minor seventh chord", "C major", 0},
		{"C", "viio", "viio", "B-diminished triad", "C major", 0},
		{"C", "Ic", "I64", "C-major triad", "C major", 2},
		{"C", "V/V", "V/V", "D-major triad", "G major", 0},
		{"C", "V7b/V", "V65/V", "D-dominant seventh chord", "G major", 1},
		{"C", "viio7/ii", "viio7/ii", "C#-diminished seventh chord", "d minor", 0},
		{"C", "V/V/V", "V/V/V", "A-major triad", "D major", 0},
		{"C", "-VI", "bVI", "A--major triad", "C major", 0},
		{"C", "Ger", "Ger65", "A--German augmented sixth chord", "C major", 0},
		{"C", "It6", "It6", "A--Italian augmented sixth chord", "C major", 0},
		{"C", "Fr", "Fr43", "A--French augmented sixth chord", "C major", 0},
		{"a", "viio7", "viio7", "G#-diminished seventh chord", "a minor", 0},
		{"a", "VII", "VII", "G-major triad", "a minor", 0},
		{"a", "N", "N6", "B--major triad", "a minor", 1},
		{"a", "V/N", "V/N6", "F-major triad", "B- major", 0},
		{"c", "-VI", "bVI", "A--major triad", "c minor", 0},
		{"c", "vi", "vi", "A-minor triad", "c minor", 0},
		{"c", "iv", "iv", "F-minor triad", "c minor", 0},
		{"c", "ii%7", "iiø7", "D-half-diminished seventh chord", "c minor", 0},
		{"c", "Cad64", "Cad64", "C-minor triad", "c minor", 2},
		{"B-", "V7d", "V42", "F-dominant seventh chord", "B- major", 3},
	}
	for _, c := range cases {
		t.Run(c.key+" "+c.figure, func(t *testing.T) {
			rn, err := ParseRomanNumeral(c.figure, MustParseKey(c.key))
			require.NoError(t, err)
			assert := assert.New(t)
			assert.Equal(c.canonical, rn.Figure)
			assert.Equal(c.chord, rn.PitchedCommonName())
			assert.Equal(c.localKey, rn.LocalKey().String())
			assert.Equal(c.inversion, rn.Inversion)
			assert.Equal(MustParseKey(c.key), rn.Key)
		})
	}
}

func TestParseRomanNumeralSecondary(t *testing.T) {
	rn, err := ParseRomanNumeral("V", MustParseKey("C"))
	require.NoError(t, err)
	assert.Nil(t, rn.Secondary)

	rn, err = ParseRomanNumeral("V/vi", MustParseKey("C"))
	require.NoError(t, err)
	require.NotNil(t, rn.Secondary)
	assert.Equal(t, "a minor", rn.Secondary.String())
	assert.Equal(t, "C major", rn.Key.String())
	assert.Equal(t, "E-major triad", rn.PitchedCommonName())
}

func TestParseRomanNumeralErrors(t *testing.T) {
	for _, bad := range []string{"", "X", "V9", "Vd", "V/Ger", "V/Cad", "Vx"} {
		_, err := ParseRomanNumeral(bad, MustParseKey("C"))
		assert.ErrorIs(t, err, ErrBadFigure, "figure %q", bad)
	}
}

func TestNormalizeKey(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Bb:major", NormalizeKey("B- major"))
	assert.Equal("Bb:major", NormalizeKey("B♭ major"))
	assert.Equal("eb:minor", NormalizeKey("e- minor"))
	assert.Equal("C:major", NormalizeKey(" C major "))
	assert.Equal(NormalizeKey("B- major"), NormalizeKey(NormalizeKey("B- major")))
}

func TestNormalizeChord(t *testing.T) {
	assert.Equal(t, "B--major triad", NormalizeChord("B--major triad"))
	// Decomposed and composed forms compare equal.
	assert.Equal(t, NormalizeChord("\u00f6"), NormalizeChord("o\u0308"))
}
