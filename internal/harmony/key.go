// Package harmony resolves keys and roman numeral figures into chords.
package harmony

import (
	"fmt"
	"strings"
)

const stepNames = "CDEFGAB"

var (
	// naturalPitchClass is the pitch class of each unaltered step.
	naturalPitchClass = [7]int{0, 2, 4, 5, 7, 9, 11}

	majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorScale = [7]int{0, 2, 3, 5, 7, 8, 10}
)

// Pitch is a spelled pitch class.
type Pitch struct {
	// Step is 0 for C through 6 for B.
	Step int
	// Alter counts sharps (positive) or flats (negative).
	Alter int
}

// ParsePitch parses names such as "C", "f#" or "B--".
func ParsePitch(name string) (Pitch, error) {
	if name == "" {
		return Pitch{}, fmt.Errorf("empty pitch name")
	}
	step := strings.IndexByte(stepNames, upper(name[0]))
	if step < 0 {
		return Pitch{}, fmt.Errorf("invalid pitch name %q", name)
	}
	p := Pitch{Step: step}
	for _, c := range name[1:] {
		switch c {
		case '#':
			p.Alter++
		case '-':
			p.Alter--
		default:
			return Pitch{}, fmt.Errorf("invalid accidental in pitch name %q", name)
		}
	}
	return p, nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// PitchClass returns the pitch class in 0..11.
func (p Pitch) PitchClass() int {
	return mod12(naturalPitchClass[p.Step] + p.Alter)
}

// Name returns the pitch name, using "-" for flats.
func (p Pitch) Name() string {
	var b strings.Builder
	b.WriteByte(stepNames[p.Step])
	for i := 0; i < p.Alter; i++ {
		b.WriteByte('#')
	}
	for i := 0; i > p.Alter; i-- {
		b.WriteByte('-')
	}
	return b.String()
}

// MIDI returns the MIDI note number of the pitch in the given octave, where
// octave 4 starts at middle C. Alterations may cross octave boundaries.
func (p Pitch) MIDI(octave int) int {
	return (octave+1)*12 + naturalPitchClass[p.Step] + p.Alter
}

func (p Pitch) String() string {
	return p.Name()
}

// transpose moves p up by the given number of diatonic steps and semitones.
func (p Pitch) transpose(steps, semitones int) Pitch {
	q := Pitch{Step: (p.Step + steps) % 7}
	want := mod12(p.PitchClass() + semitones)
	q.Alter = wrapAlter(want - naturalPitchClass[q.Step])
	return q
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}

// wrapAlter maps a semitone difference into -6..5.
func wrapAlter(n int) int {
	return mod12(n+6) - 6
}

// Key is a tonic with a mode.
type Key struct {
	Tonic Pitch
	Minor bool
}

// ParseKey parses a tonic name; a lowercase letter means minor.
func ParseKey(tonic string) (Key, error) {
	p, err := ParsePitch(tonic)
	if err != nil {
		return Key{}, err
	}
	return Key{
		Tonic: p,
		Minor: tonic[0] >= 'a' && tonic[0] <= 'z',
	}, nil
}

// MustParseKey is like ParseKey but panics on error.
func MustParseKey(tonic string) Key {
	k, err := ParseKey(tonic)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns e.g. "B- major" or "d minor".
func (k Key) String() string {
	name := k.Tonic.Name()
	if k.Minor {
		return strings.ToLower(name[:1]) + name[1:] + " minor"
	}
	return name + " major"
}

func (k Key) scale() [7]int {
	if k.Minor {
		return minorScale
	}
	return majorScale
}

// Degree returns the pitch on the given scale degree (1-based).
func (k Key) Degree(degree int) Pitch {
	return k.Tonic.transpose(degree-1, k.scale()[degree-1])
}

// majorDegree returns the degree in the parallel major scale.
func (k Key) majorDegree(degree int) Pitch {
	return k.Tonic.transpose(degree-1, majorScale[degree-1])
}
