// Package score holds parsed scores and the registry of score parsers.
//
// Parsers are optional: packages providing one register it from init, and
// programs that need it import them for their side effects, e.g.
//
//	import _ "github.com/divVerent/haydnop20/internal/humdrum"
package score

import (
	"github.com/divVerent/haydnop20/internal/harmony"
)

// Note is one sounding note.
type Note struct {
	Offset   Offset
	Duration Offset
	// Key is the MIDI note number.
	Key uint8
}

// End returns the offset right after the note.
func (n Note) End() Offset {
	return n.Offset.Add(n.Duration)
}

// Part is one voice of the score.
type Part struct {
	Name  string
	Notes []Note
}

// Meter is a time signature change.
type Meter struct {
	Offset Offset
	Num    int
	Denom  int
}

// Annotation is a roman numeral analysis at a position in the score.
type Annotation struct {
	Offset       Offset
	RomanNumeral *harmony.RomanNumeral
}

// Score is a parsed score. It is not modified after parsing.
type Score struct {
	Title    string
	Composer string
	Parts    []Part
	Meters   []Meter
	// Annotations are ordered by offset, at most one per offset.
	Annotations []Annotation
}

// End returns the offset at which the last note ends.
func (s *Score) End() Offset {
	end := Q(0, 1)
	for _, p := range s.Parts {
		for _, n := range p.Notes {
			if e := n.End(); e.Cmp(end) > 0 {
				end = e
			}
		}
	}
	return end
}

// NumNotes returns the number of notes in all parts.
func (s *Score) NumNotes() int {
	n := 0
	for _, p := range s.Parts {
		n += len(p.Notes)
	}
	return n
}
