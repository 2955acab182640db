package dataset

import (
	"fmt"
	"io"

	"github.com/divVerent/haydnop20/internal/harmony"
	"github.com/divVerent/haydnop20/internal/interval"
	"github.com/divVerent/haydnop20/internal/score"
)

// scoreFormat is the registered parser used for annotation files.
var scoreFormat = "humdrum"

// KeyEvent is the local key at an annotation.
type KeyEvent struct {
	Time int64  `json:"time"`
	Key  string `json:"key"`
}

// ChordEvent is the chord of an annotation.
type ChordEvent struct {
	Time  int64  `json:"time"`
	Chord string `json:"chord"`
}

// RomanNumeralEvent is the figure of an annotation.
type RomanNumeralEvent struct {
	Time         int64  `json:"time"`
	RomanNumeral string `json:"roman_numeral"`
}

// LoadScore parses an annotated score. It fails with
// score.ErrMissingCapability unless a Humdrum parser has been registered.
func LoadScore(r io.Reader) (*score.Score, error) {
	return score.Parse(scoreFormat, r)
}

// KeyEvents returns the local key of each annotation. A tonicized chord is
// in the key it tonicizes.
func KeyEvents(s *score.Score, resolution int) []KeyEvent {
	events := make([]KeyEvent, len(s.Annotations))
	for i, a := range s.Annotations {
		events[i] = KeyEvent{
			Time: a.Offset.Ticks(resolution),
			Key:  a.RomanNumeral.LocalKey().String(),
		}
	}
	return events
}

// RomanNumerals returns the figure of each annotation.
func RomanNumerals(s *score.Score, resolution int) []RomanNumeralEvent {
	events := make([]RomanNumeralEvent, len(s.Annotations))
	for i, a := range s.Annotations {
		events[i] = RomanNumeralEvent{
			Time:         a.Offset.Ticks(resolution),
			RomanNumeral: a.RomanNumeral.Figure,
		}
	}
	return events
}

// ChordEvents returns the chord name of each annotation.
func ChordEvents(s *score.Score, resolution int) []ChordEvent {
	events := make([]ChordEvent, len(s.Annotations))
	for i, a := range s.Annotations {
		events[i] = ChordEvent{
			Time:  a.Offset.Ticks(resolution),
			Chord: a.RomanNumeral.PitchedCommonName(),
		}
	}
	return events
}

// Keys returns the key regions of a score.
func Keys(s *score.Score, resolution int) (interval.Data, error) {
	return keysFromEvents(KeyEvents(s, resolution))
}

func keysFromEvents(events []KeyEvent) (interval.Data, error) {
	in := make([]interval.Event[string], len(events))
	for i, e := range events {
		in[i] = interval.Event[string]{Time: e.Time, Label: e.Key}
	}
	ivs, err := interval.Collapse(in, harmony.NormalizeKey)
	if err != nil {
		return interval.Data{}, fmt.Errorf("keys: %w", err)
	}
	return interval.NewData(ivs, interval.UnitTicks, interval.UnitKeyMode), nil
}

// Chords returns the chord regions of a score.
func Chords(s *score.Score, resolution int) (interval.Data, error) {
	return chordsFromEvents(ChordEvents(s, resolution))
}

func chordsFromEvents(events []ChordEvent) (interval.Data, error) {
	in := make([]interval.Event[string], len(events))
	for i, e := range events {
		in[i] = interval.Event[string]{Time: e.Time, Label: e.Chord}
	}
	ivs, err := interval.Collapse(in, harmony.NormalizeChord)
	if err != nil {
		return interval.Data{}, fmt.Errorf("chords: %w", err)
	}
	return interval.NewData(ivs, interval.UnitTicks, interval.UnitOpen), nil
}

// Duration returns the time of the last annotation.
func Duration(s *score.Score, resolution int) (int64, error) {
	if len(s.Annotations) == 0 {
		return 0, fmt.Errorf("%w: score has no annotations", interval.ErrInvalidInput)
	}
	return s.Annotations[len(s.Annotations)-1].Offset.Ticks(resolution), nil
}
