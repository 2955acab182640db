package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/divVerent/haydnop20/internal/interval"
	"github.com/divVerent/haydnop20/internal/render"
	"github.com/divVerent/haydnop20/internal/score"
)

// ErrNoMIDIDir is returned when a MIDI file is requested from a data home
// that is not a directory and no MIDI directory is configured.
var ErrNoMIDIDir = errors.New("no directory to write MIDI files to")

// Track is one annotated movement.
//
// The score is parsed on first use and kept until the annotation file
// changes. Returned values are shared and must not be modified.
type Track struct {
	ID    string
	Title string
	// AnnotationsPath is the slash-separated path inside the data home.
	AnnotationsPath string

	ds *Dataset

	mu     sync.Mutex
	stamp  fileStamp
	state  *trackState
	parses int

	midiMu sync.Mutex
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

func (s fileStamp) equal(o fileStamp) bool {
	return s.modTime.Equal(o.modTime) && s.size == o.size
}

// trackState holds everything derived from one parse.
type trackState struct {
	score       *score.Score
	keyEvents   []KeyEvent
	chordEvents []ChordEvent
	romans      []RomanNumeralEvent
	keys        interval.Data
	keysErr     error
	chords      interval.Data
	chordsErr   error
}

func derive(s *score.Score, resolution int) *trackState {
	st := &trackState{
		score:       s,
		keyEvents:   KeyEvents(s, resolution),
		chordEvents: ChordEvents(s, resolution),
		romans:      RomanNumerals(s, resolution),
	}
	st.keys, st.keysErr = keysFromEvents(st.keyEvents)
	st.chords, st.chordsErr = chordsFromEvents(st.chordEvents)
	return st
}

func (t *Track) load() (*trackState, error) {
	info, err := fs.Stat(t.ds.fsys, t.AnnotationsPath)
	if err != nil {
		return nil, fmt.Errorf("could not stat %v: %w", t.AnnotationsPath, err)
	}
	stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != nil && t.stamp.equal(stamp) {
		return t.state, nil
	}
	if t.state != nil {
		log.Printf("track %s: %v changed, reparsing", t.ID, t.AnnotationsPath)
	}
	f, err := t.ds.fsys.Open(t.AnnotationsPath)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", t.AnnotationsPath, err)
	}
	defer f.Close()
	s, err := LoadScore(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse %v: %w", t.AnnotationsPath, err)
	}
	t.state = derive(s, t.ds.cfg.Resolution)
	t.stamp = stamp
	t.parses++
	log.Printf("track %s: parsed %d notes and %d annotations", t.ID, s.NumNotes(), len(s.Annotations))
	return t.state, nil
}

// Score returns the parsed score.
func (t *Track) Score() (*score.Score, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	return st.score, nil
}

// Keys returns the local key regions.
func (t *Track) Keys() (interval.Data, error) {
	st, err := t.load()
	if err != nil {
		return interval.Data{}, err
	}
	return st.keys, st.keysErr
}

// KeyEvents returns the local key of each annotation.
func (t *Track) KeyEvents() ([]KeyEvent, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	return st.keyEvents, nil
}

// RomanNumerals returns the annotated figures.
func (t *Track) RomanNumerals() ([]RomanNumeralEvent, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	return st.romans, nil
}

// Chords returns the chord regions.
func (t *Track) Chords() (interval.Data, error) {
	st, err := t.load()
	if err != nil {
		return interval.Data{}, err
	}
	return st.chords, st.chordsErr
}

// ChordEvents returns the chord of each annotation.
func (t *Track) ChordEvents() ([]ChordEvent, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	return st.chordEvents, nil
}

// Duration returns the time of the last chord.
func (t *Track) Duration() (int64, error) {
	st, err := t.load()
	if err != nil {
		return 0, err
	}
	if len(st.chordEvents) == 0 {
		return 0, fmt.Errorf("%w: track %s has no annotations", interval.ErrInvalidInput, t.ID)
	}
	return st.chordEvents[len(st.chordEvents)-1].Time, nil
}

func (t *Track) midiPath() (string, error) {
	rel := filepath.FromSlash(t.Title) + ".midi"
	switch {
	case t.ds.cfg.MIDIDir != "":
		return filepath.Join(t.ds.cfg.MIDIDir, rel), nil
	case t.ds.dir != "":
		return filepath.Join(t.ds.dir, rel), nil
	}
	return "", ErrNoMIDIDir
}

// MIDIPath returns the path of a MIDI rendering of the score, rendering it
// first if the file does not exist yet.
func (t *Track) MIDIPath() (string, error) {
	p, err := t.midiPath()
	if err != nil {
		return "", err
	}
	t.midiMu.Lock()
	defer t.midiMu.Unlock()
	_, err = os.Stat(p)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("could not stat %v: %w", p, err)
	}
	s, err := t.Score()
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(filepath.Dir(p), 0o777)
	if err != nil {
		return "", fmt.Errorf("could not create directory for %v: %w", p, err)
	}
	err = render.WriteFile(s, p, t.ds.cfg.renderOptions())
	if err != nil {
		return "", err
	}
	log.Printf("track %s: rendered %v", t.ID, p)
	return p, nil
}
