// Package render turns parsed scores into Standard MIDI Files.
package render

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/haydnop20/internal/score"
)

// Options control rendering.
type Options struct {
	// TicksPerQuarter is the SMF resolution.
	TicksPerQuarter int
	// Tempo is in quarter notes per minute.
	Tempo float64
	// Velocity is used for all notes; 0 means 64.
	Velocity uint8
}

// DefaultOptions returns the options used when the config sets nothing.
func DefaultOptions() Options {
	return Options{
		TicksPerQuarter: 480,
		Tempo:           120,
		Velocity:        64,
	}
}

type timedMessage struct {
	tick int64
	msg  smf.Message
}

// channel maps a part to a MIDI channel, skipping the percussion channel.
func channel(part int) uint8 {
	ch := part % 15
	if ch >= 9 {
		ch++
	}
	return uint8(ch)
}

// sortMessages orders messages by time. At equal times note-offs come first;
// everything else keeps its order.
func sortMessages(msgs []timedMessage) {
	slices.SortStableFunc(msgs, func(a, b timedMessage) int {
		if a.tick != b.tick {
			if a.tick < b.tick {
				return -1
			}
			return +1
		}
		aOff := a.msg.GetNoteEnd(nil, nil)
		bOff := b.msg.GetNoteEnd(nil, nil)
		switch {
		case aOff && !bOff:
			return -1
		case bOff && !aOff:
			return +1
		}
		return 0
	})
}

// toTrack converts absolute times to deltas and closes the track at end.
func toTrack(msgs []timedMessage, end int64) smf.Track {
	sortMessages(msgs)
	var track smf.Track
	var trackTime int64
	for _, m := range msgs {
		track = append(track, smf.Event{
			Delta:   uint32(m.tick - trackTime),
			Message: m.msg,
		})
		trackTime = m.tick
	}
	if end < trackTime {
		end = trackTime
	}
	track.Close(uint32(end - trackTime))
	return track
}

// removeRedundantNoteEvents restarts unisons within a part instead of
// stacking them, and drops the note-offs of notes that were restarted.
func removeRedundantNoteEvents(part int, msgs []timedMessage) []timedMessage {
	tracker := newPartTracker()
	var out []timedMessage
	for _, m := range msgs {
		if tracker.Handle(part, m.msg) {
			out = append(out, m)
			continue
		}
		var ch, note uint8
		if m.msg.GetNoteStart(&ch, &note, nil) {
			out = append(out, timedMessage{m.tick, smf.Message(midi.NoteOff(ch, note))}, m)
		}
	}
	return out
}

// Render renders a score as an SMF type 1 file: a conductor track with title,
// tempo and meters, then one track per part.
func Render(s *score.Score, opts Options) (*smf.SMF, error) {
	if opts.TicksPerQuarter <= 0 || opts.TicksPerQuarter > 0x7fff {
		return nil, fmt.Errorf("invalid MIDI resolution %d", opts.TicksPerQuarter)
	}
	if opts.Tempo <= 0 {
		return nil, fmt.Errorf("invalid tempo %v", opts.Tempo)
	}
	velocity := opts.Velocity
	if velocity == 0 {
		velocity = 64
	}
	res := opts.TicksPerQuarter
	end := s.End().Ticks(res)

	conductor := []timedMessage{
		{0, smf.MetaTempo(opts.Tempo)},
	}
	if s.Title != "" {
		conductor = append([]timedMessage{{0, smf.MetaTrackSequenceName(s.Title)}}, conductor...)
	}
	for _, m := range s.Meters {
		if m.Num <= 0 || m.Num > 255 || m.Denom <= 0 || m.Denom > 255 {
			log.Printf("skipping unrepresentable meter %d/%d at %v", m.Num, m.Denom, m.Offset)
			continue
		}
		conductor = append(conductor, timedMessage{
			m.Offset.Ticks(res),
			smf.MetaTimeSig(uint8(m.Num), uint8(m.Denom), 24, 8),
		})
	}

	out := smf.NewSMF1()
	out.TimeFormat = smf.MetricTicks(res)
	out.Add(toTrack(conductor, end))

	for i, part := range s.Parts {
		ch := channel(i)
		msgs := []timedMessage{
			{0, smf.MetaTrackSequenceName(part.Name)},
		}
		for _, n := range part.Notes {
			on := n.Offset.Ticks(res)
			off := n.End().Ticks(res)
			if off <= on {
				off = on + 1
			}
			msgs = append(msgs,
				timedMessage{on, smf.Message(midi.NoteOn(ch, n.Key, velocity))},
				timedMessage{off, smf.Message(midi.NoteOff(ch, n.Key))})
		}
		sortMessages(msgs)
		msgs = removeRedundantNoteEvents(i, msgs)
		out.Add(toTrack(msgs, end))
	}
	return out, nil
}

// WriteFile renders a score and writes it to path.
func WriteFile(s *score.Score, path string, opts Options) error {
	mid, err := Render(s, opts)
	if err != nil {
		return err
	}
	return writeAtomic(mid, path)
}

// writeAtomic writes to a temporary file next to path and renames it into
// place. path is left untouched if writing fails.
func writeAtomic(w io.WriterTo, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %v: %w", path, err)
	}
	tmp := f.Name()
	_, err = w.WriteTo(f)
	if err == nil {
		err = f.Chmod(0o644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not write %v: %w", path, err)
	}
	return nil
}
