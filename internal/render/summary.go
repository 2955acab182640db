package render

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// PartSummary describes the notes of one part track.
type PartSummary struct {
	Name  string
	Notes int
	// Lowest and Highest are MIDI keys; both are 0 if the part has no notes.
	Lowest, Highest uint8
	// MaxSounding is the most distinct pitches sounding at once.
	MaxSounding int
}

// Summary describes a rendered file.
type Summary struct {
	Tracks     int
	TrackNames []string
	Notes      int
	// Parts has one entry per track after the conductor track.
	Parts []PartSummary
	// EndTick is the time of the last end-of-track event.
	EndTick int64
	// Unbalanced counts notes still sounding at the end.
	Unbalanced int
	Tempo      float64
}

// Summarize walks a file written by Render and counts what each part plays.
func Summarize(mid *smf.SMF) (Summary, error) {
	sum := Summary{
		Tracks:     len(mid.Tracks),
		TrackNames: make([]string, len(mid.Tracks)),
	}
	for i, t := range mid.Tracks {
		var tick int64
		for _, ev := range t {
			tick += int64(ev.Delta)
		}
		if tick > sum.EndTick {
			sum.EndTick = tick
		}
		for _, ev := range t {
			if ev.Message.GetMetaTrackName(&sum.TrackNames[i]) {
				break
			}
		}
	}
	if len(mid.Tracks) > 1 {
		sum.Parts = make([]PartSummary, len(mid.Tracks)-1)
		for i := range sum.Parts {
			sum.Parts[i].Name = sum.TrackNames[i+1]
		}
	}

	tracker := newPartTracker()
	err := ForEachEventWithTime(mid, func(tick int64, track int, msg smf.Message) error {
		var bpm float64
		if sum.Tempo == 0 && msg.GetMetaTempo(&bpm) {
			sum.Tempo = bpm
		}
		var ch, key uint8
		if !msg.GetNoteStart(&ch, &key, nil) {
			tracker.Handle(track, msg)
			return nil
		}
		sum.Notes++
		tracker.Start(track, ch, key)
		if track == 0 {
			return nil
		}
		p := &sum.Parts[track-1]
		if p.Notes == 0 || key < p.Lowest {
			p.Lowest = key
		}
		if p.Notes == 0 || key > p.Highest {
			p.Highest = key
		}
		p.Notes++
		p.MaxSounding = max(p.MaxSounding, tracker.Sounding(track))
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	sum.Unbalanced = tracker.Total()
	return sum, nil
}
