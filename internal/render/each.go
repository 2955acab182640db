package render

import (
	"cmp"
	"errors"
	"slices"

	"gitlab.com/gomidi/midi/v2/smf"
)

// StopIteration can be returned from a callback to stop without failure.
var StopIteration = errors.New("render: StopIteration")

// trackEvent is a message of a track at its absolute tick.
type trackEvent struct {
	tick  int64
	track int
	msg   smf.Message
}

// mergeTracks returns the messages of all tracks, without end-of-track
// events, ordered by tick. At equal ticks note-offs come first, then lower
// tracks, then the order within the track.
func mergeTracks(mid *smf.SMF) []trackEvent {
	var all []trackEvent
	for i, t := range mid.Tracks {
		var tick int64
		for _, ev := range t {
			tick += int64(ev.Delta)
			if ev.Message.Is(smf.MetaEndOfTrackMsg) {
				continue
			}
			all = append(all, trackEvent{tick, i, ev.Message})
		}
	}
	slices.SortStableFunc(all, func(a, b trackEvent) int {
		if c := cmp.Compare(a.tick, b.tick); c != 0 {
			return c
		}
		aOff := a.msg.GetNoteEnd(nil, nil)
		bOff := b.msg.GetNoteEnd(nil, nil)
		switch {
		case aOff && !bOff:
			return -1
		case bOff && !aOff:
			return +1
		}
		return cmp.Compare(a.track, b.track)
	})
	return all
}

// ForEachEventWithTime calls yield for each message of all tracks in the
// order of mergeTracks, with its absolute tick.
func ForEachEventWithTime(mid *smf.SMF, yield func(tick int64, track int, msg smf.Message) error) error {
	for _, ev := range mergeTracks(mid) {
		err := yield(ev.tick, ev.track, ev.msg)
		if errors.Is(err, StopIteration) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
