package render

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// voice is a pitch on a channel within one part.
type voice struct {
	part    int
	ch, key uint8
}

// partTracker follows the pitches sounding in each part. A pitch started
// again while sounding is a unison and needs as many ends as starts.
type partTracker struct {
	starts map[voice]int
	// sounding counts the distinct pitches sounding per part.
	sounding map[int]int
}

func newPartTracker() *partTracker {
	return &partTracker{
		starts:   map[voice]int{},
		sounding: map[int]int{},
	}
}

// Start records a note start and returns false for a unison.
func (t *partTracker) Start(part int, ch, key uint8) bool {
	v := voice{part, ch, key}
	t.starts[v]++
	if t.starts[v] > 1 {
		return false
	}
	t.sounding[part]++
	return true
}

// Stop records a note end and returns whether it silences the pitch. Ends of
// pitches that are not sounding return false.
func (t *partTracker) Stop(part int, ch, key uint8) bool {
	v := voice{part, ch, key}
	switch t.starts[v] {
	case 0:
		return false
	case 1:
		delete(t.starts, v)
		t.sounding[part]--
		return true
	}
	t.starts[v]--
	return false
}

// Handle dispatches note messages to Start and Stop. Other messages return
// true.
func (t *partTracker) Handle(part int, msg smf.Message) bool {
	var ch, key uint8
	switch {
	case msg.GetNoteStart(&ch, &key, nil):
		return t.Start(part, ch, key)
	case msg.GetNoteEnd(&ch, &key):
		return t.Stop(part, ch, key)
	}
	return true
}

// Sounding returns the number of distinct pitches sounding in part.
func (t *partTracker) Sounding(part int) int {
	return t.sounding[part]
}

// Total returns the number of distinct pitches sounding in all parts.
func (t *partTracker) Total() int {
	return len(t.starts)
}
