package render

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/haydnop20/internal/score"
)

func testScore() *score.Score {
	return &score.Score{
		Title: "Test",
		Parts: []score.Part{
			{
				Name: "A",
				Notes: []score.Note{
					{Offset: score.Q(0, 1), Duration: score.Q(1, 1), Key: 60},
					{Offset: score.Q(1, 1), Duration: score.Q(1, 1), Key: 64},
				},
			},
			{
				Name: "B",
				Notes: []score.Note{
					{Offset: score.Q(0, 1), Duration: score.Q(2, 1), Key: 67},
					{Offset: score.Q(1, 1), Duration: score.Q(2, 1), Key: 67},
				},
			},
		},
		Meters: []score.Meter{
			{Offset: score.Q(0, 1), Num: 3, Denom: 4},
			{Offset: score.Q(2, 1), Num: 2, Denom: 4},
		},
	}
}

func renderAndReadBack(t *testing.T) *smf.SMF {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.midi")
	err := WriteFile(testScore(), path, Options{TicksPerQuarter: 480, Tempo: 90})
	require.NoError(t, err)
	mid, err := smf.ReadFile(path)
	require.NoError(t, err)
	return mid
}

func TestRenderSummary(t *testing.T) {
	mid := renderAndReadBack(t)
	assert.Equal(t, smf.MetricTicks(480), mid.TimeFormat)

	sum, err := Summarize(mid)
	require.NoError(t, err)
	assert := assert.New(t)
	assert.Equal(3, sum.Tracks)
	assert.Equal([]string{"Test", "A", "B"}, sum.TrackNames)
	// Restarting the unison in B adds a note-off, not a note start.
	assert.Equal(4, sum.Notes)
	assert.Equal([]PartSummary{
		{Name: "A", Notes: 2, Lowest: 60, Highest: 64, MaxSounding: 1},
		{Name: "B", Notes: 2, Lowest: 67, Highest: 67, MaxSounding: 1},
	}, sum.Parts)
	assert.Equal(int64(1440), sum.EndTick)
	assert.Equal(0, sum.Unbalanced)
	assert.InDelta(90, sum.Tempo, 0.01)
}

func TestRenderMeters(t *testing.T) {
	mid := renderAndReadBack(t)
	type sig struct {
		tick       int64
		num, denom uint8
	}
	var sigs []sig
	err := ForEachEventWithTime(mid, func(tick int64, track int, msg smf.Message) error {
		var num, denom, cpt, dsqpq uint8
		if msg.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq) {
			assert.Equal(t, 0, track)
			sigs = append(sigs, sig{tick, num, denom})
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []sig{{0, 3, 4}, {960, 2, 4}}, sigs)
}

func TestRenderRestartsUnisons(t *testing.T) {
	mid := renderAndReadBack(t)
	type note struct {
		tick int64
		on   bool
		ch   uint8
	}
	var got []note
	err := ForEachEventWithTime(mid, func(tick int64, track int, msg smf.Message) error {
		if track != 2 {
			return nil
		}
		var ch, key uint8
		switch {
		case msg.GetNoteStart(&ch, &key, nil):
			got = append(got, note{tick, true, ch})
		case msg.GetNoteEnd(&ch, &key):
			got = append(got, note{tick, false, ch})
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []note{
		{0, true, 1},
		{480, false, 1},
		{480, true, 1},
		{1440, false, 1},
	}, got)
}

func TestForEachEventWithTimeStop(t *testing.T) {
	mid := renderAndReadBack(t)
	n := 0
	err := ForEachEventWithTime(mid, func(tick int64, track int, msg smf.Message) error {
		n++
		if n == 3 {
			return StopIteration
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRenderInvalidOptions(t *testing.T) {
	_, err := Render(testScore(), Options{TicksPerQuarter: 0, Tempo: 120})
	assert.Error(t, err)
	_, err = Render(testScore(), Options{TicksPerQuarter: 480})
	assert.Error(t, err)
}

func TestChannel(t *testing.T) {
	assert.Equal(t, uint8(0), channel(0))
	assert.Equal(t, uint8(8), channel(8))
	assert.Equal(t, uint8(10), channel(9))
	assert.Equal(t, uint8(15), channel(14))
	assert.Equal(t, uint8(0), channel(15))
}

func TestPartTracker(t *testing.T) {
	on := smf.Message([]byte{0x90, 60, 100})
	off := smf.Message([]byte{0x80, 60, 0})

	assert := assert.New(t)
	tr := newPartTracker()
	assert.True(tr.Handle(1, on))
	assert.False(tr.Handle(1, on))
	assert.True(tr.Handle(2, on))
	assert.Equal(1, tr.Sounding(1))
	assert.Equal(1, tr.Sounding(2))
	assert.Equal(2, tr.Total())

	assert.False(tr.Handle(1, off))
	assert.Equal(1, tr.Sounding(1))
	assert.True(tr.Handle(1, off))
	assert.Equal(0, tr.Sounding(1))
	assert.False(tr.Handle(1, off))
	assert.Equal(1, tr.Total())

	assert.True(tr.Start(2, 0, 64))
	assert.Equal(2, tr.Sounding(2))
	assert.True(tr.Handle(2, smf.MetaTempo(120)))
}

func TestSummarizeSoundingPitches(t *testing.T) {
	s := &score.Score{
		Parts: []score.Part{{
			Name: "Violino",
			Notes: []score.Note{
				{Offset: score.Q(0, 1), Duration: score.Q(2, 1), Key: 59},
				{Offset: score.Q(1, 1), Duration: score.Q(1, 1), Key: 62},
				{Offset: score.Q(2, 1), Duration: score.Q(1, 1), Key: 67},
			},
		}},
	}
	mid, err := Render(s, DefaultOptions())
	require.NoError(t, err)
	sum, err := Summarize(mid)
	require.NoError(t, err)
	assert.Equal(t, []PartSummary{
		{Name: "Violino", Notes: 3, Lowest: 59, Highest: 67, MaxSounding: 2},
	}, sum.Parts)
	assert.Equal(t, 0, sum.Unbalanced)
}

type failingWriter struct{}

func (failingWriter) WriteTo(w io.Writer) (int64, error) {
	n, _ := w.Write([]byte("MThd"))
	return int64(n), errors.New("disk full")
}

func TestWriteFileKeepsPathOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.midi")

	err := writeAtomic(failingWriter{}, path)
	assert.ErrorContains(t, err, "disk full")
	assert.NoFileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte("old"), 0o666))
	err = writeAtomic(failingWriter{}, path)
	assert.Error(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, WriteFile(testScore(), path, DefaultOptions()))
	_, err = smf.ReadFile(path)
	assert.NoError(t, err)
}
