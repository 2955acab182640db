package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divVerent/haydnop20/internal/dataset"
	_ "github.com/divVerent/haydnop20/internal/humdrum"
	"github.com/divVerent/haydnop20/internal/interval"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	b, err := os.ReadFile("testdata/op20n1-01.hrm")
	require.NoError(t, err)
	ds, err := dataset.Open(fstest.MapFS{
		"op20n1-01.hrm":        {Data: b},
		"op20n1/op20n1-02.hrm": {Data: b},
		"broken.hrm":           {Data: []byte("**kern\t**harm\n4c\tI\n")},
	}, "", dataset.DefaultConfig())
	require.NoError(t, err)
	return New(ds, nil)
}

func get(t *testing.T, s *Server, url string, v any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if v != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
	}
	return rec
}

func TestMetadata(t *testing.T) {
	var m Metadata
	rec := get(t, newServer(t), "/", &m)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "haydn_op20", m.Name)
	assert.Equal(t, "1.3", m.Version)
}

func TestTracks(t *testing.T) {
	var tracks []TrackInfo
	rec := get(t, newServer(t), "/tracks", &tracks)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []TrackInfo{
		{ID: "broken", Title: "broken"},
		{ID: "op20n1-01", Title: "op20n1-01"},
		{ID: "op20n1/op20n1-02", Title: "op20n1/op20n1-02"},
	}, tracks)
}

func TestTrack(t *testing.T) {
	var d TrackDetail
	rec := get(t, newServer(t), "/tracks/op20n1/op20n1-02", &d)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "op20n1/op20n1-02", d.ID)
	assert.Equal(t, "op20n1/op20n1-02.hrm", d.AnnotationsPath)
	assert.Equal(t, int64(196), d.Duration)
	assert.Equal(t, 16, d.Notes)
	assert.Equal(t, []string{"Violoncello", "Violino"}, d.Parts)
}

func TestKeys(t *testing.T) {
	s := newServer(t)
	var keys interval.Data
	rec := get(t, s, "/tracks/op20n1-01/keys", &keys)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"C:major", "G:major", "D:major", "G:major"}, keys.Labels)
	assert.Equal(t, "key_mode", keys.LabelUnit)

	var events []dataset.KeyEvent
	rec = get(t, s, "/tracks/op20n1-01/keys?raw=1", &events)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, events, 7)
	assert.Equal(t, dataset.KeyEvent{Time: 0, Key: "C major"}, events[0])
}

func TestChords(t *testing.T) {
	s := newServer(t)
	var chords interval.Data
	rec := get(t, s, "/tracks/op20n1/op20n1-02/chords", &chords)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{0, 28, 56, 84, 140, 168, 196}, chords.StartTimes)
	assert.Equal(t, "open", chords.LabelUnit)

	var events []dataset.ChordEvent
	rec = get(t, s, "/tracks/op20n1-01/chords?raw=true", &events)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, events, 7)

	var e ErrorResponse
	rec = get(t, s, "/tracks/op20n1-01/chords?raw=maybe", &e)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, e.Error, "maybe")
}

func TestRomanNumerals(t *testing.T) {
	var romans []dataset.RomanNumeralEvent
	rec := get(t, newServer(t), "/tracks/op20n1-01/roman_numerals", &romans)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, romans, 7)
	assert.Equal(t, dataset.RomanNumeralEvent{Time: 168, RomanNumeral: "V/V"}, romans[5])
}

func TestErrors(t *testing.T) {
	s := newServer(t)
	var e ErrorResponse
	rec := get(t, s, "/tracks/nope/keys", &e)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, e.Error, "unknown track")

	rec = get(t, s, "/tracks/broken/keys", &e)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, e.Error, "broken.hrm")

	// Archives have nowhere to put rendered files.
	rec = get(t, s, "/tracks/op20n1-01/midi", &e)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMIDI(t *testing.T) {
	b, err := os.ReadFile("testdata/op20n1-01.hrm")
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hrm"), b, 0o666))
	ds, err := dataset.Open(os.DirFS(dir), dir, dataset.DefaultConfig())
	require.NoError(t, err)

	rec := get(t, New(ds, nil), "/tracks/a/midi", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/midi", rec.Header().Get("Content-Type"))
	assert.Equal(t, "MThd", rec.Body.String()[:4])
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tracks", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
