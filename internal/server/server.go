// Package server serves a dataset as a read-only JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/divVerent/haydnop20/internal/dataset"
	"github.com/divVerent/haydnop20/internal/version"
)

// ErrorResponse is the body of all error replies.
type ErrorResponse struct {
	Error string `json:"detail"`
}

// Metadata describes the dataset.
type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Bibtex      string `json:"bibtex"`
	LicenseInfo string `json:"license_info"`
	Server      string `json:"server"`
}

// TrackInfo is an entry of the track list.
type TrackInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TrackDetail describes one track.
type TrackDetail struct {
	TrackInfo
	AnnotationsPath string   `json:"annotations_path"`
	Duration        int64    `json:"duration"`
	Notes           int      `json:"notes"`
	Parts           []string `json:"parts"`
}

// Server is an http.Handler for a dataset.
type Server struct {
	ds      *dataset.Dataset
	handler http.Handler
}

// New returns a server for ds. If allowedOrigins is empty, all origins are
// allowed.
func New(ds *dataset.Dataset, allowedOrigins []string) *Server {
	s := &Server{ds: ds}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/", s.handleMetadata).Methods(http.MethodGet)
	router.HandleFunc("/tracks", s.handleTracks).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id:.+}/keys", s.handleKeys).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id:.+}/chords", s.handleChords).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id:.+}/roman_numerals", s.handleRomanNumerals).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id:.+}/midi", s.handleMIDI).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id:.+}", s.handleTrack).Methods(http.MethodGet)
	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	}
	s.handler = cors.New(opts).Handler(router)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("could not encode response: %v", err)
	}
}

type badRequest struct {
	err error
}

func (b badRequest) Error() string {
	return b.err.Error()
}

func (b badRequest) Unwrap() error {
	return b.err
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var bad badRequest
	switch {
	case errors.Is(err, dataset.ErrUnknownTrack):
		status = http.StatusNotFound
	case errors.As(err, &bad):
		status = http.StatusBadRequest
	}
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) track(r *http.Request) (*dataset.Track, error) {
	return s.ds.Track(mux.Vars(r)["id"])
}

func raw(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("raw")
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest{fmt.Errorf("invalid raw parameter %q", v)}
	}
	return b, nil
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Metadata{
		Name:        dataset.Name,
		Version:     s.ds.Config().Version,
		Bibtex:      dataset.Bibtex,
		LicenseInfo: dataset.LicenseInfo,
		Server:      version.Version(),
	})
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	tracks := []TrackInfo{}
	for _, id := range s.ds.TrackIDs() {
		t, err := s.ds.Track(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		tracks = append(tracks, TrackInfo{ID: t.ID, Title: t.Title})
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	t, err := s.track(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sc, err := t.Score()
	if err != nil {
		writeError(w, r, err)
		return
	}
	dur, err := t.Duration()
	if err != nil {
		writeError(w, r, err)
		return
	}
	d := TrackDetail{
		TrackInfo:       TrackInfo{ID: t.ID, Title: t.Title},
		AnnotationsPath: t.AnnotationsPath,
		Duration:        dur,
		Notes:           sc.NumNotes(),
		Parts:           []string{},
	}
	for _, p := range sc.Parts {
		d.Parts = append(d.Parts, p.Name)
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	t, err := s.track(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	isRaw, err := raw(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var v any
	if isRaw {
		v, err = t.KeyEvents()
	} else {
		v, err = t.Keys()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleChords(w http.ResponseWriter, r *http.Request) {
	t, err := s.track(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	isRaw, err := raw(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var v any
	if isRaw {
		v, err = t.ChordEvents()
	} else {
		v, err = t.Chords()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRomanNumerals(w http.ResponseWriter, r *http.Request) {
	t, err := s.track(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	romans, err := t.RomanNumerals()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, romans)
}

func (s *Server) handleMIDI(w http.ResponseWriter, r *http.Request) {
	t, err := s.track(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := t.MIDIPath()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	http.ServeFile(w, r, p)
}
