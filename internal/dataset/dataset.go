// Package dataset gives access to the harmonic analyses of Haydn's string
// quartets op. 20.
//
// Scores are parsed through the score parser registry. Programs must
// blank-import the humdrum package to be able to read tracks.
package dataset

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/remeh/sizedwaitgroup"
)

// ErrUnknownTrack is returned for track IDs not in the index.
var ErrUnknownTrack = errors.New("unknown track")

// Dataset is an opened data home.
type Dataset struct {
	fsys fs.FS
	// dir is the OS directory of fsys, or "" if it is not a plain directory.
	dir    string
	cfg    Config
	index  *Index
	ids    []string
	tracks map[string]*Track
}

// Open opens a data home. dir is the directory fsys was created from, if
// any; it is where rendered MIDI files go unless cfg.MIDIDir is set.
func Open(fsys fs.FS, dir string, cfg Config) (*Dataset, error) {
	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("invalid resolution %d", cfg.Resolution)
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	idx, err := LoadIndex(fsys, cfg.Version)
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		fsys:   fsys,
		dir:    dir,
		cfg:    cfg,
		index:  idx,
		ids:    idx.IDs(),
		tracks: make(map[string]*Track, len(idx.Tracks)),
	}
	for id, e := range idx.Tracks {
		p := e.Path()
		d.tracks[id] = &Track{
			ID:              id,
			Title:           strings.TrimSuffix(p, path.Ext(p)),
			AnnotationsPath: p,
			ds:              d,
		}
	}
	log.Printf("opened %s version %s with %d tracks", Name, cfg.Version, len(d.ids))
	return d, nil
}

// Config returns the configuration the dataset was opened with.
func (d *Dataset) Config() Config {
	return d.cfg
}

// TrackIDs returns all track IDs in order.
func (d *Dataset) TrackIDs() []string {
	return append([]string(nil), d.ids...)
}

// Track returns the track with the given ID.
func (d *Dataset) Track(id string) (*Track, error) {
	t, found := d.tracks[id]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, id)
	}
	return t, nil
}

// Preload parses all tracks concurrently. It returns the errors of all
// tracks that failed.
func (d *Dataset) Preload(ctx context.Context) error {
	wg := sizedwaitgroup.New(d.cfg.workers())
	var mu sync.Mutex
	var errs []error
	for _, id := range d.ids {
		err := ctx.Err()
		if err == nil {
			err = wg.AddWithContext(ctx)
		}
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		t := d.tracks[id]
		go func() {
			defer wg.Done()
			_, err := t.Score()
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("track %s: %w", t.ID, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Validation lists the tracks whose files are missing or do not match the
// index checksum.
type Validation struct {
	Missing []string
	Invalid []string
}

// OK returns whether no problems were found.
func (v Validation) OK() bool {
	return len(v.Missing) == 0 && len(v.Invalid) == 0
}

// Validate checks all files of the data home against the index.
func (d *Dataset) Validate() (Validation, error) {
	var v Validation
	for _, id := range d.ids {
		e := d.index.Tracks[id]
		f, err := d.fsys.Open(e.Path())
		if errors.Is(err, fs.ErrNotExist) {
			v.Missing = append(v.Missing, id)
			continue
		}
		if err != nil {
			return Validation{}, fmt.Errorf("could not open %v: %w", e.Path(), err)
		}
		h := md5.New()
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return Validation{}, fmt.Errorf("could not read %v: %w", e.Path(), err)
		}
		if want := e.Checksum(); want != "" && fmt.Sprintf("%x", h.Sum(nil)) != want {
			log.Printf("track %s: checksum mismatch on %v", id, e.Path())
			v.Invalid = append(v.Invalid, id)
		}
	}
	return v, nil
}
