package dataset

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"slices"
	"strconv"
	"strings"
)

// Index lists the tracks of a data home.
type Index struct {
	Version string                `json:"version"`
	Tracks  map[string]IndexEntry `json:"tracks"`
}

// IndexEntry holds the file of one track as [path, md5].
type IndexEntry struct {
	Annotations []string `json:"annotations"`
}

// Path returns the slash-separated path of the annotated score.
func (e IndexEntry) Path() string {
	if len(e.Annotations) == 0 {
		return ""
	}
	return e.Annotations[0]
}

// Checksum returns the expected MD5 sum, or "" if unknown.
func (e IndexEntry) Checksum() string {
	if len(e.Annotations) < 2 {
		return ""
	}
	return e.Annotations[1]
}

// ReadIndex decodes a JSON index.
func ReadIndex(r io.Reader) (*Index, error) {
	var idx Index
	err := json.NewDecoder(r).Decode(&idx)
	if err != nil {
		return nil, fmt.Errorf("could not decode index: %w", err)
	}
	for id, e := range idx.Tracks {
		if e.Path() == "" {
			return nil, fmt.Errorf("index entry %q has no annotations", id)
		}
	}
	return &idx, nil
}

// ScanIndex builds an index from all .hrm files below the root of fsys.
// Track IDs are the paths without extension.
func ScanIndex(fsys fs.FS) (*Index, error) {
	idx := &Index{Tracks: map[string]IndexEntry{}}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".hrm" {
			return nil
		}
		idx.Tracks[strings.TrimSuffix(p, ".hrm")] = IndexEntry{Annotations: []string{p, ""}}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not scan data home: %w", err)
	}
	return idx, nil
}

// LoadIndex reads the index file of the given version from fsys. If there is
// none, the data home is scanned instead.
func LoadIndex(fsys fs.FS, version string) (*Index, error) {
	name := IndexFile(version)
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no %v in data home, scanning for scores", name)
		idx, err := ScanIndex(fsys)
		if err != nil {
			return nil, err
		}
		idx.Version = version
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", name, err)
	}
	defer f.Close()
	idx, err := ReadIndex(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	return idx, nil
}

// IDs returns the track IDs, numeric IDs in numeric order first.
func (idx *Index) IDs() []string {
	ids := make([]string, 0, len(idx.Tracks))
	for id := range idx.Tracks {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}

func compareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return +1
	}
	return strings.Compare(a, b)
}
