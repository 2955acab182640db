// Package file reads config files and opens data homes.
package file

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"filippo.io/age"
)

// ErrPassphraseRequired is returned when an encrypted data home is opened
// without a passphrase.
var ErrPassphraseRequired = errors.New("passphrase required")

// DataHome is an opened data home.
type DataHome struct {
	FS fs.FS
	// Dir is the OS directory of FS, or "" if the data home is an archive.
	Dir    string
	closer io.Closer
}

// Close releases the data home.
func (h *DataHome) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

// OpenDataHome opens a directory, a .zip archive or an age-encrypted
// .zip.age archive. passphrase is only called for encrypted archives and may
// be nil.
func OpenDataHome(path string, passphrase func() (string, error)) (*DataHome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not open data home: %w", err)
	}
	switch {
	case info.IsDir():
		return &DataHome{FS: os.DirFS(path), Dir: path}, nil
	case strings.HasSuffix(path, ".age"):
		return openEncrypted(path, passphrase)
	case strings.HasSuffix(path, ".zip"):
		r, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("could not open %v: %w", path, err)
		}
		return &DataHome{FS: r, closer: r}, nil
	}
	return nil, fmt.Errorf("data home %v is neither a directory nor a .zip or .zip.age file", path)
}

func openEncrypted(path string, passphrase func() (string, error)) (*DataHome, error) {
	if passphrase == nil {
		return nil, fmt.Errorf("%w to open %v", ErrPassphraseRequired, path)
	}
	pw, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("could not get passphrase: %w", err)
	}
	if pw == "" {
		return nil, fmt.Errorf("%w to open %v", ErrPassphraseRequired, path)
	}
	id, err := age.NewScryptIdentity(pw)
	if err != nil {
		return nil, fmt.Errorf("could not build scrypt identity: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", path, err)
	}
	defer f.Close()
	plaintextReader, err := age.Decrypt(f, id)
	if err != nil {
		return nil, fmt.Errorf("could not start decrypting %v: %w", path, err)
	}
	plaintext, err := io.ReadAll(plaintextReader)
	if err != nil {
		return nil, fmt.Errorf("could not finish decrypting %v: %w", path, err)
	}
	r, err := zip.NewReader(bytes.NewReader(plaintext), int64(len(plaintext)))
	if err != nil {
		return nil, fmt.Errorf("could not open decrypted %v: %w", path, err)
	}
	log.Printf("decrypted %v", path)
	return &DataHome{FS: r}, nil
}

// ReadPassphraseFile returns the first line of a passphrase file.
func ReadPassphraseFile(name string) (string, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("could not read passphrase file: %w", err)
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimRight(line, "\r"), nil
}
