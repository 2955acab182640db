package score

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// ErrMissingCapability is returned when no parser is registered for a format.
var ErrMissingCapability = errors.New("missing optional capability")

// Parser reads a score in one format.
type Parser interface {
	Parse(r io.Reader) (*Score, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(r io.Reader) (*Score, error)

func (f ParserFunc) Parse(r io.Reader) (*Score, error) {
	return f(r)
}

var (
	parsersMu sync.RWMutex
	parsers   = map[string]Parser{}
)

// Register makes a parser available for format. Registering a format twice
// panics.
func Register(format string, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	if p == nil {
		panic("score: Register parser is nil")
	}
	if _, dup := parsers[format]; dup {
		panic("score: Register called twice for format " + format)
	}
	parsers[format] = p
}

// Formats returns the registered formats, sorted.
func Formats() []string {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	var list []string
	for f := range parsers {
		list = append(list, f)
	}
	sort.Strings(list)
	return list
}

// Parse parses r with the parser registered for format.
func Parse(format string, r io.Reader) (*Score, error) {
	parsersMu.RLock()
	p, ok := parsers[format]
	parsersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no %s score parser linked in", ErrMissingCapability, format)
	}
	return p.Parse(r)
}
