// Package humdrum reads Humdrum files with **kern and **harm spines.
//
// Importing the package registers it as the "humdrum" score parser.
package humdrum

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/divVerent/haydnop20/internal/harmony"
	"github.com/divVerent/haydnop20/internal/score"
)

// Format is the name the parser is registered under.
const Format = "humdrum"

// ErrSyntax is wrapped by all parse errors.
var ErrSyntax = errors.New("humdrum syntax error")

func init() {
	score.Register(Format, score.ParserFunc(Parse))
}

var (
	keyRE   = regexp.MustCompile(`^\*([A-Ga-g][#-]*):$`)
	meterRE = regexp.MustCompile(`^\*M(\d+)/(\d+)$`)
)

type spine struct {
	kind string
	// part is the index of the score part of a kern spine.
	part      int
	key       harmony.Key
	hasKey    bool
	remaining score.Offset
	// ties maps a tied MIDI key to its note index in the part.
	ties map[uint8]int
}

func (sp *spine) clone() *spine {
	c := *sp
	c.ties = make(map[uint8]int, len(sp.ties))
	for k, v := range sp.ties {
		c.ties[k] = v
	}
	return &c
}

type parser struct {
	s            score.Score
	spines       []*spine
	started      bool
	lineNo       int
	now          score.Offset
	annotationAt map[score.Offset]int
}

// Parse reads a Humdrum file. Input that is not valid UTF-8 is read as
// ISO-8859-1.
func Parse(r io.Reader) (*score.Score, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read: %w", err)
	}
	if !utf8.Valid(b) {
		b, err = charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return nil, fmt.Errorf("could not decode as ISO-8859-1: %w", err)
		}
	}
	p := &parser{
		now:          score.Q(0, 1),
		annotationAt: map[score.Offset]int{},
	}
	for i, line := range strings.Split(string(b), "\n") {
		p.lineNo = i + 1
		err := p.line(strings.TrimRight(line, "\r"))
		if err != nil {
			return nil, err
		}
	}
	if !p.started {
		return nil, fmt.Errorf("%w: no exclusive interpretation found", ErrSyntax)
	}
	return &p.s, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", p.lineNo, ErrSyntax, fmt.Sprintf(format, args...))
}

func (p *parser) line(line string) error {
	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, "!!!"):
		p.reference(line[3:])
		return nil
	case strings.HasPrefix(line, "!"):
		return nil
	}
	tokens := strings.Split(line, "\t")
	if !p.started {
		return p.exclusive(tokens)
	}
	if len(p.spines) == 0 {
		return p.errorf("data after all spines ended")
	}
	if len(tokens) != len(p.spines) {
		return p.errorf("got %d tokens, want %d", len(tokens), len(p.spines))
	}
	switch {
	case strings.HasPrefix(tokens[0], "*"):
		return p.interpretation(tokens)
	case strings.HasPrefix(tokens[0], "="):
		return nil
	}
	return p.data(tokens)
}

func (p *parser) reference(rec string) {
	key, value, ok := strings.Cut(rec, ":")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch key {
	case "OTL":
		if p.s.Title == "" {
			p.s.Title = value
		}
	case "COM":
		if p.s.Composer == "" {
			p.s.Composer = value
		}
	}
}

func (p *parser) exclusive(tokens []string) error {
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "**") {
			return p.errorf("expected exclusive interpretation, got %q", tok)
		}
		sp := &spine{
			kind: tok[2:],
			part: -1,
			ties: map[uint8]int{},
		}
		if sp.kind == "kern" {
			sp.part = len(p.s.Parts)
			p.s.Parts = append(p.s.Parts, score.Part{
				Name: fmt.Sprintf("Part %d", sp.part+1),
			})
		}
		p.spines = append(p.spines, sp)
	}
	p.started = true
	return nil
}

func isManipulator(tok string) bool {
	switch tok {
	case "*^", "*v", "*x", "*-", "*+":
		return true
	}
	return false
}

func (p *parser) interpretation(tokens []string) error {
	manip := false
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "*") {
			return p.errorf("mixed interpretation and data tokens")
		}
		if isManipulator(tok) {
			manip = true
		}
	}
	if !manip {
		for i, tok := range tokens {
			err := p.tandem(p.spines[i], tok)
			if err != nil {
				return err
			}
		}
		return nil
	}

	var out []*spine
	for i := 0; i < len(tokens); i++ {
		sp := p.spines[i]
		switch tokens[i] {
		case "*^":
			out = append(out, sp, sp.clone())
		case "*v":
			// Consecutive joins merge into the first spine.
			for i+1 < len(tokens) && tokens[i+1] == "*v" {
				i++
			}
			out = append(out, sp)
		case "*x":
			if i+1 >= len(tokens) || tokens[i+1] != "*x" {
				return p.errorf("unpaired spine exchange")
			}
			out = append(out, p.spines[i+1], sp)
			i++
		case "*-":
		case "*+":
			return p.errorf("spine addition is not supported")
		default:
			err := p.tandem(sp, tokens[i])
			if err != nil {
				return err
			}
			out = append(out, sp)
		}
	}
	p.spines = out
	return nil
}

func (p *parser) tandem(sp *spine, tok string) error {
	if m := keyRE.FindStringSubmatch(tok); m != nil {
		k, err := harmony.ParseKey(m[1])
		if err != nil {
			return p.errorf("%v", err)
		}
		sp.key, sp.hasKey = k, true
		return nil
	}
	if sp.kind != "kern" {
		return nil
	}
	if m := meterRE.FindStringSubmatch(tok); m != nil {
		num, _ := strconv.Atoi(m[1])
		denom, _ := strconv.Atoi(m[2])
		p.addMeter(num, denom)
		return nil
	}
	if name, ok := strings.CutPrefix(tok, `*I"`); ok && name != "" {
		p.s.Parts[sp.part].Name = name
	}
	return nil
}

func (p *parser) addMeter(num, denom int) {
	meters := p.s.Meters
	if n := len(meters); n > 0 {
		last := &meters[n-1]
		if last.Num == num && last.Denom == denom {
			return
		}
		if last.Offset.Cmp(p.now) == 0 {
			last.Num, last.Denom = num, denom
			return
		}
	}
	p.s.Meters = append(meters, score.Meter{Offset: p.now, Num: num, Denom: denom})
}

func (p *parser) data(tokens []string) error {
	for i, tok := range tokens {
		if tok == "." {
			continue
		}
		sp := p.spines[i]
		var err error
		switch sp.kind {
		case "kern":
			err = p.kern(sp, tok)
		case "harm":
			err = p.harm(sp, tok)
		}
		if err != nil {
			return err
		}
	}

	// The line lasts until the first sounding kern spine needs a new token.
	var step score.Offset
	found := false
	for _, sp := range p.spines {
		if sp.kind != "kern" || sp.remaining.Sign() <= 0 {
			continue
		}
		if !found || sp.remaining.Cmp(step) < 0 {
			step, found = sp.remaining, true
		}
	}
	if !found {
		return nil
	}
	p.now = p.now.Add(step)
	for _, sp := range p.spines {
		if sp.kind == "kern" && sp.remaining.Sign() > 0 {
			sp.remaining = sp.remaining.Sub(step)
		}
	}
	return nil
}

func (p *parser) kern(sp *spine, tok string) error {
	part := &p.s.Parts[sp.part]
	var dur score.Offset
	timed := false
	for _, sub := range strings.Fields(tok) {
		if isGrace(sub) {
			continue
		}
		d, ok := parseRecip(sub)
		if !ok {
			return p.errorf("no duration in %q", sub)
		}
		if !timed {
			dur, timed = d, true
		}
		if isRest(sub) {
			continue
		}
		key, err := parseKernPitch(sub)
		if err != nil {
			return p.errorf("%v", err)
		}
		if strings.ContainsAny(sub, "_]") {
			if idx, ok := sp.ties[key]; ok {
				part.Notes[idx].Duration = part.Notes[idx].Duration.Add(d)
				if strings.ContainsRune(sub, ']') {
					delete(sp.ties, key)
				}
				continue
			}
		}
		part.Notes = append(part.Notes, score.Note{
			Offset:   p.now,
			Duration: d,
			Key:      key,
		})
		if strings.ContainsRune(sub, '[') {
			sp.ties[key] = len(part.Notes) - 1
		}
	}
	if timed {
		sp.remaining = dur
	}
	return nil
}

func (p *parser) harm(sp *spine, tok string) error {
	if !sp.hasKey {
		return p.errorf("harmony %q before any key", tok)
	}
	rn, err := harmony.ParseRomanNumeral(tok, sp.key)
	if err != nil {
		return fmt.Errorf("line %d: %w: %w", p.lineNo, ErrSyntax, err)
	}
	a := score.Annotation{Offset: p.now, RomanNumeral: rn}
	if idx, ok := p.annotationAt[p.now]; ok {
		p.s.Annotations[idx] = a
		return nil
	}
	p.annotationAt[p.now] = len(p.s.Annotations)
	p.s.Annotations = append(p.s.Annotations, a)
	return nil
}
