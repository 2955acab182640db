package harmony

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBadFigure is returned for figures ParseRomanNumeral does not understand.
var ErrBadFigure = errors.New("invalid roman numeral figure")

// Quality is the quality of a chord's triad.
type Quality int

const (
	Major Quality = iota
	Minor
	Diminished
	HalfDiminished
	Augmented
)

type special int

const (
	notSpecial special = iota
	neapolitan
	italian
	french
	german
	cadential
)

var specials = []struct {
	prefix string
	kind   special
}{
	// Longest prefixes first.
	{"Cad", cadential},
	{"Ger", german},
	{"Gn", german},
	{"It", italian},
	{"Lt", italian},
	{"Fr", french},
	{"N", neapolitan},
}

var numeralRE = regexp.MustCompile(`^(VII|VI|V|IV|III|II|I|vii|vi|v|iv|iii|ii|i)`)

var numeralDegree = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6, "vii": 7,
}

// component is one slash-separated part of a figure.
type component struct {
	alter     int
	prefixed  bool
	kind      special
	numeral   string
	degree    int
	upper     bool
	quality   Quality
	figure    string
	inversion int
	seventh   bool
}

func parseComponent(s string) (*component, error) {
	c := &component{}
	rest := s
prefix:
	for rest != "" {
		switch rest[0] {
		case '-', 'b':
			c.alter--
		case '#':
			c.alter++
		default:
			break prefix
		}
		c.prefixed = true
		rest = rest[1:]
	}

	for _, sp := range specials {
		if strings.HasPrefix(rest, sp.prefix) {
			c.kind = sp.kind
			c.numeral = sp.prefix
			rest = rest[len(sp.prefix):]
			break
		}
	}

	if c.kind == notSpecial {
		m := numeralRE.FindString(rest)
		if m == "" {
			return nil, fmt.Errorf("%w: no numeral in %q", ErrBadFigure, s)
		}
		c.numeral = m
		c.degree = numeralDegree[strings.ToLower(m)]
		c.upper = m[0] == 'I' || m[0] == 'V'
		rest = rest[len(m):]
		if c.upper {
			c.quality = Major
		} else {
			c.quality = Minor
		}
		switch {
		case strings.HasPrefix(rest, "o"):
			c.quality = Diminished
			rest = rest[1:]
		case strings.HasPrefix(rest, "%"):
			c.quality = HalfDiminished
			c.seventh = true
			rest = rest[1:]
		case strings.HasPrefix(rest, "ø"):
			c.quality = HalfDiminished
			c.seventh = true
			rest = rest[len("ø"):]
		case strings.HasPrefix(rest, "+"):
			c.quality = Augmented
			rest = rest[1:]
		}
	}

	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	c.figure, rest = rest[:i], rest[i:]
	switch c.figure {
	case "", "5", "53":
	case "6", "63":
		c.inversion = 1
	case "64":
		c.inversion = 2
	case "7":
		c.seventh = true
	case "65":
		c.seventh = true
		c.inversion = 1
	case "43":
		c.seventh = true
		c.inversion = 2
	case "42", "2":
		c.seventh = true
		c.inversion = 3
	default:
		return nil, fmt.Errorf("%w: unsupported figures %q in %q", ErrBadFigure, c.figure, s)
	}

	if rest != "" {
		switch rest {
		case "a":
			c.inversion = 0
		case "b":
			c.inversion = 1
		case "c":
			c.inversion = 2
		case "d":
			if !c.seventh {
				return nil, fmt.Errorf("%w: third inversion of a triad in %q", ErrBadFigure, s)
			}
			c.inversion = 3
		default:
			return nil, fmt.Errorf("%w: trailing %q in %q", ErrBadFigure, rest, s)
		}
	}

	switch c.kind {
	case neapolitan:
		c.quality = Major
		if c.figure == "" && rest == "" {
			c.inversion = 1
		}
	case cadential:
		c.inversion = 2
	case italian, french, german:
		c.inversion = 0
		c.seventh = false
	}
	return c, nil
}

// root finds the root of the component within key.
func (c *component) root(key Key) Pitch {
	switch c.kind {
	case neapolitan:
		p := key.majorDegree(2)
		p.Alter += c.alter - 1
		return p
	case italian, french, german:
		p := key.majorDegree(6)
		p.Alter += c.alter - 1
		return p
	case cadential:
		return key.Tonic
	}
	if c.prefixed {
		p := key.majorDegree(c.degree)
		p.Alter += c.alter
		return p
	}
	p := key.Degree(c.degree)
	if key.Minor && (c.degree == 6 || c.degree == 7) && !c.upper {
		// Lowercase sixth and seventh degrees use the melodic minor form.
		p.Alter++
	}
	return p
}

// tonicize returns the key the component establishes within key.
func (c *component) tonicize(key Key) (Key, error) {
	switch c.kind {
	case notSpecial, neapolitan:
	default:
		return Key{}, fmt.Errorf("%w: cannot tonicize %q", ErrBadFigure, c.numeral)
	}
	q := c.quality
	return Key{
		Tonic: c.root(key),
		Minor: q == Minor || q == Diminished || q == HalfDiminished,
	}, nil
}

// canonical renders the component in figured-bass notation.
func (c *component) canonical() string {
	var b strings.Builder
	for i := 0; i > c.alter; i-- {
		b.WriteByte('b')
	}
	for i := 0; i < c.alter; i++ {
		b.WriteByte('#')
	}
	b.WriteString(c.numeral)
	switch c.kind {
	case italian:
		b.WriteString("6")
		return b.String()
	case french:
		b.WriteString("43")
		return b.String()
	case german:
		b.WriteString("65")
		return b.String()
	case cadential:
		b.WriteString("64")
		return b.String()
	}
	switch c.quality {
	case Diminished:
		b.WriteString("o")
	case HalfDiminished:
		b.WriteString("ø")
	case Augmented:
		b.WriteString("+")
	}
	if c.seventh {
		b.WriteString([]string{"7", "65", "43", "42"}[c.inversion])
	} else {
		b.WriteString([]string{"", "6", "64"}[c.inversion])
	}
	return b.String()
}

// RomanNumeral is a roman numeral figure resolved in a key.
type RomanNumeral struct {
	// Figure is the canonical figure, e.g. "V65/V".
	Figure string
	// Key is the key the figure was read in.
	Key Key
	// Secondary is the tonicized key, if the figure has one.
	Secondary *Key
	Root      Pitch
	Quality   Quality
	Inversion int
	Seventh   bool

	commonName string
}

// ParseRomanNumeral resolves figure in key.
func ParseRomanNumeral(figure string, key Key) (*RomanNumeral, error) {
	figure = strings.TrimSpace(figure)
	if figure == "" {
		return nil, fmt.Errorf("%w: empty figure", ErrBadFigure)
	}
	parts := strings.Split(figure, "/")
	comps := make([]*component, len(parts))
	for i, p := range parts {
		c, err := parseComponent(p)
		if err != nil {
			return nil, err
		}
		comps[i] = c
	}

	local := key
	for i := len(comps) - 1; i >= 1; i-- {
		var err error
		local, err = comps[i].tonicize(local)
		if err != nil {
			return nil, fmt.Errorf("in %q: %w", figure, err)
		}
	}

	c := comps[0]
	if c.kind == cadential && local.Minor {
		c.quality = Minor
	}
	canon := make([]string, len(comps))
	for i, comp := range comps {
		canon[i] = comp.canonical()
	}
	rn := &RomanNumeral{
		Figure:    strings.Join(canon, "/"),
		Key:       key,
		Root:      c.root(local),
		Quality:   c.quality,
		Inversion: c.inversion,
		Seventh:   c.seventh,
	}
	if len(comps) > 1 {
		rn.Secondary = &local
	}
	rn.commonName = commonName(c, local, rn.Root)
	return rn, nil
}

// LocalKey returns the tonicized key, or the key if there is none.
func (rn *RomanNumeral) LocalKey() Key {
	if rn.Secondary != nil {
		return *rn.Secondary
	}
	return rn.Key
}

// CommonName returns the chord type, e.g. "dominant seventh chord".
func (rn *RomanNumeral) CommonName() string {
	return rn.commonName
}

// PitchedCommonName returns the root name joined to the chord type, e.g.
// "G-dominant seventh chord".
func (rn *RomanNumeral) PitchedCommonName() string {
	return rn.Root.Name() + "-" + rn.commonName
}

func (rn *RomanNumeral) String() string {
	return rn.Figure
}
