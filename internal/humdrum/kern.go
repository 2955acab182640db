package humdrum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/divVerent/haydnop20/internal/harmony"
	"github.com/divVerent/haydnop20/internal/score"
)

var recipRE = regexp.MustCompile(`(\d+)(?:%(\d+))?(\.*)`)

// parseRecip returns the duration encoded in a kern token.
func parseRecip(tok string) (score.Offset, bool) {
	m := recipRE.FindStringSubmatch(tok)
	if m == nil {
		return score.Offset{}, false
	}
	var d score.Offset
	if strings.Trim(m[1], "0") == "" {
		// 0 is a breve, 00 a long, and so on.
		d = score.Q(8<<(len(m[1])-1), 1)
	} else {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return score.Offset{}, false
		}
		d = score.Q(4, n)
	}
	if m[2] != "" {
		num, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || num == 0 {
			return score.Offset{}, false
		}
		d = d.Mul(num, 1)
	}
	// Each dot adds half of the previous value.
	dots := int64(len(m[3]))
	if dots > 0 {
		d = d.Mul(1<<(dots+1)-1, 1<<dots)
	}
	return d, true
}

// parseKernPitch returns the MIDI note number of a kern token.
func parseKernPitch(tok string) (uint8, error) {
	start := strings.IndexAny(tok, "abcdefgABCDEFG")
	if start < 0 {
		return 0, fmt.Errorf("no pitch in %q", tok)
	}
	letter := tok[start]
	end := start + 1
	for end < len(tok) && tok[end] == letter {
		end++
	}
	count := end - start
	var octave int
	if letter >= 'a' {
		octave = 4 + (count - 1)
	} else {
		octave = 3 - (count - 1)
	}
	name := string(letter)
accidentals:
	for ; end < len(tok); end++ {
		switch tok[end] {
		case '#', '-':
			name += string(tok[end])
		case 'n':
		default:
			break accidentals
		}
	}
	p, err := harmony.ParsePitch(name)
	if err != nil {
		return 0, err
	}
	key := p.MIDI(octave)
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("pitch %q out of MIDI range", tok)
	}
	return uint8(key), nil
}

func isGrace(tok string) bool {
	return strings.ContainsAny(tok, "qQ")
}

func isRest(tok string) bool {
	return strings.ContainsRune(tok, 'r')
}
