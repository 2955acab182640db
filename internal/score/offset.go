package score

import (
	"fmt"
)

// Offset is an exact position or length in quarter notes.
type Offset struct {
	Num int64
	Den int64
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Q returns the offset num/den quarter notes.
func Q(num, den int64) Offset {
	if den == 0 {
		panic("score.Q: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(num, den)
	if g == 0 {
		return Offset{0, 1}
	}
	return Offset{num / g, den / g}
}

func (o Offset) norm() Offset {
	if o.Den == 0 {
		return Offset{0, 1}
	}
	return o
}

// Add returns o + p.
func (o Offset) Add(p Offset) Offset {
	o, p = o.norm(), p.norm()
	return Q(o.Num*p.Den+p.Num*o.Den, o.Den*p.Den)
}

// Sub returns o - p.
func (o Offset) Sub(p Offset) Offset {
	p = p.norm()
	return o.Add(Offset{-p.Num, p.Den})
}

// Mul returns o * num/den.
func (o Offset) Mul(num, den int64) Offset {
	o = o.norm()
	return Q(o.Num*num, o.Den*den)
}

// Cmp returns -1, 0 or +1.
func (o Offset) Cmp(p Offset) int {
	o, p = o.norm(), p.norm()
	a, b := o.Num*p.Den, p.Num*o.Den
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	}
	return 0
}

// Sign returns -1, 0 or +1.
func (o Offset) Sign() int {
	return o.Cmp(Offset{0, 1})
}

// Float64 returns the offset in quarter notes.
func (o Offset) Float64() float64 {
	o = o.norm()
	return float64(o.Num) / float64(o.Den)
}

// Ticks converts to ticks at the given resolution (ticks per quarter note).
// Halves round to even.
func (o Offset) Ticks(resolution int) int64 {
	o = o.norm()
	n := o.Num * int64(resolution)
	q, r := n/o.Den, n%o.Den
	if r < 0 {
		q, r = q-1, r+o.Den
	}
	switch {
	case 2*r > o.Den:
		q++
	case 2*r == o.Den && q%2 != 0:
		q++
	}
	return q
}

func (o Offset) String() string {
	o = o.norm()
	if o.Den == 1 {
		return fmt.Sprint(o.Num)
	}
	return fmt.Sprintf("%d/%d", o.Num, o.Den)
}
