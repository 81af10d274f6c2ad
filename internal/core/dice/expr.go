package dice

import (
	"math/rand"
	"strconv"
	"strings"
)

// Expr is a parsed dice expression such as "2d8+2".
type Expr struct {
	Count int
	Sides int
	Flat  int
}

// ParseExpr parses expressions of the form "NdM", "NdM+K", "NdM-K", or a bare
// integer.
//
// Parsing is deliberately forgiving: a bare integer degrades to a flat value,
// and anything unparseable degrades to zero. Damage resolution must never
// fail mid-combat because of a typo in an adversary stat block, so ParseExpr
// has no error return.
func ParseExpr(input string) Expr {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input), " ", ""))
	if s == "" {
		return Expr{}
	}

	dIdx := strings.IndexByte(s, 'd')
	if dIdx < 0 {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return Expr{}
		}
		return Expr{Flat: flat}
	}

	count := 1
	if dIdx > 0 {
		n, err := strconv.Atoi(s[:dIdx])
		if err != nil || n <= 0 {
			return Expr{}
		}
		count = n
	}

	rest := s[dIdx+1:]
	flat := 0
	if cut := strings.IndexAny(rest, "+-"); cut >= 0 {
		k, err := strconv.Atoi(rest[cut:])
		if err != nil {
			return Expr{}
		}
		flat = k
		rest = rest[:cut]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil || sides <= 0 {
		return Expr{}
	}

	return Expr{Count: count, Sides: sides, Flat: flat}
}

// Roll evaluates the expression against the provided random source.
// A zero-valued expression rolls nothing and returns the flat value.
func (e Expr) Roll(rng *rand.Rand) int {
	if e.Count <= 0 || e.Sides <= 0 {
		return e.Flat
	}
	result, err := RollWithRng(rng, []Spec{{Sides: e.Sides, Count: e.Count}})
	if err != nil {
		return e.Flat
	}
	return result.Total + e.Flat
}

// RollSeeded evaluates the expression with a fresh source for the given seed.
func (e Expr) RollSeeded(seed int64) int {
	return e.Roll(rand.New(rand.NewSource(seed)))
}

// String renders the expression in canonical "NdM+K" form.
func (e Expr) String() string {
	if e.Count <= 0 || e.Sides <= 0 {
		return strconv.Itoa(e.Flat)
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(e.Count))
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(e.Sides))
	if e.Flat > 0 {
		b.WriteByte('+')
		b.WriteString(strconv.Itoa(e.Flat))
	} else if e.Flat < 0 {
		b.WriteString(strconv.Itoa(e.Flat))
	}
	return b.String()
}
