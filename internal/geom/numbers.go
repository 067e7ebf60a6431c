package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// ErrSyntax is returned for malformed number lists, path data and transform lists.
var ErrSyntax = errors.New("geom: syntax error")

// scanner walks SVG attribute micro-syntax: numbers separated by
// whitespace and/or commas, with command letters in between.
type scanner struct {
	b   []byte
	pos int
}

func newScanner(s string) *scanner {
	return &scanner{b: []byte(s)}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// skip consumes whitespace and at most one comma.
func (s *scanner) skip() {
	for s.pos < len(s.b) && isSpace(s.b[s.pos]) {
		s.pos++
	}
	if s.pos < len(s.b) && s.b[s.pos] == ',' {
		s.pos++
		for s.pos < len(s.b) && isSpace(s.b[s.pos]) {
			s.pos++
		}
	}
}

func (s *scanner) done() bool {
	return s.pos >= len(s.b)
}

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.b[s.pos]
}

// number reads one float; the bool is false when no number starts here.
func (s *scanner) number() (float64, bool) {
	s.skip()
	if s.done() {
		return 0, false
	}
	f, n := pstrconv.ParseFloat(s.b[s.pos:])
	if n == 0 {
		return 0, false
	}
	s.pos += n
	return f, true
}

// flag reads an arc flag, which may be packed without separators ("a1 1 0 11 5 5").
func (s *scanner) flag() (bool, bool) {
	s.skip()
	switch s.peek() {
	case '0':
		s.pos++
		return false, true
	case '1':
		s.pos++
		return true, true
	}
	return false, false
}

// startsNumber reports whether the next token is a number.
func (s *scanner) startsNumber() bool {
	s.skip()
	c := s.peek()
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// ParseNumbers parses a whitespace/comma separated list of numbers.
func ParseNumbers(str string) ([]float64, error) {
	sc := newScanner(str)
	var out []float64
	for {
		sc.skip()
		if sc.done() {
			return out, nil
		}
		v, ok := sc.number()
		if !ok {
			return nil, syntaxError("number list", sc)
		}
		out = append(out, v)
	}
}

// ParsePoints parses an SVG points attribute ("x1,y1 x2,y2 ...").
// A trailing odd coordinate is an error.
func ParsePoints(str string) ([]Point, error) {
	nums, err := ParseNumbers(str)
	if err != nil {
		return nil, err
	}
	if len(nums)%2 != 0 {
		return nil, syntaxError("points", &scanner{b: []byte(str), pos: len(str)})
	}
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		pts = append(pts, Point{nums[i], nums[i+1]})
	}
	return pts, nil
}

// FormatNumber renders v for SVG attributes, trimmed to six decimals.
func FormatNumber(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPoints renders points as an SVG points attribute.
func FormatPoints(pts []Point) string {
	b := make([]byte, 0, len(pts)*8)
	for i, p := range pts {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, FormatNumber(p.X)...)
		b = append(b, ',')
		b = append(b, FormatNumber(p.Y)...)
	}
	return string(b)
}

func syntaxError(what string, sc *scanner) error {
	return fmt.Errorf("%s at offset %d: %w", what, sc.pos, ErrSyntax)
}
