package geom

import (
	"strings"
)

// ParseTransform parses an SVG transform list such as
// "translate(10, 5) rotate(45, 50, 50) scale(2)". Functions compose left to
// right, so the rightmost is applied to points first. An empty string is the
// identity.
func ParseTransform(str string) (Matrix2D, error) {
	m := Identity()
	sc := newScanner(str)
	for {
		sc.skip()
		if sc.done() {
			return m, nil
		}

		start := sc.pos
		for !sc.done() && isLetter(sc.peek()) {
			sc.pos++
		}
		name := string(sc.b[start:sc.pos])
		if name == "" {
			return Identity(), syntaxError("transform", sc)
		}

		for !sc.done() && isSpace(sc.peek()) {
			sc.pos++
		}
		if sc.peek() != '(' {
			return Identity(), syntaxError("transform", sc)
		}
		sc.pos++

		var args []float64
		for {
			sc.skip()
			if sc.peek() == ')' {
				sc.pos++
				break
			}
			v, ok := sc.number()
			if !ok {
				return Identity(), syntaxError("transform "+name, sc)
			}
			args = append(args, v)
		}

		t, ok := transformFunc(name, args)
		if !ok {
			return Identity(), syntaxError("transform "+name, sc)
		}
		m = m.Multiply(t)
	}
}

func transformFunc(name string, args []float64) (Matrix2D, bool) {
	switch strings.ToLower(name) {
	case "matrix":
		if len(args) != 6 {
			return Identity(), false
		}
		return Matrix2D{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]}, true
	case "translate":
		switch len(args) {
		case 1:
			return Translate(args[0], 0), true
		case 2:
			return Translate(args[0], args[1]), true
		}
	case "scale":
		switch len(args) {
		case 1:
			return Scale(args[0], args[0]), true
		case 2:
			return Scale(args[0], args[1]), true
		}
	case "rotate":
		switch len(args) {
		case 1:
			return RotateDegrees(args[0]), true
		case 3:
			return RotateAround(args[0], args[1], args[2]), true
		}
	case "skewx":
		if len(args) == 1 {
			return SkewX(args[0]), true
		}
	case "skewy":
		if len(args) == 1 {
			return SkewY(args[0]), true
		}
	}
	return Identity(), false
}

// AppendTransform composes base with one more transform function, the way
// SVG concatenates transform lists.
func AppendTransform(base, fn string) string {
	base, fn = strings.TrimSpace(base), strings.TrimSpace(fn)
	switch {
	case base == "":
		return fn
	case fn == "":
		return base
	}
	return base + " " + fn
}

// TranslateString formats translate(dx, dy).
func TranslateString(dx, dy float64) string {
	return "translate(" + FormatNumber(dx) + ", " + FormatNumber(dy) + ")"
}

// ScaleString formats scale(sx, sy).
func ScaleString(sx, sy float64) string {
	return "scale(" + FormatNumber(sx) + ", " + FormatNumber(sy) + ")"
}

// RotateString formats rotate(angle, cx, cy).
func RotateString(degrees float64, center Point) string {
	return "rotate(" + FormatNumber(degrees) + ", " + FormatNumber(center.X) + ", " + FormatNumber(center.Y) + ")"
}
