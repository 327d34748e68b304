// Package numparse converts locale-formatted numeric text to float64.
//
// Separators and numeral glyphs are not hard-coded per locale: they are
// derived by formatting reference numbers with golang.org/x/text and
// inspecting the result.
package numparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// groupingReference has a grouped integer part and one fraction digit.
	groupingReference = 12345.6
	// numeralReference contains each digit exactly once, 9 down to 0.
	numeralReference = 9876543210
)

// Parser parses numbers written in one locale.
type Parser struct {
	group   string
	decimal string
	digits  map[rune]rune
}

// New derives grouping separator, decimal separator and numeral glyphs for
// locale (a BCP 47 tag such as "de-DE").
func New(locale string) (*Parser, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	p := message.NewPrinter(tag)

	numerals := []rune(p.Sprintf("%v", number.Decimal(numeralReference, number.NoSeparator())))
	if len(numerals) != 10 {
		return nil, fmt.Errorf("locale %q: unexpected numeral reference %q", locale, string(numerals))
	}
	reverse(numerals)

	formatted := p.Sprintf("%v", number.Decimal(groupingReference, number.MaxFractionDigits(1)))
	group, decimal := separators(formatted, numerals)
	if decimal == "" {
		return nil, fmt.Errorf("locale %q: no decimal separator in %q", locale, formatted)
	}
	return newParser(group, decimal, numerals), nil
}

// MustNew is New for locales known to be valid; it panics otherwise.
func MustNew(locale string) *Parser {
	p, err := New(locale)
	if err != nil {
		panic(err)
	}
	return p
}

func newParser(group, decimal string, numerals []rune) *Parser {
	digits := make(map[rune]rune, len(numerals))
	for i, r := range numerals {
		digits[r] = rune('0' + i)
	}
	return &Parser{group: group, decimal: decimal, digits: digits}
}

// Group returns the grouping separator ("" when the locale does not group).
func (p *Parser) Group() string { return p.group }

// Decimal returns the decimal separator.
func (p *Parser) Decimal() string { return p.decimal }

// Parse converts value to a float64. nil yields NaN, numbers pass through
// unchanged, strings go through ParseString. Other types yield NaN.
func (p *Parser) Parse(value any) float64 {
	switch v := value.(type) {
	case nil:
		return math.NaN()
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		return p.ParseString(v)
	case fmt.Stringer:
		return p.ParseString(v.String())
	}
	return math.NaN()
}

// ParseString strips grouping, normalizes the decimal separator and numeral
// glyphs, and parses the longest numeric prefix. Malformed input yields NaN.
func (p *Parser) ParseString(s string) float64 {
	s = strings.TrimSpace(s)
	if p.group != "" {
		s = strings.ReplaceAll(s, p.group, "")
	}
	s = strings.Replace(s, p.decimal, ".", 1)
	s = strings.Map(func(r rune) rune {
		if d, ok := p.digits[r]; ok {
			return d
		}
		return r
	}, s)
	return parseFloatPrefix(s)
}

// separators splits the formatted reference into runs of non-numeral text.
// The last run between digits is the decimal separator, an earlier one the
// grouping separator.
func separators(formatted string, numerals []rune) (group, decimal string) {
	isNumeral := make(map[rune]bool, len(numerals))
	for _, r := range numerals {
		isNumeral[r] = true
	}

	var runs []string
	var current strings.Builder
	seenDigit := false
	for _, r := range formatted {
		if isNumeral[r] {
			if seenDigit && current.Len() > 0 {
				runs = append(runs, current.String())
			}
			current.Reset()
			seenDigit = true
			continue
		}
		if seenDigit {
			current.WriteRune(r)
		}
	}

	switch len(runs) {
	case 0:
		return "", ""
	case 1:
		return "", runs[0]
	default:
		return runs[0], runs[len(runs)-1]
	}
}

// parseFloatPrefix mimics a lenient "parse float": leading whitespace is
// skipped and parsing stops at the first character that cannot continue a
// decimal literal.
func parseFloatPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			end = j
		}
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		// Out-of-range exponents still carry a usable ±Inf or 0.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func reverse(r []rune) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
