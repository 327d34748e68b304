package numparse

import (
	"math"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func TestNewDerivesSeparators(t *testing.T) {
	cases := []struct {
		locale, group, decimal string
	}{
		{"en-US", ",", "."},
		{"de-DE", ".", ","},
	}
	for _, tc := range cases {
		t.Run(tc.locale, func(t *testing.T) {
			p, err := New(tc.locale)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if p.Group() != tc.group || p.Decimal() != tc.decimal {
				t.Fatalf("got group %q decimal %q", p.Group(), p.Decimal())
			}
		})
	}
}

func TestNewRejectsBadLocale(t *testing.T) {
	if _, err := New("not a locale!"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParse(t *testing.T) {
	p, err := New("de-DE")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"grouped with decimals", "1.234,56", 1234.56},
		{"surrounding space", "  12,5 ", 12.5},
		{"negative", "-3,25", -3.25},
		{"prefix parse stops at garbage", "12,5 EUR", 12.5},
		{"already a number", 42, 42},
		{"float passthrough", 3.5, 3.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Parse(tc.in); got != tc.want {
				t.Fatalf("Parse(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseNaN(t *testing.T) {
	p, err := New("en-US")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, in := range []any{nil, "", "abc", "-", ".", struct{}{}} {
		if got := p.Parse(in); !math.IsNaN(got) {
			t.Fatalf("Parse(%#v) = %v, want NaN", in, got)
		}
	}
	if got := p.Parse(math.NaN()); !math.IsNaN(got) {
		t.Fatalf("NaN input should stay NaN")
	}
}

func TestParseRoundTrip(t *testing.T) {
	values := []float64{0, 1, 12.5, 1234.5, 987654.25, -4321.125, 0.375}
	for _, locale := range []string{"en-US", "de-DE", "en-GB", "de-CH"} {
		p, err := New(locale)
		if err != nil {
			t.Fatalf("New(%s): %v", locale, err)
		}
		printer := message.NewPrinter(language.MustParse(locale))
		for _, x := range values {
			formatted := printer.Sprintf("%v", number.Decimal(x))
			got := p.ParseString(formatted)
			if math.Abs(got-x) > 1e-9 {
				t.Errorf("%s: parse(%q) = %v, want %v", locale, formatted, got, x)
			}
		}
	}
}

func TestParseLocaleNumerals(t *testing.T) {
	// Arabic-Indic digits with Arabic separators.
	numerals := []rune("٠١٢٣٤٥٦٧٨٩")
	p := newParser("٬", "٫", numerals)
	if got := p.ParseString("١٬٢٣٤٫٥"); got != 1234.5 {
		t.Fatalf("got %v, want 1234.5", got)
	}
}

func TestParseFloatPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"3.14abc", 3.14},
		{"1e3", 1000},
		{"1e", 1},
		{"2.5e-1x", 0.25},
		{".5", 0.5},
		{"5.", 5},
		{"+7", 7},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
	}
	for _, tc := range cases {
		if got := parseFloatPrefix(tc.in); got != tc.want {
			t.Fatalf("parseFloatPrefix(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
