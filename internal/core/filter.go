package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LocaleNumber is a user-entered number: either already numeric or text
// formatted in the user's locale. The zero value is unset.
type LocaleNumber struct {
	raw any
}

// NumberText wraps locale-formatted text. Blank text stays unset.
func NumberText(s string) LocaleNumber {
	if strings.TrimSpace(s) == "" {
		return LocaleNumber{}
	}
	return LocaleNumber{raw: s}
}

// NumberValue wraps an already parsed number.
func NumberValue(f float64) LocaleNumber {
	return LocaleNumber{raw: f}
}

// IsSet reports whether a value was given.
func (n LocaleNumber) IsSet() bool {
	return n.raw != nil
}

// Raw returns the wrapped string or float64, or nil when unset.
func (n LocaleNumber) Raw() any {
	return n.raw
}

// FilterParams is the allow-listed set of transaction search parameters.
type FilterParams struct {
	MaxItems        int
	SearchTerm      string
	AccountsWhereIn []int64
	DateFilterFrom  Date
	DateFilterTo    Date
	TextToken       string
	MRefToken       string
	AmountMin       LocaleNumber
	AmountMax       LocaleNumber
}

// Filter parameter keys as sent to the backend.
const (
	ParamMaxItems        = "maxItems"
	ParamSearchTerm      = "searchTerm"
	ParamAccountsWhereIn = "accountsWhereIn"
	ParamDateFilterFrom  = "dateFilterFrom"
	ParamDateFilterTo    = "dateFilterTo"
	ParamTextToken       = "textToken"
	ParamMRefToken       = "mRefToken"
	ParamAmountMin       = "amountMin"
	ParamAmountMax       = "amountMax"
)

// FilterParamsFromMap projects a loose parameter bag onto FilterParams.
// Keys outside the allow-list, and values of the wrong shape, are dropped.
func FilterParamsFromMap(m map[string]any) FilterParams {
	var p FilterParams
	for key, v := range m {
		if v == nil {
			continue
		}
		switch key {
		case ParamMaxItems:
			if n, ok := toInt(v); ok && n > 0 {
				p.MaxItems = n
			}
		case ParamSearchTerm:
			p.SearchTerm = toString(v)
		case ParamTextToken:
			p.TextToken = toString(v)
		case ParamMRefToken:
			p.MRefToken = toString(v)
		case ParamAccountsWhereIn:
			p.AccountsWhereIn = toIDs(v)
		case ParamDateFilterFrom:
			p.DateFilterFrom = toDate(v)
		case ParamDateFilterTo:
			p.DateFilterTo = toDate(v)
		case ParamAmountMin:
			p.AmountMin = toLocaleNumber(v)
		case ParamAmountMax:
			p.AmountMax = toLocaleNumber(v)
		}
	}
	return p
}

// JoinIDs renders ids as the comma-separated list the backend expects.
func JoinIDs(ids []int64) string {
	return FormatTagIDs(ids)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func toIDs(v any) []int64 {
	switch ids := v.(type) {
	case string:
		return ParseTagIDs(ids)
	case []int64:
		return dedupeIDs(ids)
	case []int:
		out := make([]int64, 0, len(ids))
		for _, id := range ids {
			out = append(out, int64(id))
		}
		return dedupeIDs(out)
	case []string:
		return ParseTagIDs(strings.Join(ids, ","))
	case []any:
		out := make([]int64, 0, len(ids))
		for _, raw := range ids {
			if n, ok := toInt(raw); ok {
				out = append(out, int64(n))
			}
		}
		return dedupeIDs(out)
	}
	return nil
}

func toDate(v any) Date {
	switch d := v.(type) {
	case Date:
		return d
	case time.Time:
		return NewDate(d.Year(), int(d.Month()), d.Day())
	case string:
		parsed, err := ParseDate(d)
		if err != nil {
			return Date{}
		}
		return parsed
	}
	return Date{}
}

func toLocaleNumber(v any) LocaleNumber {
	switch n := v.(type) {
	case LocaleNumber:
		return n
	case string:
		return NumberText(n)
	case float64:
		return NumberValue(n)
	case int:
		return NumberValue(float64(n))
	case int64:
		return NumberValue(float64(n))
	}
	return LocaleNumber{}
}
