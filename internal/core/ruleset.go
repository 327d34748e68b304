package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Condition fields a rule can test.
const (
	FieldText               = "text"
	FieldPayee              = "payee"
	FieldEntryText          = "entryText"
	FieldMandateReference   = "mref"
	FieldCreditorReference  = "cref"
	FieldEndToEndReference  = "eref"
	FieldPayeeAccountNumber = "payeeAccountNumber"
	FieldAmount             = "amount"
)

// Condition operators.
const (
	OpContains    = "contains"
	OpEquals      = "equals"
	OpStartsWith  = "startsWith"
	OpEndsWith    = "endsWith"
	OpRegex       = "regex"
	OpLessThan    = "lt"
	OpGreaterThan = "gt"
)

type (
	// RuleCondition is one test a transaction must pass for its rule set to apply.
	RuleCondition struct {
		Field    string `json:"field" yaml:"field"`
		Operator string `json:"operator" yaml:"operator"`
		Value    string `json:"value" yaml:"value"`
	}

	// RuleSet assigns CategoryID to every transaction matching all Conditions.
	RuleSet struct {
		ID           int64           `json:"id" yaml:"id"`
		Name         string          `json:"name" yaml:"name"`
		Conditions   []RuleCondition `json:"conditions" yaml:"conditions"`
		CategoryID   int64           `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
		CategoryName string          `json:"categoryName,omitempty" yaml:"categoryName,omitempty"`
	}

	// RuleSetInput is what callers send when creating or updating a rule set.
	RuleSetInput struct {
		Name       string
		Conditions []RuleCondition
		CategoryID int64
	}

	// RuleTarget selects between creating a rule set and updating one.
	RuleTarget interface {
		isRuleTarget()
	}

	// NewRule creates a rule set.
	NewRule struct{}

	// ExistingRule updates the rule set with the given ID.
	ExistingRule struct {
		ID int64
	}
)

func (NewRule) isRuleTarget()      {}
func (ExistingRule) isRuleTarget() {}

var numericOps = map[string]bool{OpLessThan: true, OpGreaterThan: true, OpEquals: true}

// Validate checks the input before it is sent anywhere.
func (in RuleSetInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrMissingName
	}
	for i, c := range in.Conditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks field, operator and value compatibility.
func (c RuleCondition) Validate() error {
	switch c.Field {
	case FieldText, FieldPayee, FieldEntryText, FieldMandateReference,
		FieldCreditorReference, FieldEndToEndReference, FieldPayeeAccountNumber:
		switch c.Operator {
		case OpContains, OpEquals, OpStartsWith, OpEndsWith:
		case OpRegex:
			if _, err := regexp.Compile(c.Value); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidCondition, err)
			}
		default:
			return fmt.Errorf("%w: operator %q not allowed on %s", ErrInvalidCondition, c.Operator, c.Field)
		}
	case FieldAmount:
		if !numericOps[c.Operator] {
			return fmt.Errorf("%w: operator %q not allowed on amount", ErrInvalidCondition, c.Operator)
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(c.Value)); err != nil {
			return fmt.Errorf("%w: amount %q", ErrInvalidCondition, c.Value)
		}
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidCondition, c.Field)
	}
	return nil
}

// compileRegexp is swapped in tests to count compilations.
var compileRegexp = regexp.Compile

// compiledCondition is a condition whose value has been parsed once.
type compiledCondition struct {
	RuleCondition
	re     *regexp.Regexp
	amount decimal.Decimal
	bad    bool
}

func (c RuleCondition) compile() compiledCondition {
	cc := compiledCondition{RuleCondition: c}
	switch {
	case c.Field == FieldAmount:
		want, err := decimal.NewFromString(strings.TrimSpace(c.Value))
		cc.amount, cc.bad = want, err != nil
	case c.Operator == OpRegex:
		re, err := compileRegexp(c.Value)
		cc.re, cc.bad = re, err != nil
	}
	return cc
}

// Match reports whether t satisfies the condition. Text comparisons ignore case.
func (c RuleCondition) Match(t Transaction) bool {
	return c.compile().match(t)
}

func (c compiledCondition) match(t Transaction) bool {
	if c.bad {
		return false
	}
	if c.Field == FieldAmount {
		switch c.Operator {
		case OpLessThan:
			return t.Amount.LessThan(c.amount)
		case OpGreaterThan:
			return t.Amount.GreaterThan(c.amount)
		case OpEquals:
			return t.Amount.Equal(c.amount)
		}
		return false
	}

	got := c.fieldValue(t)
	switch c.Operator {
	case OpContains:
		return strings.Contains(strings.ToLower(got), strings.ToLower(c.Value))
	case OpEquals:
		return strings.EqualFold(got, c.Value)
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(got), strings.ToLower(c.Value))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(got), strings.ToLower(c.Value))
	case OpRegex:
		return c.re.MatchString(got)
	}
	return false
}

func (c RuleCondition) fieldValue(t Transaction) string {
	switch c.Field {
	case FieldText:
		return t.Text
	case FieldPayee:
		return t.Payee
	case FieldEntryText:
		return t.EntryText
	case FieldMandateReference:
		return t.MandateReference
	case FieldCreditorReference:
		return t.CreditorReference
	case FieldEndToEndReference:
		return t.EndToEndReference
	case FieldPayeeAccountNumber:
		return t.PayeeAccountNumber
	}
	return ""
}

// Matches reports whether t satisfies every condition. A rule set without
// conditions matches nothing.
func (rs RuleSet) Matches(t Transaction) bool {
	return rs.Matcher()(t)
}

// Matcher compiles the conditions once and returns a predicate equivalent
// to Matches, for testing many transactions against one rule set.
func (rs RuleSet) Matcher() func(Transaction) bool {
	if len(rs.Conditions) == 0 {
		return func(Transaction) bool { return false }
	}
	conds := make([]compiledCondition, len(rs.Conditions))
	for i, c := range rs.Conditions {
		conds[i] = c.compile()
	}
	return func(t Transaction) bool {
		for _, c := range conds {
			if !c.match(t) {
				return false
			}
		}
		return true
	}
}

// MatchRuleSets returns the first rule set, in the given order, matching t.
func MatchRuleSets(ruleSets []RuleSet, t Transaction) Lookup[RuleSet] {
	return Find(ruleSets, func(rs RuleSet) bool { return rs.Matches(t) })
}

// SortRuleSets orders rule sets by name, byte-wise and case-sensitive.
func SortRuleSets(ruleSets []RuleSet) {
	sort.SliceStable(ruleSets, func(i, j int) bool {
		return ruleSets[i].Name < ruleSets[j].Name
	})
}
