package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kontor/internal/core"
)

// parseConditions reads "field:operator:value" triples. The value may
// itself contain colons.
func parseConditions(raw []string) ([]core.RuleCondition, error) {
	conds := make([]core.RuleCondition, 0, len(raw))
	for _, r := range raw {
		parts := strings.SplitN(r, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid condition %q: want field:operator:value", r)
		}
		conds = append(conds, core.RuleCondition{Field: parts[0], Operator: parts[1], Value: parts[2]})
	}
	return conds, nil
}

func newRulesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rule sets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List rule sets by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.backend.Transactions.GetRuleSets(cmd.Context()); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), a.backend.Transactions.RuleSets())
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rs, err := a.backend.Transactions.GetRuleSet(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), rs)
		},
	}

	var (
		setID    int64
		in       core.RuleSetInput
		rawConds []string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Create a rule set, or update one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conds, err := parseConditions(rawConds)
			if err != nil {
				return err
			}
			in.Conditions = conds

			var target core.RuleTarget = core.NewRule{}
			if cmd.Flags().Changed("id") {
				target = core.ExistingRule{ID: setID}
			}
			rs, err := a.backend.Transactions.SetRules(cmd.Context(), target, in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), rs)
		},
	}
	set.Flags().Int64Var(&setID, "id", 0, "Rule set to update")
	set.Flags().StringVar(&in.Name, "name", "", "Rule set name")
	set.Flags().Int64Var(&in.CategoryID, "category", 0, "Category id to assign")
	set.Flags().StringArrayVar(&rawConds, "cond", nil, "Condition field:operator:value (repeatable)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.backend.Transactions.DeleteRules(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule set %d\n", id)
			return nil
		},
	}

	var (
		previewConds []string
		previewF     filterFlags
	)
	preview := &cobra.Command{
		Use:   "preview",
		Short: "Show which loaded transactions a set of conditions would match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conds, err := parseConditions(previewConds)
			if err != nil {
				return err
			}
			p, err := previewF.params()
			if err != nil {
				return err
			}
			if err := a.backend.Transactions.GetTransactions(cmd.Context(), p); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), a.backend.Transactions.PreviewRuleSet(core.RuleSet{Conditions: conds}))
		},
	}
	preview.Flags().StringArrayVar(&previewConds, "cond", nil, "Condition field:operator:value (repeatable)")
	previewF.register(preview.Flags())

	match := &cobra.Command{
		Use:   "match <transaction-id>",
		Short: "Show the first rule set, by name, that categorizes a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s := a.backend.Transactions
			t, err := s.GetTransaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := s.GetRuleSets(cmd.Context()); err != nil {
				return err
			}
			rs, ok := s.MatchingRuleSet(t).Get()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No rule set matches")
				return nil
			}
			return a.render(cmd.OutOrStdout(), rs)
		},
	}

	cmd.AddCommand(list, get, set, del, preview, match)
	return cmd
}
