package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"kontor/internal/core"
	"kontor/internal/numparse"
	"kontor/internal/stores"
)

// filterFlags are the search parameters shared by list, search and export.
type filterFlags struct {
	maxItems  int
	search    string
	accounts  []int64
	from, to  string
	text      string
	mref      string
	amountMin string
	amountMax string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.maxItems, "max", 0, "Maximum number of transactions the backend returns")
	fs.StringVar(&f.search, "search", "", "Free-text search term")
	fs.Int64SliceVar(&f.accounts, "accounts", nil, "Only these account ids")
	fs.StringVar(&f.from, "from", "", "Booking date from (YYYY-MM-DD)")
	fs.StringVar(&f.to, "to", "", "Booking date to (YYYY-MM-DD)")
	fs.StringVar(&f.text, "text", "", "Text token")
	fs.StringVar(&f.mref, "mref", "", "Mandate reference token")
	fs.StringVar(&f.amountMin, "amount-min", "", "Minimum amount, in the configured locale")
	fs.StringVar(&f.amountMax, "amount-max", "", "Maximum amount, in the configured locale")
}

func (f *filterFlags) params() (core.FilterParams, error) {
	p := core.FilterParams{
		MaxItems:        f.maxItems,
		SearchTerm:      f.search,
		AccountsWhereIn: f.accounts,
		TextToken:       f.text,
		MRefToken:       f.mref,
		AmountMin:       core.NumberText(f.amountMin),
		AmountMax:       core.NumberText(f.amountMax),
	}
	var err error
	if f.from != "" {
		if p.DateFilterFrom, err = core.ParseDate(f.from); err != nil {
			return p, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if p.DateFilterTo, err = core.ParseDate(f.to); err != nil {
			return p, fmt.Errorf("--to: %w", err)
		}
	}
	return p, nil
}

// parseAmount reads an amount formatted in the configured locale.
func parseAmount(p *numparse.Parser, s string) (decimal.Decimal, error) {
	f := p.ParseString(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("invalid amount %q", strings.TrimSpace(s))
	}
	return decimal.NewFromFloat(f), nil
}

func newTransactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List, search and edit transactions",
	}
	cmd.AddCommand(
		newTxListCmd(a),
		newTxSearchCmd(a),
		newTxGetCmd(a),
		newTxAddCmd(a),
		newTxUpdateCmd(a),
		newTxDeleteCmd(a),
	)
	return cmd
}

func newTxListCmd(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Load the transaction list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := f.params()
			if err != nil {
				return err
			}
			s := a.backend.Transactions
			if err := s.GetTransactions(cmd.Context(), p); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), stores.MatchResult{
				Incomplete:   s.Incomplete(),
				Transactions: s.Transactions(),
			})
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newTxSearchCmd(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search transactions without replacing the loaded list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := f.params()
			if err != nil {
				return err
			}
			res, err := a.backend.Transactions.GetMatchingTransactions(cmd.Context(), p)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), res)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newTxGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.backend.Transactions.GetTransaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), t)
		},
	}
}

func newTxAddCmd(a *app) *cobra.Command {
	var (
		in                   core.TransactionInput
		amount               string
		bookingDate, valDate string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a manual transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Amount, err = parseAmount(a.parser, amount); err != nil {
				return err
			}
			if bookingDate != "" {
				if in.BookingDate, err = core.ParseDate(bookingDate); err != nil {
					return fmt.Errorf("--booking-date: %w", err)
				}
			}
			if valDate != "" {
				if in.ValueDate, err = core.ParseDate(valDate); err != nil {
					return fmt.Errorf("--value-date: %w", err)
				}
			}
			t, err := a.backend.Transactions.AddTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), t)
		},
	}
	fs := cmd.Flags()
	fs.Int64Var(&in.AccountID, "account", 0, "Account id")
	fs.StringVar(&in.Text, "text", "", "Booking text")
	fs.StringVar(&in.Payee, "payee", "", "Payee")
	fs.StringVar(&in.PayeeAccountNumber, "payee-account", "", "Payee account number")
	fs.StringVar(&amount, "amount", "", "Amount, negative for debits")
	fs.StringVar(&bookingDate, "booking-date", "", "Booking date (YYYY-MM-DD)")
	fs.StringVar(&valDate, "value-date", "", "Value date (YYYY-MM-DD)")
	fs.StringVar(&in.Notes, "notes", "", "Notes")
	fs.Int64Var(&in.CategoryID, "category", 0, "Category id")
	fs.Int64Var(&in.CurrencyID, "currency", 0, "Currency id")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTxUpdateCmd(a *app) *cobra.Command {
	var (
		notes, payee, text string
		category           int64
		unseen             bool
		tags               []int64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			var u core.TransactionUpdate
			if fs.Changed("notes") {
				u.Notes = &notes
			}
			if fs.Changed("payee") {
				u.Payee = &payee
			}
			if fs.Changed("text") {
				u.Text = &text
			}
			if fs.Changed("category") {
				u.CategoryID = &category
			}
			if fs.Changed("unseen") {
				u.Unseen = &unseen
			}
			if fs.Changed("tags") {
				u.TagIDs = &tags
			}
			t, err := a.backend.Transactions.UpdateTransaction(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), t)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&notes, "notes", "", "Notes")
	fs.StringVar(&payee, "payee", "", "Payee")
	fs.StringVar(&text, "text", "", "Booking text")
	fs.Int64Var(&category, "category", 0, "Category id")
	fs.BoolVar(&unseen, "unseen", false, "Mark as unseen")
	fs.Int64SliceVar(&tags, "tags", nil, "Tag ids (replaces the current tags)")
	return cmd
}

func newTxDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.backend.Transactions.DeleteTransaction(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		},
	}
}
