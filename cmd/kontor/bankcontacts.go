package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"kontor/internal/core"
)

// bankOutput is how a FinTS answer is shown: either the bank's data or
// the pending challenge.
type bankOutput struct {
	Challenge *core.TANChallenge `json:"challenge,omitempty" yaml:"challenge,omitempty"`
	Data      any                `json:"data,omitempty" yaml:"data,omitempty"`
}

func newBankOutput(r core.BankResult) (bankOutput, error) {
	if c, ok := r.Challenge(); ok {
		return bankOutput{Challenge: &c}, nil
	}
	var out bankOutput
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &out.Data); err != nil {
			return out, fmt.Errorf("decode bank response: %w", err)
		}
	}
	return out, nil
}

func (a *app) renderBank(cmd *cobra.Command, r core.BankResult) error {
	out, err := newBankOutput(r)
	if err != nil {
		return err
	}
	if out.Challenge != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "TAN required; rerun with --tan-ref %s --tan <tan>\n", out.Challenge.TANReference)
	}
	return a.render(cmd.OutOrStdout(), out)
}

func newBankcontactsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bankcontacts",
		Aliases: []string{"bank"},
		Short:   "Manage online-banking contacts",
	}

	var force bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List bank contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.backend.OnlineBanking.GetBankcontacts(cmd.Context(), force); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), a.backend.OnlineBanking.Bankcontacts())
		},
	}
	list.Flags().BoolVar(&force, "force", false, "Refetch even if cached")

	var (
		bc       core.Bankcontact
		password string
	)
	bindContact := func(c *cobra.Command) {
		c.Flags().StringVar(&bc.Name, "name", "", "Display name")
		c.Flags().StringVar(&bc.FintsURL, "url", "", "FinTS server URL")
		c.Flags().StringVar(&bc.FintsBankID, "bank-id", "", "Bank code")
		c.Flags().StringVar(&bc.FintsUserID, "user-id", "", "FinTS login")
		c.Flags().StringVarP(&password, "password", "p", "", "FinTS PIN (default: KONTOR_PASSWORD or stdin)")
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a bank contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			in := bc
			in.FintsPassword = pw
			saved, err := a.backend.OnlineBanking.SaveNewBankcontact(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), saved)
		},
	}
	bindContact(add)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a bank contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in := bc
			if cmd.Flags().Changed("password") {
				in.FintsPassword = password
			}
			saved, err := a.backend.OnlineBanking.UpdateBankcontact(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), saved)
		},
	}
	bindContact(update)

	var tanRef, tan string
	accounts := &cobra.Command{
		Use:   "accounts <id>",
		Short: "Fetch the accounts behind a bank contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var resp *core.TANResponse
			if tanRef != "" {
				resp = &core.TANResponse{TANReference: tanRef, TAN: tan}
			}
			res, err := a.backend.OnlineBanking.GetAccountsOfBankcontact(cmd.Context(), id, resp)
			if err != nil {
				return err
			}
			return a.renderBank(cmd, res)
		},
	}
	accounts.Flags().StringVar(&tanRef, "tan-ref", "", "Reference of the TAN challenge being answered")
	accounts.Flags().StringVar(&tan, "tan", "", "TAN answering the challenge")
	accounts.MarkFlagsRequiredTogether("tan-ref", "tan")

	statements := &cobra.Command{
		Use:   "statements <account-id>",
		Short: "Download new statements for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.backend.OnlineBanking.DownloadStatements(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.renderBank(cmd, res)
		},
	}

	cmd.AddCommand(list, add, update, accounts, statements)
	return cmd
}
