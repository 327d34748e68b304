package main

import (
	"github.com/spf13/cobra"

	"kontor/internal/core"
)

func newAccountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List and edit accounts",
	}

	var force bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.backend.Accounts.GetAccounts(cmd.Context(), force); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), a.backend.Accounts.Accounts())
		},
	}
	list.Flags().BoolVar(&force, "force", false, "Refetch even if cached")

	var (
		name              string
		typeID, contactID int64
	)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an account or change its type or bank contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var u core.AccountUpdate
			fs := cmd.Flags()
			if fs.Changed("name") {
				u.Name = &name
			}
			if fs.Changed("type") {
				u.AccountTypeID = &typeID
			}
			if fs.Changed("bankcontact") {
				u.BankcontactID = &contactID
			}
			acc, err := a.backend.Accounts.UpdateAccount(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), acc)
		},
	}
	update.Flags().StringVar(&name, "name", "", "Account name")
	update.Flags().Int64Var(&typeID, "type", 0, "Account type id")
	update.Flags().Int64Var(&contactID, "bankcontact", 0, "Bank contact id")

	cmd.AddCommand(list, update)
	return cmd
}

func newMasterDataCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "masterdata",
		Short: "Show reference data",
	}
	cmd.PersistentFlags().BoolVar(&force, "force", false, "Refetch even if cached")

	type entry struct {
		use   string
		short string
		run   func(cmd *cobra.Command) (any, error)
	}
	entries := []entry{
		{"currencies", "List currencies", func(cmd *cobra.Command) (any, error) {
			err := a.backend.MasterData.GetCurrencies(cmd.Context(), force)
			return a.backend.MasterData.Currencies(), err
		}},
		{"timespans", "List timespans", func(cmd *cobra.Command) (any, error) {
			err := a.backend.MasterData.GetTimespans(cmd.Context(), force)
			return a.backend.MasterData.Timespans(), err
		}},
		{"categories", "List categories", func(cmd *cobra.Command) (any, error) {
			err := a.backend.MasterData.GetCategories(cmd.Context(), force)
			return a.backend.MasterData.Categories(), err
		}},
		{"tags", "List tags", func(cmd *cobra.Command) (any, error) {
			err := a.backend.MasterData.GetTags(cmd.Context(), force)
			return a.backend.MasterData.Tags(), err
		}},
		{"accounttypes", "List account types", func(cmd *cobra.Command) (any, error) {
			err := a.backend.MasterData.GetAccountTypes(cmd.Context(), force)
			return a.backend.MasterData.AccountTypes(), err
		}},
	}
	for _, e := range entries {
		e := e
		cmd.AddCommand(&cobra.Command{
			Use:   e.use,
			Short: e.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				v, err := e.run(cmd)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), v)
			},
		})
	}
	return cmd
}
