package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kontor/internal/core"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer users",
	}

	var force bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.backend.Users.GetUsers(cmd.Context(), force); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), a.backend.Users.Users())
		},
	}
	list.Flags().BoolVar(&force, "force", false, "Refetch even if cached")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.backend.Users.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), u)
		},
	}

	var email, name, password string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's email, name or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var upd core.UserUpdate
			fs := cmd.Flags()
			if fs.Changed("email") {
				upd.Email = &email
			}
			if fs.Changed("name") {
				upd.Name = &name
			}
			if fs.Changed("password") {
				upd.Password = &password
			}
			u, err := a.backend.Users.UpdateUser(cmd.Context(), id, upd)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), u)
		},
	}
	update.Flags().StringVar(&email, "email", "", "New email")
	update.Flags().StringVar(&name, "name", "", "New display name")
	update.Flags().StringVar(&password, "password", "", "New password")

	cmd.AddCommand(list, get, update, newUserRolesCmd(a))
	return cmd
}

func newUserRolesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Show or replace the roles of a user",
	}

	get := &cobra.Command{
		Use:   "get <user-id>",
		Short: "List the roles of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			roles, err := a.backend.Users.GetUserRoles(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), roles)
		},
	}

	var roleIDs []int64
	set := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Replace the roles of a user; no --role clears them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.backend.Users.SetUserRoles(cmd.Context(), id, roleIDs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d now has %d roles\n", id, len(roleIDs))
			return nil
		},
	}
	set.Flags().Int64SliceVar(&roleIDs, "role", nil, "Role id (repeatable or comma separated)")

	cmd.AddCommand(get, set)
	return cmd
}
