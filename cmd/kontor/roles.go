package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRolesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Administer roles and permission profiles",
	}

	var force bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.backend.Users.GetRoles(cmd.Context(), force); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), a.backend.Users.Roles())
		},
	}
	list.Flags().BoolVar(&force, "force", false, "Refetch even if cached")

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.backend.Users.CreateRole(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), r)
		},
	}

	update := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := a.backend.Users.UpdateRole(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), r)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.backend.Users.DeleteRole(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted role %d\n", id)
			return nil
		},
	}

	perms := &cobra.Command{
		Use:   "permissions <id>",
		Short: "List the permissions granted by a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.backend.Users.GetRolePermissions(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), p)
		},
	}

	profiles := &cobra.Command{
		Use:   "profiles [role-id]",
		Short: "List permission profiles, or those attached to one role",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := a.backend.Users.GetPermissionProfiles(cmd.Context(), force); err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), a.backend.Users.PermissionProfiles())
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.backend.Users.GetRolePermissionProfiles(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), p)
		},
	}
	profiles.Flags().BoolVar(&force, "force", false, "Refetch even if cached")

	cmd.AddCommand(list, create, update, del, perms, profiles)
	return cmd
}
