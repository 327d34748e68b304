package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// readPassword takes the flag value, then KONTOR_PASSWORD, then one line
// from stdin.
func readPassword(in io.Reader, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("KONTOR_PASSWORD"); env != "" {
		return env, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			if err := a.backend.Users.Login(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", a.backend.Session.Email())
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (default: KONTOR_PASSWORD or stdin)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.backend.Users.Logout(cmd.Context())
		},
	}
}

type whoami struct {
	Authenticated bool     `json:"authenticated" yaml:"authenticated"`
	UserID        int64    `json:"userId,omitempty" yaml:"userId,omitempty"`
	Email         string   `json:"email,omitempty" yaml:"email,omitempty"`
	ExpiresAfter  string   `json:"accessTokenExpiredAfter,omitempty" yaml:"accessTokenExpiredAfter,omitempty"`
	Permissions   []string `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session without its tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.backend.Session.State()
			return a.render(cmd.OutOrStdout(), whoami{
				Authenticated: st.Authenticated,
				UserID:        st.UserID,
				Email:         st.Email,
				ExpiresAfter:  st.AccessTokenExpiredAfter,
				Permissions:   st.Permissions,
			})
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create a new user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			if err := a.backend.Users.RegisterUser(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (default: KONTOR_PASSWORD or stdin)")
	return cmd
}
