package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const tokenFileName = ".crudauth_token"

func newAuthCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Register, log in and inspect the current token"}

	var regPassword string
	register := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordFrom(cmd, regPassword)
			if err != nil {
				return err
			}
			user, err := g.client().Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			return printJSON(cmd, user)
		},
	}
	register.Flags().StringVar(&regPassword, "password", "", "password (prompted when omitted)")
	cmd.AddCommand(register)

	var (
		loginPassword string
		noSave        bool
	)
	login := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in, print the access token and save it for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordFrom(cmd, loginPassword)
			if err != nil {
				return err
			}
			tok, err := g.client().Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if !noSave {
				if err := saveToken(tok); err != nil {
					return fmt.Errorf("saving token: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	login.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")
	login.Flags().BoolVar(&noSave, "no-save", false, "do not write the token to ~/"+tokenFileName)
	cmd.AddCommand(login)

	cmd.AddCommand(&cobra.Command{
		Use:   "profile",
		Short: "Show the claims of the current token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.authedClient()
			if err != nil {
				return err
			}
			p, err := c.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := os.Remove(tokenPath())
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	})

	return cmd
}

// passwordFrom returns flagValue or prompts for one. On a terminal the
// input is not echoed; otherwise (pipes, tests) one line is read.
func passwordFrom(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pass, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		return string(pass), err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func tokenPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, tokenFileName)
}

func saveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0o600)
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
