// Package cmd holds the cobra command tree for the crudauth CLI.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sakif/crudauth/internal/client"
)

// TokenEnv names the environment variable consulted when --token is unset.
const TokenEnv = "CRUDAUTH_TOKEN"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	serverURL string
	token     string
}

// client builds an API client; the token is attached when one is known.
func (g *globals) client() *client.Client {
	c := client.New(g.serverURL)
	if tok := g.resolveToken(); tok != "" {
		c = c.WithToken(tok)
	}
	return c
}

// authedClient is client() but fails fast when no token is available.
func (g *globals) authedClient() (*client.Client, error) {
	tok := g.resolveToken()
	if tok == "" {
		return nil, fmt.Errorf("no access token: run `crudauth auth login` or set %s", TokenEnv)
	}
	return client.New(g.serverURL).WithToken(tok), nil
}

// resolveToken: --token, then $CRUDAUTH_TOKEN, then the file saved by login.
func (g *globals) resolveToken() string {
	if g.token != "" {
		return g.token
	}
	if tok := os.Getenv(TokenEnv); tok != "" {
		return tok
	}
	tok, _ := loadToken()
	return tok
}

func NewRootCmd(version string) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "crudauth",
		Short:         "Command-line client for the crudauth API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.serverURL, "server", "http://localhost:8080", "Server base URL")
	root.PersistentFlags().StringVar(&g.token, "token", "", "Bearer token (default $"+TokenEnv+" or the saved login)")

	root.AddCommand(newItemsCmd(g))
	root.AddCommand(newAuthCmd(g))
	root.AddCommand(newBooksCmd(g))
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseItemID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer number, got %q", s)
	}
	return id, nil
}
