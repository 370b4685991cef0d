package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/tidecart/internal/apiclient"

	"github.com/spf13/cobra"
)

type loginResult struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (s *shopperCLI) loginCmd() *cobra.Command {
	var email, password string
	var register bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in (or register with --register) and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			ctx, cancel := s.context(cmd)
			defer cancel()

			endpoint := "/auth/login"
			if register {
				endpoint = "/auth/register"
			}
			result, err := apiclient.FetchJSON[loginResult](ctx, s.client, endpoint, apiclient.RequestOptions{
				Method: http.MethodPost,
				Body:   map[string]string{"email": email, "password": password},
			})
			if err != nil {
				return explain(err)
			}
			if err := os.WriteFile(s.tokenFile, []byte(result.Token+"\n"), 0o600); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (token saved to %s)\n", result.User.Email, s.tokenFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&register, "register", false, "create the account first")
	return cmd
}
