package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookslot/bookslot/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth [authorization-code]",
		Short: "Authorize Google Calendar access",
		Long: `Authorize bookslot to access Google Calendar for an account.

Run without arguments to print the authorization URL. Visit the URL, grant
access, then run the command again with the authorization code to save the
token:

  bookslot auth
  bookslot auth --account work 4/0AeaY...

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the environment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				authURL := google.GetAuthURLForAccount(account)
				fmt.Fprintf(cmd.OutOrStdout(), `To authorize Google Calendar access for account "%s":

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google Calendar
4. Copy the authorization code

5. Run: bookslot auth --account %s <authorization-code>
`, account, authURL, account)
				return nil
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, args[0]); err != nil {
				return fmt.Errorf("failed to save authorization code for account %s: %w", account, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Authorization successful for account %q. Token saved.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to authorize (default: 'default')")

	return cmd
}
