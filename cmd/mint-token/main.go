// Package main issues an admin token for the console's write endpoints.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/listenupapp/listenup-console/internal/auth"
	"github.com/listenupapp/listenup-console/internal/config"
)

var (
	subject  string
	dataPath string
	duration time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "mint-token",
	Short: "Issue an admin token",
	Long: `Issue a PASETO admin token signed with the key stored under the data path.

The key is generated on first use, so the server and this command must share
the same data path.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runMint,
}

func init() {
	rootCmd.Flags().StringVar(&subject, "subject", "admin", "Who the token is issued to")
	rootCmd.Flags().StringVar(&dataPath, "data-path", "", "Directory holding the token key")
	rootCmd.Flags().DurationVar(&duration, "duration", 0, "Token lifetime (default: ADMIN_TOKEN_DURATION)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMint(cmd *cobra.Command, _ []string) error {
	var args []string
	if dataPath != "" {
		args = append(args, "-data-path", dataPath)
	}
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	if duration > 0 {
		cfg.Auth.TokenDuration = duration
	}

	key, err := auth.LoadOrGenerateKey(cfg.Store.DataPath)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(key, cfg.Auth.TokenDuration)
	if err != nil {
		return err
	}

	token, expiresAt, err := tokens.Issue(subject)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
