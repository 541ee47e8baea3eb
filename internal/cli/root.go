// Package cli implements the quizcms operator commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vmxio.com/cert-quiz/internal/cms"
	"vmxio.com/cert-quiz/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "quizcms",
	Short:        "Manage the question bank stored in microCMS",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotenv()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(convertCmd)
}

// newClient builds a CMS client from MICROCMS_SERVICE_DOMAIN and
// MICROCMS_API_KEY.
func newClient() (*cms.Client, error) {
	creds := config.LoadCMS()
	if !creds.Valid() {
		return nil, fmt.Errorf("%w: set MICROCMS_SERVICE_DOMAIN (subdomain only) and MICROCMS_API_KEY in .env.local or .env",
			config.ErrMissingCMSCredentials)
	}
	return cms.New(creds.ServiceDomain, creds.APIKey)
}
