package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vmxio.com/cert-quiz/internal/cms"
	"vmxio.com/cert-quiz/internal/content"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that every track endpoint answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if failed := ping(cmd.Context(), client, cmd.OutOrStdout()); failed > 0 {
			return fmt.Errorf("%d endpoint(s) failed", failed)
		}
		return nil
	},
}

// ping lists one item of each track endpoint and reports its total count.
// It returns the number of endpoints that failed.
func ping(ctx context.Context, client *cms.Client, out io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	failed := 0
	for _, t := range content.Tracks() {
		res, err := client.List(ctx, t.Endpoint, cms.ListQuery{Limit: 1})
		if err != nil {
			fmt.Fprintf(out, "%s: NG %v\n", t.Endpoint, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "%s: OK (%d items)\n", t.Endpoint, res.TotalCount)
	}
	return failed
}
