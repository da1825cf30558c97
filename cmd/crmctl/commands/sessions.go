// cmd/crmctl/commands/sessions.go
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"luckydraw-crm/internal/app"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage gateway sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DBConn == "" {
				return fmt.Errorf("DATABASE_URL not set, in-memory sessions die with the process")
			}
			svc, err := app.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := svc.Sessions.PruneExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired sessions\n", n)
			return nil
		},
	})
	return cmd
}
