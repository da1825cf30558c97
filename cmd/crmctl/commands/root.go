// cmd/crmctl/commands/root.go
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"luckydraw-crm/internal/app"
	"luckydraw-crm/internal/config"
)

var cfg config.Config

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "crmctl",
		Short:        "Operator tools for the lucky draw CRM gateway",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = app.LoadConfig()
		},
	}
	root.AddCommand(scheduleCmd(), sessionsCmd())
	return root
}

func Execute() error {
	return newRoot().ExecuteContext(context.Background())
}
