package cli

import (
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update Formulary to the latest revision",
	Long: `Fetch the latest revision of the Formulary source tree and advance
the installation to it, then re-resolve dependencies.

Uncommitted local modifications are stashed with a timestamped label
before anything destructive happens. When the installation is already
current the command is a no-op.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := operationContext(cmd.Context())
	defer cancel()

	_, err := deps.Lifecycle.Update(ctx)
	return err
}
