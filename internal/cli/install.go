package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install Formulary from source",
	Long: `Check prerequisites (git, python3, uv), clone the Formulary source
tree, resolve its dependencies, provision a browser engine, and register
the "formulary" and "formulary-browsers" launcher wrappers.

Re-running over an existing installation asks before replacing it; user
data under the install root is preserved either way.`,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx, cancel := operationContext(cmd.Context())
	defer cancel()

	_, err := deps.Lifecycle.Install(ctx)
	return err
}

// operationContext bounds a lifecycle run with the configured process
// timeout when one is set.
func operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if deps.Settings.ProcessTimeout > 0 {
		return context.WithTimeout(parent, deps.Settings.ProcessTimeout)
	}
	return context.WithCancel(parent)
}
