package cli

import (
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the Formulary installation",
	Long: `Remove the launcher wrappers and the Formulary source tree.

User data (settings, authentication profiles, browser choice, caches)
is inventoried and only deleted after a separate confirmation; it is
deleted completely or kept completely, never partially. Shell startup
files are never edited.`,
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)

	uninstallCmd.Flags().BoolP("yes", "y", false, "Skip all confirmation prompts, including the user-data purge")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	ctx, cancel := operationContext(cmd.Context())
	defer cancel()

	_, err := deps.Lifecycle.Uninstall(ctx, skipConfirm)
	return err
}
