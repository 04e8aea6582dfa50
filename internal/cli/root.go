package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astral1119/formulary-setup/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "formulary-setup",
	Short: "Install, update, and remove the Formulary toolchain",
	Long: `formulary-setup manages a local Formulary installation: it acquires
the source tree, resolves its Python dependencies with uv, provisions a
browser engine for sheet automation, and registers launcher wrappers.

It never edits shell startup files; when PATH changes are needed it
prints the exact line to add.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute initializes dependencies and runs the root command.
func Execute() error {
	if err := InitDependencies(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", symError(), err)
		return err
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", symError(), err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("formulary-setup %s\n", version.GetFullVersion()))
}
