package cmd

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"josephlewis.net/gosh/core"
	"josephlewis.net/gosh/core/config"
)

var (
	cfgPath string
	command string
	verbose bool

	// status is the exit code the shell process should end with.
	status int
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gosh",
	Short: "A small POSIX-flavored command shell",
	Long: `gosh reads command lines, resolves them against its builtins and PATH,
and runs them as real OS processes, including multi-stage pipelines and
stdout/stderr redirections.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		path := cfgPath
		if path == "" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, ".gosh.yaml")
			}
		}

		cfg, err := config.Load(afero.NewOsFs(), path)
		if err != nil {
			return err
		}
		log.Debug("configuration loaded", "path", path)

		if command != "" {
			status = core.RunOnce(cfg, command)
			return nil
		}

		shell, err := core.NewShell(cfg, os.Stdin, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}
		status = shell.Run()
		return nil
	},
}

// Execute runs the root command and reports the process exit status.
// This is called by main.main().
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return status
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "config file (default $HOME/.gosh.yaml)")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run a single command line and exit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
