package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vcs2git/vcs2git/internal/version"
	"github.com/vcs2git/vcs2git/pkg/engine"
	"github.com/vcs2git/vcs2git/pkg/gitx"
	"github.com/vcs2git/vcs2git/pkg/logging"
	"github.com/vcs2git/vcs2git/pkg/repos"
)

var (
	verbosity     int
	only          []string
	ignore        []string
	noCheckout    bool
	skipExisting  bool
	syncSelection bool
	dryRun        bool
)

// NewRootCmd builds the vcs2git command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vcs2git REPO_FILE PREFIX",
		Short: "Reconcile a repository list against git submodules",
		Long: `vcs2git reads a YAML repository list and reconciles it against the
submodules registered in the current git repository: missing entries are
added, existing ones are updated, and (with --sync-selection) extra ones
are removed. Any failure mid-run rolls the repository back to exactly its
pre-run state.

Run it from the toplevel directory of the host repository.`,
		Args: cobra.ExactArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoFile, prefix := args[0], args[1]

			logger := logging.GetLogger("cmd")
			logger.Info().
				Str("repoFile", repoFile).
				Str("prefix", prefix).
				Bool("dryRun", dryRun).
				Msg("Starting run")

			file, err := repos.Load(repoFile)
			if err != nil {
				return err
			}

			host, err := gitx.OpenHost(".")
			if err != nil {
				return err
			}

			outcome, err := engine.Run(cmd.Context(), host, engine.Options{
				File:          file,
				Prefix:        prefix,
				Only:          only,
				Ignore:        ignore,
				NoCheckout:    noCheckout,
				SkipExisting:  skipExisting,
				SyncSelection: syncSelection,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}

			logger.Info().Stringer("outcome", outcome).Msg("Run finished")
			return nil
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().StringArrayVar(&only, "only", nil, "Process only these repositories (mutually exclusive with --ignore)")
	rootCmd.Flags().StringArrayVar(&ignore, "ignore", nil, "Process all repositories except these (mutually exclusive with --only)")
	rootCmd.Flags().BoolVar(&noCheckout, "no-checkout", false, "Do not checkout the files in each submodule")
	rootCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip updating existing submodules")
	rootCmd.Flags().BoolVar(&syncSelection, "sync-selection", false, "Remove submodules that are not in the current selection")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview what would be done without making changes")
	rootCmd.MarkFlagsMutuallyExclusive("only", "ignore")

	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vcs2git version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
