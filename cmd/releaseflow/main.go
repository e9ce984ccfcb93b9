package main

import (
	"context"
	"os"
	"os/signal"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releaseflow/internal"
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "releaseflow",
		Short: "Release orchestration for front-end projects",
		Long: `Drive a project from a dirty working tree to a published release.

The next version is negotiated from the release tags on the remote, pending
work is committed and pushed to a dev/<version> branch, the build service
builds it, and a successful production build is merged into the release
branch and tagged release/<version>.

Usage modes:
  releaseflow commit          Commit and push the development branch
  releaseflow publish         Commit, then build on the build service
  releaseflow publish --prod  Build for production and promote the release
  releaseflow history         List recent runs`,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, _ []string) {
			if verbose, _ := command.Flags().GetBool("verbose"); verbose {
				enableDebug()
			}
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		ctrl.AddFlags(subCmd)

		rootCmd.AddCommand(subCmd)
	}
}

func enableDebug() {
	logger.SetLevel(logger.DebugLevel)
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		enableDebug()
	}

	cobraRoot := buildRootCommand()

	// Add all subcommands
	appContext := injectAppContext()
	addSubcommands(cobraRoot, appContext)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cobraRoot.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Fatalf("Error executing 'releaseflow': %s", err)
	}
}
