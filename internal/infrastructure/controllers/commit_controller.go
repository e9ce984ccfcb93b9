package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// CommitController handles the "commit" subcommand: everything up to and
// including the push of the development branch.
type CommitController struct {
	command commands.Release
}

// NewCommitController creates a new CommitController.
func NewCommitController(command commands.Release) *CommitController {
	return &CommitController{command: command}
}

// GetBind returns the Cobra command metadata for the commit controller.
func (it *CommitController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "commit [path]",
		Short: "Commit and push the development branch",
		Long: `Prepare the remote repository, negotiate the next version from the
release tags, commit pending changes and push the dev/<version> branch.`,
	}
}

func (it *CommitController) AddFlags(cmd *cobra.Command) {
	addRefreshFlags(cmd)
}

// Execute runs the release flow without publishing.
func (it *CommitController) Execute(cmd *cobra.Command, args []string) error {
	opts := refreshOptions(cmd)
	opts.WorkingDir = workingDir(args)

	report := it.command.Execute(cmd.Context(), opts)
	printReport(cmd.OutOrStdout(), report)
	return reportError(report)
}

func addRefreshFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("refreshServer", false, "Choose the git hosting backend again")
	cmd.Flags().Bool("refreshToken", false, "Enter the hosting token again")
	cmd.Flags().Bool("refreshOwner", false, "Choose the repository owner again")
}

func refreshOptions(cmd *cobra.Command) entities.ReleaseOptions {
	refreshServer, _ := cmd.Flags().GetBool("refreshServer")
	refreshToken, _ := cmd.Flags().GetBool("refreshToken")
	refreshOwner, _ := cmd.Flags().GetBool("refreshOwner")
	return entities.ReleaseOptions{
		RefreshServer: refreshServer,
		RefreshToken:  refreshToken,
		RefreshOwner:  refreshOwner,
	}
}
