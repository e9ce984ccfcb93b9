package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// PublishController handles the "publish" subcommand: the commit flow followed
// by a cloud build and, in production, the promotion to the release branch.
type PublishController struct {
	command commands.Release
}

// NewPublishController creates a new PublishController.
func NewPublishController(command commands.Release) *PublishController {
	return &PublishController{command: command}
}

// GetBind returns the Cobra command metadata for the publish controller.
func (it *PublishController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "publish [path]",
		Short: "Commit, build and publish a release",
		Long: `Run the commit flow, then hand the development branch to the build
service. With --prod a successful build is merged into the release branch,
tagged release/<version> and the development branch is removed.`,
	}
}

// AddFlags adds the publish-specific flags to the given Cobra command.
func (it *PublishController) AddFlags(cmd *cobra.Command) {
	addRefreshFlags(cmd)
	cmd.Flags().Bool("refreshPublishType", false, "Choose the publish target again")
	cmd.Flags().String("buildCmd", "", "Build command run by the build service (default: npm run build)")
	cmd.Flags().Bool("prod", false, "Publish to production and promote the release")
	cmd.Flags().String("sshUser", "", "User of the template server")
	cmd.Flags().String("sshIp", "", "Address of the template server")
	cmd.Flags().String("sshPath", "", "Target directory on the template server")
}

// Execute runs the full release flow.
func (it *PublishController) Execute(cmd *cobra.Command, args []string) error {
	opts := refreshOptions(cmd)
	opts.WorkingDir = workingDir(args)
	opts.Publish = true
	opts.RefreshPublishType, _ = cmd.Flags().GetBool("refreshPublishType")
	opts.BuildCmd, _ = cmd.Flags().GetString("buildCmd")
	opts.Prod, _ = cmd.Flags().GetBool("prod")
	opts.SSHUser, _ = cmd.Flags().GetString("sshUser")
	opts.SSHIP, _ = cmd.Flags().GetString("sshIp")
	opts.SSHPath, _ = cmd.Flags().GetString("sshPath")

	report := it.command.Execute(cmd.Context(), opts)
	printReport(cmd.OutOrStdout(), report)
	return reportError(report)
}
