package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// Release is the interface for the release command.
type Release interface {
	Execute(ctx context.Context, opts entities.ReleaseOptions) entities.ReleaseReport
}

// ReleaseCommand sequences a release: preparing -> committing -> publishing ->
// promoting -> done. A fatal error in any phase moves the run to failed and
// stops it; nothing is retried automatically.
type ReleaseCommand struct {
	vcsFactory repositories.VCSFactory
	preparer   *RepositoryPreparer
	negotiator *VersionNegotiator
	sync       *SyncEngine
	builder    *BuildSessionClient
	uploader   *TemplateUploader
	promotion  *PromotionEngine
	journal    repositories.JournalRepository
	settings   *entities.Settings
}

// NewReleaseCommand creates a ReleaseCommand.
func NewReleaseCommand(
	vcsFactory repositories.VCSFactory,
	preparer *RepositoryPreparer,
	negotiator *VersionNegotiator,
	sync *SyncEngine,
	builder *BuildSessionClient,
	uploader *TemplateUploader,
	promotion *PromotionEngine,
	journal repositories.JournalRepository,
	settings *entities.Settings,
) *ReleaseCommand {
	return &ReleaseCommand{
		vcsFactory: vcsFactory,
		preparer:   preparer,
		negotiator: negotiator,
		sync:       sync,
		builder:    builder,
		uploader:   uploader,
		promotion:  promotion,
		journal:    journal,
		settings:   settings,
	}
}

// releaseRun is the mutable state of one Execute call.
type releaseRun struct {
	report entities.ReleaseReport
	ws     *Workspace
}

// Execute runs the release and reports where it stopped.
func (it *ReleaseCommand) Execute(ctx context.Context, opts entities.ReleaseOptions) entities.ReleaseReport {
	startedAt := time.Now()
	run := &releaseRun{report: entities.ReleaseReport{
		RunID: uuid.NewString(),
		Phase: entities.PhasePreparing,
		Build: entities.BuildPending,
	}}

	manifest, err := it.prepare(ctx, run, opts)
	if err != nil {
		return it.fail(ctx, run, err)
	}

	it.enter(ctx, run, entities.PhaseCommitting)
	if commitErr := it.commit(ctx, run); commitErr != nil {
		return it.fail(ctx, run, commitErr)
	}

	if opts.Publish {
		it.enter(ctx, run, entities.PhasePublishing)
		if publishErr := it.publish(ctx, run, manifest, opts); publishErr != nil {
			return it.fail(ctx, run, publishErr)
		}
	}

	if opts.Prod && run.report.Build == entities.BuildSucceeded {
		it.enter(ctx, run, entities.PhasePromoting)
		if promoteErr := it.promotion.Promote(ctx, run.ws); promoteErr != nil {
			return it.fail(ctx, run, promoteErr)
		}
	}

	it.enter(ctx, run, entities.PhaseDone)
	it.finish(ctx, run)
	logger.Infof("Release finished in %ds", int(time.Since(startedAt).Seconds()))
	return run.report
}

func (it *ReleaseCommand) prepare(
	ctx context.Context,
	run *releaseRun,
	opts entities.ReleaseOptions,
) (*entities.Manifest, error) {
	dir, err := filepath.Abs(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	manifest, err := entities.LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	logger.Infof("Releasing %s@%s from %s", manifest.Name, manifest.Version, dir)

	if homeErr := it.settings.EnsureHome(); homeErr != nil {
		return nil, homeErr
	}

	rc := entities.NewReleaseContext(manifest.Name, manifest.Version, dir)
	rc.RemoteName = it.settings.RemoteName
	run.ws = NewWorkspace(rc, it.vcsFactory(dir))
	run.report.Version = rc.Version

	it.journalBegin(ctx, run, rc)

	if prepareErr := it.preparer.Prepare(ctx, run.ws, opts); prepareErr != nil {
		return nil, prepareErr
	}
	return manifest, nil
}

func (it *ReleaseCommand) commit(ctx context.Context, run *releaseRun) error {
	if err := it.negotiator.NegotiateVersion(ctx, run.ws); err != nil {
		return err
	}
	run.report.Version = run.ws.Context.Version
	run.report.Branch = run.ws.Context.Branch
	return it.sync.CommitSequence(ctx, run.ws)
}

func (it *ReleaseCommand) publish(
	ctx context.Context,
	run *releaseRun,
	manifest *entities.Manifest,
	opts entities.ReleaseOptions,
) error {
	params, err := it.builder.Prepare(ctx, run.ws, manifest, opts)
	if err != nil {
		return err
	}

	result, err := it.builder.Run(ctx, params, func(event entities.BuildEvent) {
		logger.Infof("[build] %s %s", event.Action, event.Message)
	})
	run.report.Build = result.Outcome
	if err != nil {
		return err
	}

	if !result.Succeeded() {
		logger.Warnf("[build] Cloud build did not succeed (%s): %v", result.Outcome, result.Outcome.Err())
		return nil
	}
	logger.Info("[build] Cloud build succeeded")
	return it.uploader.Upload(ctx, run.ws, opts)
}

func (it *ReleaseCommand) enter(ctx context.Context, run *releaseRun, phase entities.ReleasePhase) {
	logger.Debugf("Release phase: %s -> %s", run.report.Phase, phase)
	run.report.Phase = phase
	if run.ws == nil {
		return
	}
	if err := it.journal.Transition(ctx, run.report.RunID, phase); err != nil {
		logger.Warnf("Failed to journal phase %s: %v", phase, err)
	}
}

func (it *ReleaseCommand) fail(ctx context.Context, run *releaseRun, err error) entities.ReleaseReport {
	failedPhase := run.report.Phase
	run.report.Err = &entities.PhaseError{Phase: failedPhase, Err: err}

	fields := logger.Fields{"phase": failedPhase, "run": run.report.RunID}
	if run.ws != nil {
		fields["version"] = run.ws.Context.Version
		fields["branch"] = run.ws.Context.Branch
		fields["dir"] = run.ws.Context.WorkingDir
	}
	logger.WithFields(fields).Errorf("Release failed while %s: %v", failedPhase, err)

	it.enter(ctx, run, entities.PhaseFailed)
	it.finish(ctx, run)
	return run.report
}

func (it *ReleaseCommand) journalBegin(ctx context.Context, run *releaseRun, rc *entities.ReleaseContext) {
	err := it.journal.Begin(ctx, entities.RunRecord{
		ID:        run.report.RunID,
		Project:   rc.ProjectName,
		Version:   rc.Version,
		Phase:     run.report.Phase,
		Build:     run.report.Build,
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Warnf("Failed to journal run %s: %v", run.report.RunID, err)
	}
}

func (it *ReleaseCommand) finish(ctx context.Context, run *releaseRun) {
	if run.ws == nil {
		return
	}
	if err := it.journal.Finish(ctx, run.report); err != nil {
		logger.Warnf("Failed to journal the end of run %s: %v", run.report.RunID, err)
	}
}
