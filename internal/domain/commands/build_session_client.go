package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const (
	defaultBuildCmd  = "npm run build"
	publishTargetOSS = "oss"
	releaseTypeProd  = "prod"
	releaseTypeDev   = "dev"
)

var (
	errInvalidBuildCmd = errors.New("build command must start with npm or cnpm")
	errUnknownScript   = errors.New("build command names a script missing from the manifest")
)

// ProgressFunc receives informational build events as they arrive.
type ProgressFunc func(event entities.BuildEvent)

// BuildSessionClient runs one cloud build session: pre-build gate, connect with
// timeout, build request and terminal outcome.
type BuildSessionClient struct {
	transport   repositories.BuildTransport
	artifacts   repositories.ArtifactRepository
	credentials repositories.CredentialRepository
	prompt      repositories.PromptRepository
	settings    *entities.Settings
}

// NewBuildSessionClient creates a BuildSessionClient.
func NewBuildSessionClient(
	transport repositories.BuildTransport,
	artifacts repositories.ArtifactRepository,
	credentials repositories.CredentialRepository,
	prompt repositories.PromptRepository,
	settings *entities.Settings,
) *BuildSessionClient {
	return &BuildSessionClient{
		transport:   transport,
		artifacts:   artifacts,
		credentials: credentials,
		prompt:      prompt,
		settings:    settings,
	}
}

// Prepare validates the build command, resolves the publish target and, for
// production releases, asks before overwriting an already published project.
// No connection is opened if Prepare fails.
func (it *BuildSessionClient) Prepare(
	ctx context.Context,
	ws *Workspace,
	manifest *entities.Manifest,
	opts entities.ReleaseOptions,
) (entities.BuildParams, error) {
	rc := ws.Context
	logger.Info("[build] Checking the project before the cloud build")

	buildCmd, err := ValidateBuildCommand(opts.BuildCmd, manifest)
	if err != nil {
		return entities.BuildParams{}, err
	}

	target, err := it.publishTarget(opts.RefreshPublishType)
	if err != nil {
		return entities.BuildParams{}, err
	}

	if opts.Prod {
		if gateErr := it.confirmOverwrite(ctx, rc.ProjectName); gateErr != nil {
			return entities.BuildParams{}, gateErr
		}
	}

	return entities.BuildParams{
		Repo:     rc.RemoteURL,
		Name:     rc.ProjectName,
		Branch:   rc.Branch,
		BuildCmd: buildCmd,
		Version:  rc.Version,
		Type:     target,
		Prod:     opts.Prod,
	}, nil
}

// Run opens a session and blocks until exactly one terminal outcome is reached.
// Negative outcomes are returned as data; errors mean the session could not be
// driven at all (connection refused, transport error, cancelled context).
func (it *BuildSessionClient) Run(
	ctx context.Context,
	params entities.BuildParams,
	progress ProgressFunc,
) (entities.BuildResult, error) {
	session := entities.NewBuildSession(it.settings.BuildServerURL, params)

	connectCtx, cancelConnect := context.WithTimeout(ctx, it.settings.ConnectTimeout)
	defer cancelConnect()

	logger.Infof("[build] Connecting to %s (timeout %s)", session.Endpoint, it.settings.ConnectTimeout)
	conn, err := it.transport.Dial(connectCtx, session.Endpoint, params)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			session.Advance(entities.BuildDisconnected)
			return resultOf(session), ctx.Err()
		case errors.Is(connectCtx.Err(), context.DeadlineExceeded):
			logger.Error("[build] Build service connection timed out")
			session.Advance(entities.BuildTimedOut)
			return resultOf(session), nil
		default:
			session.Advance(entities.BuildDisconnected)
			return resultOf(session), fmt.Errorf("%w: cannot reach build service: %w", entities.ErrNetwork, err)
		}
	}
	defer closeConnection(conn)

	if ackErr := it.awaitAcknowledgement(ctx, connectCtx, session, conn); ackErr != nil {
		return resultOf(session), ackErr
	}
	cancelConnect()
	if session.Outcome().IsTerminal() {
		return resultOf(session), nil
	}

	logger.Infof("[build] Connected, session %s", session.ID)
	if emitErr := conn.Emit(ctx, entities.EventBuild); emitErr != nil {
		teardown(session, conn, entities.BuildDisconnected)
		return resultOf(session), fmt.Errorf("%w: failed to request build: %w", entities.ErrNetwork, emitErr)
	}
	session.Advance(entities.BuildBuilding)

	return resultOf(session), it.awaitOutcome(ctx, session, conn, progress)
}

// awaitAcknowledgement waits for the connect event, racing the connect timeout.
func (it *BuildSessionClient) awaitAcknowledgement(
	ctx, connectCtx context.Context,
	session *entities.BuildSession,
	conn repositories.BuildConnection,
) error {
	events := conn.Events()
	for session.Outcome() == entities.BuildPending {
		select {
		case <-connectCtx.Done():
			if ctx.Err() != nil {
				teardown(session, conn, entities.BuildDisconnected)
				return ctx.Err()
			}
			logger.Error("[build] Build service did not acknowledge in time, aborting")
			teardown(session, conn, entities.BuildTimedOut)
		case event, ok := <-events:
			if !ok {
				teardown(session, conn, entities.BuildDisconnected)
				continue
			}
			switch event.Name {
			case entities.EventConnect:
				session.ID = event.ID
				session.Advance(entities.BuildConnected)
			case entities.EventDisconnect:
				logger.Info("[build] Build service disconnected")
				teardown(session, conn, entities.BuildDisconnected)
			case entities.EventError:
				teardown(session, conn, entities.BuildDisconnected)
				return fmt.Errorf("%w: build service error: %s", entities.ErrNetwork, event.Message)
			default:
				logger.Debugf("[build] Ignoring %q before acknowledgement", event.Name)
			}
		}
	}
	return nil
}

// awaitOutcome consumes events until the first terminal one.
func (it *BuildSessionClient) awaitOutcome(
	ctx context.Context,
	session *entities.BuildSession,
	conn repositories.BuildConnection,
	progress ProgressFunc,
) error {
	events := conn.Events()
	for !session.Outcome().IsTerminal() {
		select {
		case <-ctx.Done():
			teardown(session, conn, entities.BuildDisconnected)
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				logger.Info("[build] Build service closed the connection")
				teardown(session, conn, entities.BuildDisconnected)
				continue
			}
			handleBuildEvent(session, conn, event, progress)
		}
	}
	return nil
}

func handleBuildEvent(
	session *entities.BuildSession,
	conn repositories.BuildConnection,
	event entities.BuildEvent,
	progress ProgressFunc,
) {
	switch event.Name {
	case entities.EventBuildSuccess:
		logger.Infof("[build] %s %s", event.Action, event.Message)
		teardown(session, conn, entities.BuildSucceeded)
	case entities.EventBuildError:
		logger.Errorf("[build] %s %s", event.Action, event.Message)
		teardown(session, conn, entities.BuildFailed)
	case entities.EventDisconnect:
		logger.Info("[build] Build task disconnected")
		teardown(session, conn, entities.BuildDisconnected)
	case entities.EventError:
		logger.Errorf("[build] Build service error: %s", event.Message)
		teardown(session, conn, entities.BuildDisconnected)
	default:
		if progress != nil {
			progress(event)
			return
		}
		logger.Infof("[build] %s %s", event.Action, event.Message)
	}
}

// teardown records the outcome if none was recorded yet and closes the connection.
func teardown(session *entities.BuildSession, conn repositories.BuildConnection, outcome entities.BuildOutcome) {
	if session.Advance(outcome) {
		logger.Debugf("[build] Session outcome: %s", outcome)
	}
	closeConnection(conn)
}

func closeConnection(conn repositories.BuildConnection) {
	if err := conn.Close(); err != nil {
		logger.Debugf("[build] Closing connection: %v", err)
	}
}

func resultOf(session *entities.BuildSession) entities.BuildResult {
	return entities.BuildResult{SessionID: session.ID, Outcome: session.Outcome()}
}

// ValidateBuildCommand returns the build command to run, defaulting to
// "npm run build". The command must use npm or cnpm and its last word must be
// a script declared by the manifest.
func ValidateBuildCommand(buildCmd string, manifest *entities.Manifest) (string, error) {
	buildCmd = strings.TrimSpace(buildCmd)
	if buildCmd == "" {
		buildCmd = defaultBuildCmd
	}

	words := strings.Fields(buildCmd)
	if words[0] != "npm" && words[0] != "cnpm" {
		return "", fmt.Errorf("%w: %q", errInvalidBuildCmd, buildCmd)
	}
	if script := words[len(words)-1]; !manifest.HasScript(script) {
		return "", fmt.Errorf("%w: %q", errUnknownScript, script)
	}
	return buildCmd, nil
}

func (it *BuildSessionClient) publishTarget(refresh bool) (string, error) {
	target, err := it.credentials.Read(entities.CredentialPublishTarget)
	if err != nil {
		return "", err
	}
	if target != "" && !refresh {
		logger.Infof("[build] Publish target: %s", target)
		return target, nil
	}

	target, err = it.prompt.Select(
		"Select the platform to publish to",
		[]entities.Choice{{Label: "OSS", Value: publishTargetOSS}},
		publishTargetOSS,
	)
	if err != nil {
		return "", err
	}
	if writeErr := it.credentials.Write(entities.CredentialPublishTarget, target); writeErr != nil {
		return "", writeErr
	}
	logger.Infof("[build] Publish target %s saved", target)
	return target, nil
}

func (it *BuildSessionClient) confirmOverwrite(ctx context.Context, project string) error {
	exists, err := it.artifacts.ProductionArtifactExists(ctx, project, releaseTypeProd)
	if err != nil {
		return fmt.Errorf("failed to query published artifacts: %w", asNetworkError(err))
	}
	if !exists {
		return nil
	}

	overwrite, err := it.prompt.Confirm(
		fmt.Sprintf("Project %s is already published to production, overwrite it?", project), false,
	)
	if err != nil {
		return err
	}
	if !overwrite {
		return entities.ErrPublishAborted
	}
	return nil
}
