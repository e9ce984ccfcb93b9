package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// VersionNegotiator fixes the development branch and effective version of a
// release by comparing the local version with the newest remote release tag.
type VersionNegotiator struct {
	sync   *SyncEngine
	prompt repositories.PromptRepository
}

// NewVersionNegotiator creates a VersionNegotiator.
func NewVersionNegotiator(sync *SyncEngine, prompt repositories.PromptRepository) *VersionNegotiator {
	return &VersionNegotiator{sync: sync, prompt: prompt}
}

// Negotiate computes the branch and version. When the local version is not
// strictly ahead of the newest release, bump must name the component to
// increment, relative to the release version; otherwise ErrBumpRequired is returned.
func Negotiate(local string, releases []entities.RemoteRef, bump entities.BumpKind) (entities.Negotiation, error) {
	if !entities.IsValidVersion(local) {
		return entities.Negotiation{}, fmt.Errorf("%w: local version %q", entities.ErrManifest, local)
	}

	if len(releases) == 0 {
		return entities.Negotiation{Branch: entities.DevelopBranchName(local), Version: local}, nil
	}

	latest := releases[0].Version
	if entities.CompareVersions(local, latest) > 0 {
		return entities.Negotiation{
			Branch:         entities.DevelopBranchName(local),
			Version:        local,
			ReleaseVersion: latest,
		}, nil
	}

	if bump == entities.BumpNone {
		return entities.Negotiation{ReleaseVersion: latest}, entities.ErrBumpRequired
	}
	next, err := entities.BumpVersion(latest, bump)
	if err != nil {
		return entities.Negotiation{}, err
	}
	return entities.Negotiation{
		Branch:         entities.DevelopBranchName(next),
		Version:        next,
		ReleaseVersion: latest,
		Bumped:         true,
	}, nil
}

// NegotiateVersion lists the remote releases, asks for a bump kind if needed,
// syncs the manifest version and applies the result to the release context.
func (it *VersionNegotiator) NegotiateVersion(ctx context.Context, ws *Workspace) error {
	rc := ws.Context
	logger.Info("[version] Fetching remote release tags")
	releases, err := it.sync.ListRemoteVersions(ctx, ws, entities.RefKindTag)
	if err != nil {
		return err
	}

	negotiation, err := Negotiate(rc.Version, releases, entities.BumpNone)
	if errors.Is(err, entities.ErrBumpRequired) {
		logger.Infof(
			"[version] Latest release %s is not behind local version %s",
			negotiation.ReleaseVersion, rc.Version,
		)
		bump, bumpErr := it.chooseBump(negotiation.ReleaseVersion)
		if bumpErr != nil {
			return bumpErr
		}
		negotiation, err = Negotiate(rc.Version, releases, bump)
	}
	if err != nil {
		return err
	}

	changed, err := entities.SyncManifestVersion(rc.WorkingDir, negotiation.Version)
	if err != nil {
		return err
	}
	if changed {
		logger.Infof("[version] Rewrote %s version to %s", entities.ManifestFile, negotiation.Version)
	}

	if applyErr := rc.ApplyNegotiation(negotiation); applyErr != nil {
		return applyErr
	}
	logger.Infof("[version] Development branch: %s", rc.Branch)
	return nil
}

func (it *VersionNegotiator) chooseBump(release string) (entities.BumpKind, error) {
	choices := make([]entities.Choice, 0, 3) //nolint:mnd // patch, minor, major
	for _, kind := range []entities.BumpKind{entities.BumpPatch, entities.BumpMinor, entities.BumpMajor} {
		next, err := entities.BumpVersion(release, kind)
		if err != nil {
			return entities.BumpNone, err
		}
		choices = append(choices, entities.Choice{
			Label: fmt.Sprintf("%s (%s -> %s)", kind, release, next),
			Value: string(kind),
		})
	}

	answer, err := it.prompt.Select("Select the version bump", choices, string(entities.BumpPatch))
	if err != nil {
		return entities.BumpNone, err
	}
	return entities.ParseBumpKind(answer)
}
