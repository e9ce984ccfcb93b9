package entities

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// RefKind distinguishes release tags from development branches on the remote.
type RefKind string

const (
	RefKindTag    RefKind = "tag"
	RefKindBranch RefKind = "branch"
)

// BumpKind is the semantic version component to increment.
type BumpKind string

const (
	BumpNone  BumpKind = ""
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
)

var (
	// ErrBumpRequired is returned when the local version is not ahead of the
	// latest release and no bump kind was chosen.
	ErrBumpRequired = errors.New("local version is not ahead of the latest release, a bump kind is required")
	// ErrInvalidVersion is returned for versions that are not semantic versions.
	ErrInvalidVersion = errors.New("invalid semantic version")

	releaseRefPattern = regexp.MustCompile(`refs/tags/release/(\d+\.\d+\.\d+)$`)
	developRefPattern = regexp.MustCompile(`refs/heads/dev/(\d+\.\d+\.\d+)$`)
)

// RemoteRef is a version found on the remote as a release tag or a development branch.
type RemoteRef struct {
	Kind    RefKind
	Version string
}

// Name returns the short reference name, e.g. "release/1.2.0".
func (r RemoteRef) Name() string {
	if r.Kind == RefKindTag {
		return ReleaseTagName(r.Version)
	}
	return DevelopBranchName(r.Version)
}

// Negotiation is the outcome of comparing the local version with the remote releases.
type Negotiation struct {
	Branch         string
	Version        string
	ReleaseVersion string
	Bumped         bool
}

// ParseRemoteRefs parses `git ls-remote --refs` output, keeping only references of
// the requested kind with a valid semantic version. The result is deduplicated and
// sorted newest first. Malformed lines are skipped.
func ParseRemoteRefs(listing string, kind RefKind) []RemoteRef {
	pattern := developRefPattern
	if kind == RefKindTag {
		pattern = releaseRefPattern
	}

	seen := make(map[string]bool)
	var refs []RemoteRef
	for _, line := range strings.Split(listing, "\n") {
		match := pattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil || !IsValidVersion(match[1]) || seen[match[1]] {
			continue
		}
		seen[match[1]] = true
		refs = append(refs, RemoteRef{Kind: kind, Version: match[1]})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return CompareVersions(refs[i].Version, refs[j].Version) > 0
	})
	return refs
}

// ContainsVersion reports whether refs holds the given version.
func ContainsVersion(refs []RemoteRef, version string) bool {
	for _, ref := range refs {
		if CompareVersions(ref.Version, version) == 0 {
			return true
		}
	}
	return false
}

// IsValidVersion reports whether v is a full MAJOR.MINOR.PATCH semantic version
// without the "v" prefix.
func IsValidVersion(v string) bool {
	if _, err := mmsemver.StrictNewVersion(v); err != nil {
		return false
	}
	return semver.IsValid("v" + v)
}

// CompareVersions returns -1, 0 or +1 as a is lower, equal or greater than b.
func CompareVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}

// BumpVersion increments the requested component of version.
func BumpVersion(version string, kind BumpKind) (string, error) {
	parsed, err := mmsemver.StrictNewVersion(version)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}

	var next mmsemver.Version
	switch kind {
	case BumpPatch:
		next = parsed.IncPatch()
	case BumpMinor:
		next = parsed.IncMinor()
	case BumpMajor:
		next = parsed.IncMajor()
	default:
		return "", fmt.Errorf("unknown bump kind %q", kind)
	}
	return next.String(), nil
}

// ParseBumpKind converts the textual kind into a BumpKind.
func ParseBumpKind(raw string) (BumpKind, error) {
	switch kind := BumpKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case BumpPatch, BumpMinor, BumpMajor:
		return kind, nil
	default:
		return BumpNone, fmt.Errorf("unknown bump kind %q", raw)
	}
}
