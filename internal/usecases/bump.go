package usecases

import (
	"github.com/Masterminds/semver/v3"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// ImpliedBump returns the bump a single commit calls for.
func ImpliedBump(c domain.ClassifiedCommit) domain.BumpLevel {
	switch {
	case c.IsBreaking:
		return domain.BumpMajor
	case c.Type == domain.TypeFeat:
		return domain.BumpMinor
	default:
		return domain.BumpPatch
	}
}

// ResolveBump folds every commit into the highest bump level.
// The result does not depend on group or commit order. An empty set yields BumpPatch.
func ResolveBump(grouped domain.GroupedCommits) domain.BumpLevel {
	bump := domain.BumpPatch
	for _, commits := range grouped {
		for _, c := range commits {
			bump = domain.MaxBump(bump, ImpliedBump(c))
			if bump == domain.BumpMajor {
				return bump
			}
		}
	}
	return bump
}

// NextVersion increments prior by bump.
// Any prerelease on prior is dropped before incrementing, so 1.0.0-rc.1 plus a patch is 1.0.1.
func NextVersion(prior domain.Version, bump domain.BumpLevel) domain.Version {
	base := semver.New(prior.Major, prior.Minor, prior.Patch, "", "")

	var next semver.Version
	switch bump {
	case domain.BumpMajor:
		next = base.IncMajor()
	case domain.BumpMinor:
		next = base.IncMinor()
	default:
		next = base.IncPatch()
	}

	return domain.Version{
		Major: next.Major(),
		Minor: next.Minor(),
		Patch: next.Patch(),
	}
}
