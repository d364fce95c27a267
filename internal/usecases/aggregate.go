package usecases

import (
	"context"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// Aggregate classifies commits in input order and groups them by type.
// Commits that do not follow the convention are skipped; they never fail the run.
// Within a group, commits keep the order in which they were supplied.
func Aggregate(
	ctx context.Context,
	commits []domain.RawCommit,
	classifier domain.Classifier,
	log Logger,
) domain.GroupedCommits {
	grouped := make(domain.GroupedCommits)

	for _, raw := range commits {
		commit, err := classifier.Classify(raw)
		if err != nil {
			log.Debug(ctx, "skipping non-conventional commit", map[string]interface{}{
				"commit": domain.ShortID(raw.ID),
				"reason": err.Error(),
			})
			continue
		}
		if commit.Type == domain.TypeOther {
			log.Debug(ctx, "grouping unrecognised commit type as other", map[string]interface{}{
				"commit":   commit.ShortID(),
				"raw_type": commit.RawType,
			})
		}
		grouped[commit.Type] = append(grouped[commit.Type], commit)
	}

	return grouped
}
