package engagement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mirrelia/community-feed/backend/internal/models"
)

// DefaultKarmaWeights is the karma credited to a target's author per like.
var DefaultKarmaWeights = map[models.TargetKind]int{
	models.TargetPost:    5,
	models.TargetComment: 1,
}

// LikeSource provides the windowed like facts the aggregator folds over.
// *LikeLedger satisfies it.
type LikeSource interface {
	LikesSince(ctx context.Context, since time.Time) ([]models.Like, error)
}

// ContentStore resolves liked targets to their authors and ranked user ids
// to user records, both as batched lookups.
type ContentStore interface {
	BatchResolveAuthors(ctx context.Context, kind models.TargetKind, ids []int) (map[int]int, error)
	UsersByID(ctx context.Context, ids []int) (map[int]models.User, error)
}

// KarmaAggregator computes time-windowed per-author karma and serves top-K
// rankings. It owns no state and recomputes from the like ledger and the
// content store on every call, so windowed results are always current.
type KarmaAggregator struct {
	likes   LikeSource
	content ContentStore
	weights map[models.TargetKind]int
}

func NewKarmaAggregator(likes LikeSource, content ContentStore, weights map[models.TargetKind]int) *KarmaAggregator {
	if len(weights) == 0 {
		weights = DefaultKarmaWeights
	}
	return &KarmaAggregator{likes: likes, content: content, weights: weights}
}

// TopKarma ranks content authors by karma earned over the trailing window
// and returns the k highest. Ties break on ascending user id so equal-karma
// rankings are reproducible. Likes on targets that have since been deleted
// contribute nothing; users deleted between ranking and resolution are
// dropped from the result.
//
// Storage cost is one windowed like fetch, one author resolution per target
// kind, and one user lookup for the winners — never one query per like.
func (a *KarmaAggregator) TopKarma(ctx context.Context, window time.Duration, k int) ([]models.LeaderboardEntry, error) {
	if k <= 0 {
		return []models.LeaderboardEntry{}, nil
	}

	since := time.Now().Add(-window)
	likes, err := a.likes.LikesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetching windowed likes: %w", err)
	}
	if len(likes) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	// Distinct target ids per kind, then one batched author lookup per kind.
	seen := make(map[models.TargetKind]map[int]bool)
	idsByKind := make(map[models.TargetKind][]int)
	for _, like := range likes {
		if seen[like.TargetKind] == nil {
			seen[like.TargetKind] = make(map[int]bool)
		}
		if !seen[like.TargetKind][like.TargetID] {
			seen[like.TargetKind][like.TargetID] = true
			idsByKind[like.TargetKind] = append(idsByKind[like.TargetKind], like.TargetID)
		}
	}

	authors := make(map[models.TargetKind]map[int]int, len(idsByKind))
	for kind, ids := range idsByKind {
		resolved, err := a.content.BatchResolveAuthors(ctx, kind, ids)
		if err != nil {
			return nil, fmt.Errorf("resolving %s authors: %w", kind, err)
		}
		authors[kind] = resolved
	}

	totals := make(map[int]int)
	for _, like := range likes {
		authorID, ok := authors[like.TargetKind][like.TargetID]
		if !ok {
			// Target deleted after being liked.
			continue
		}
		totals[authorID] += a.weights[like.TargetKind]
	}

	ranked := make([]models.LeaderboardEntry, 0, len(totals))
	for userID, karma := range totals {
		ranked = append(ranked, models.LeaderboardEntry{UserID: userID, Karma: karma})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Karma != ranked[j].Karma {
			return ranked[i].Karma > ranked[j].Karma
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	winnerIDs := make([]int, len(ranked))
	for i, entry := range ranked {
		winnerIDs[i] = entry.UserID
	}
	users, err := a.content.UsersByID(ctx, winnerIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving leaderboard users: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(ranked))
	for _, entry := range ranked {
		user, ok := users[entry.UserID]
		if !ok {
			continue
		}
		entry.Username = user.Username
		entries = append(entries, entry)
	}
	return entries, nil
}
