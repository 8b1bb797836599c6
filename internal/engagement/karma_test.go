package engagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mirrelia/community-feed/backend/internal/models"
)

// MockLikeSource is a mock of LikeSource
type MockLikeSource struct {
	mock.Mock
}

func (m *MockLikeSource) LikesSince(ctx context.Context, since time.Time) ([]models.Like, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Like), args.Error(1)
}

// MockContentStore is a mock of ContentStore
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) BatchResolveAuthors(ctx context.Context, kind models.TargetKind, ids []int) (map[int]int, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *MockContentStore) UsersByID(ctx context.Context, ids []int) (map[int]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]models.User), args.Error(1)
}

func like(userID int, kind models.TargetKind, targetID int) models.Like {
	return models.Like{UserID: userID, TargetKind: kind, TargetID: targetID, CreatedAt: time.Now()}
}

func TestTopKarmaAdditivity(t *testing.T) {
	// Alice (user 1) authors post 10, liked by users 2, 3, 4, and comment
	// 20, liked by user 2: 3*5 + 1*1 = 16.
	likes := []models.Like{
		like(2, models.TargetPost, 10),
		like(3, models.TargetPost, 10),
		like(4, models.TargetPost, 10),
		like(2, models.TargetComment, 20),
	}

	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return(likes, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetPost, []int{10}).Return(map[int]int{10: 1}, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetComment, []int{20}).Return(map[int]int{20: 1}, nil)
	content.On("UsersByID", mock.Anything, []int{1}).Return(map[int]models.User{1: {ID: 1, Username: "alice"}}, nil)

	aggregator := NewKarmaAggregator(source, content, nil)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 5)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LeaderboardEntry{UserID: 1, Username: "alice", Karma: 16}, entries[0])
	source.AssertExpectations(t)
	content.AssertExpectations(t)
}

func TestTopKarmaRankingAndTieBreak(t *testing.T) {
	// User 1: 5, user 2: 10, user 3: 5. Descending karma, ties broken by
	// ascending user id.
	likes := []models.Like{
		like(9, models.TargetPost, 11),
		like(9, models.TargetPost, 12),
		like(8, models.TargetPost, 12),
		like(9, models.TargetPost, 13),
	}

	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return(likes, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetPost, []int{11, 12, 13}).
		Return(map[int]int{11: 1, 12: 2, 13: 3}, nil)
	content.On("UsersByID", mock.Anything, []int{2, 1, 3}).Return(map[int]models.User{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
		3: {ID: 3, Username: "cara"},
	}, nil)

	aggregator := NewKarmaAggregator(source, content, nil)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 5)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 2, entries[0].UserID)
	assert.Equal(t, 10, entries[0].Karma)
	assert.Equal(t, 1, entries[1].UserID)
	assert.Equal(t, 3, entries[2].UserID)
}

func TestTopKarmaTruncatesToK(t *testing.T) {
	likes := []models.Like{
		like(9, models.TargetPost, 11),
		like(9, models.TargetPost, 12),
		like(8, models.TargetPost, 12),
		like(9, models.TargetPost, 13),
	}

	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return(likes, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetPost, []int{11, 12, 13}).
		Return(map[int]int{11: 1, 12: 2, 13: 3}, nil)
	content.On("UsersByID", mock.Anything, []int{2, 1}).Return(map[int]models.User{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
	}, nil)

	aggregator := NewKarmaAggregator(source, content, nil)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].UserID)
	assert.Equal(t, 1, entries[1].UserID)
}

func TestTopKarmaSkipsDeletedTargets(t *testing.T) {
	// Post 99 was deleted after being liked; its likes contribute nothing
	// and cause no failure.
	likes := []models.Like{
		like(9, models.TargetPost, 11),
		like(9, models.TargetPost, 99),
	}

	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return(likes, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetPost, []int{11, 99}).
		Return(map[int]int{11: 1}, nil)
	content.On("UsersByID", mock.Anything, []int{1}).
		Return(map[int]models.User{1: {ID: 1, Username: "alice"}}, nil)

	aggregator := NewKarmaAggregator(source, content, nil)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 5)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Karma)
}

func TestTopKarmaSkipsDeletedUsers(t *testing.T) {
	likes := []models.Like{
		like(9, models.TargetPost, 11),
		like(9, models.TargetPost, 12),
	}

	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return(likes, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetPost, []int{11, 12}).
		Return(map[int]int{11: 1, 12: 2}, nil)
	content.On("UsersByID", mock.Anything, []int{1, 2}).
		Return(map[int]models.User{2: {ID: 2, Username: "bob"}}, nil)

	aggregator := NewKarmaAggregator(source, content, nil)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 5)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bob", entries[0].Username)
}

func TestTopKarmaNoLikes(t *testing.T) {
	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return([]models.Like{}, nil)

	aggregator := NewKarmaAggregator(source, content, nil)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 5)

	require.NoError(t, err)
	assert.Empty(t, entries)
	content.AssertNotCalled(t, "BatchResolveAuthors", mock.Anything, mock.Anything, mock.Anything)
}

func TestTopKarmaZeroK(t *testing.T) {
	source := new(MockLikeSource)
	content := new(MockContentStore)

	aggregator := NewKarmaAggregator(source, content, nil)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 0)

	require.NoError(t, err)
	assert.Empty(t, entries)
	source.AssertNotCalled(t, "LikesSince", mock.Anything, mock.Anything)
}

func TestTopKarmaPropagatesSourceError(t *testing.T) {
	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return(nil, errors.New("storage down"))

	aggregator := NewKarmaAggregator(source, content, nil)
	_, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 5)

	assert.ErrorContains(t, err, "storage down")
}

func TestTopKarmaCustomWeights(t *testing.T) {
	likes := []models.Like{
		like(9, models.TargetPost, 11),
		like(9, models.TargetComment, 21),
	}

	source := new(MockLikeSource)
	content := new(MockContentStore)
	source.On("LikesSince", mock.Anything, mock.Anything).Return(likes, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetPost, []int{11}).Return(map[int]int{11: 1}, nil)
	content.On("BatchResolveAuthors", mock.Anything, models.TargetComment, []int{21}).Return(map[int]int{21: 1}, nil)
	content.On("UsersByID", mock.Anything, []int{1}).Return(map[int]models.User{1: {ID: 1, Username: "alice"}}, nil)

	weights := map[models.TargetKind]int{models.TargetPost: 10, models.TargetComment: 3}
	aggregator := NewKarmaAggregator(source, content, weights)
	entries, err := aggregator.TopKarma(context.Background(), 24*time.Hour, 5)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 13, entries[0].Karma)
}
