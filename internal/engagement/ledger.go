package engagement

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/mirrelia/community-feed/backend/internal/models"
)

// pgUniqueViolation is the postgres error code raised when an insert hits a
// unique constraint.
const pgUniqueViolation = "23505"

// LikeLedger is the single source of truth for "who liked what". Uniqueness
// per (user, target kind, target id) is enforced by the composite unique
// index on the likes table rather than a read-then-write check, so exactly
// one fact survives a race between concurrent writers.
type LikeLedger struct {
	db *gorm.DB
}

func NewLikeLedger(db *gorm.DB) *LikeLedger {
	return &LikeLedger{db: db}
}

// ToggleOn records that userID likes the target. If the fact already exists
// the call is a no-op and wasCreated is false; the loser of a concurrent race
// observes the surviving fact, not an error. Both outcomes report the fresh
// like count for the target.
func (l *LikeLedger) ToggleOn(ctx context.Context, userID int, kind models.TargetKind, targetID int) (wasCreated bool, count int64, err error) {
	if !kind.Valid() {
		return false, 0, ErrUnknownTargetKind
	}

	like := models.Like{UserID: userID, TargetKind: kind, TargetID: targetID}
	createErr := l.db.WithContext(ctx).Create(&like).Error

	switch {
	case createErr == nil:
		wasCreated = true
	case isUniqueViolation(createErr):
		// Second writer loses: the fact is already there.
		wasCreated = false
	default:
		return false, 0, &ConflictError{Op: "toggle on", Err: createErr}
	}

	count, err = l.Count(ctx, kind, targetID)
	return wasCreated, count, err
}

// ToggleOff removes the fact if present. Deleting a like that does not exist
// is not an error; it reports existed=false.
func (l *LikeLedger) ToggleOff(ctx context.Context, userID int, kind models.TargetKind, targetID int) (existed bool, count int64, err error) {
	if !kind.Valid() {
		return false, 0, ErrUnknownTargetKind
	}

	res := l.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, 0, &ConflictError{Op: "toggle off", Err: res.Error}
	}

	count, err = l.Count(ctx, kind, targetID)
	return res.RowsAffected > 0, count, err
}

// Count returns the number of likes for one target. Always a fresh query.
func (l *LikeLedger) Count(ctx context.Context, kind models.TargetKind, targetID int) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count).Error
	return count, err
}

// CountMany returns like counts for a batch of targets of one kind in a
// single grouped query. Targets with no likes are absent from the map.
func (l *LikeLedger) CountMany(ctx context.Context, kind models.TargetKind, targetIDs []int) (map[int]int64, error) {
	counts := make(map[int]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TargetID int
		Total    int64
	}
	err := l.db.WithContext(ctx).Model(&models.Like{}).
		Select("target_id", "COUNT(*) AS total").
		Where("target_kind = ? AND target_id IN ?", kind, targetIDs).
		Group("target_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TargetID] = row.Total
	}
	return counts, nil
}

// LikesSince returns every like recorded at or after the cutoff, in one
// query. The karma aggregator folds over this set.
func (l *LikeLedger) LikesSince(ctx context.Context, since time.Time) ([]models.Like, error) {
	var likes []models.Like
	err := l.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Find(&likes).Error
	return likes, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
