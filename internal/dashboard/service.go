package dashboard

import (
	"log/slog"
	"math"
	"time"

	errors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/correspondence"
)

type Repository interface {
	CountCorrespondences() (int64, error)
	CountByType(correspondenceType string) (int64, error)
	CountByStatus() (map[string]int64, error)
	CountPendingReview() (int64, error)
	CountCreatedSince(t time.Time) (int64, error)
	CountActiveEntities() (int64, error)
	CountActiveUsers() (int64, error)
}

type Service struct {
	repo   Repository
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, now: time.Now, logger: logger}
}

func (s *Service) Stats() (*Stats, error) {
	stats := &Stats{ByStatus: make(map[string]int64)}

	var err error
	if stats.TotalCorrespondences, err = s.repo.CountCorrespondences(); err != nil {
		return nil, errors.NewInternalError("failed to count correspondences", err)
	}
	if stats.IncomingCount, err = s.repo.CountByType(correspondence.TypeIncoming); err != nil {
		return nil, errors.NewInternalError("failed to count incoming", err)
	}
	if stats.OutgoingCount, err = s.repo.CountByType(correspondence.TypeOutgoing); err != nil {
		return nil, errors.NewInternalError("failed to count outgoing", err)
	}
	if stats.ByStatus, err = s.repo.CountByStatus(); err != nil {
		return nil, errors.NewInternalError("failed to count by status", err)
	}
	if stats.PendingReview, err = s.repo.CountPendingReview(); err != nil {
		return nil, errors.NewInternalError("failed to count pending review", err)
	}

	now := s.now()
	if stats.TodayCount, err = s.repo.CountCreatedSince(StartOfDay(now)); err != nil {
		return nil, errors.NewInternalError("failed to count today", err)
	}
	if stats.WeekCount, err = s.repo.CountCreatedSince(StartOfWeek(now)); err != nil {
		return nil, errors.NewInternalError("failed to count this week", err)
	}
	if stats.MonthCount, err = s.repo.CountCreatedSince(StartOfMonth(now)); err != nil {
		return nil, errors.NewInternalError("failed to count this month", err)
	}

	if stats.ActiveEntities, err = s.repo.CountActiveEntities(); err != nil {
		return nil, errors.NewInternalError("failed to count entities", err)
	}
	if stats.ActiveUsers, err = s.repo.CountActiveUsers(); err != nil {
		return nil, errors.NewInternalError("failed to count users", err)
	}

	stats.CompletionRate = CompletionRate(stats.ByStatus[correspondence.StatusClosed], stats.TotalCorrespondences)

	return stats, nil
}

// CompletionRate is closed/total as a percentage, rounded to one
// decimal. Zero total yields zero, not NaN.
func CompletionRate(closed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(closed)/float64(total)*1000) / 10
}

// StartOfDay truncates to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns local midnight of the most recent Monday.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := int(day.Weekday()-time.Monday+7) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns local midnight of the first of the month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
