package dashboard_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/correspondence-management/internal/correspondence"
	"github.com/frahmantamala/correspondence-management/internal/dashboard"
)

// Mock repository for testing
type mockStatsRepository struct {
	total         int64
	byType        map[string]int64
	byStatus      map[string]int64
	pendingReview int64
	sinceCounts   map[time.Time]int64
	sinceArgs     []time.Time
	entities      int64
	users         int64
}

func (m *mockStatsRepository) CountCorrespondences() (int64, error) { return m.total, nil }

func (m *mockStatsRepository) CountByType(t string) (int64, error) { return m.byType[t], nil }

func (m *mockStatsRepository) CountByStatus() (map[string]int64, error) { return m.byStatus, nil }

func (m *mockStatsRepository) CountPendingReview() (int64, error) { return m.pendingReview, nil }

func (m *mockStatsRepository) CountCreatedSince(t time.Time) (int64, error) {
	m.sinceArgs = append(m.sinceArgs, t)
	return m.sinceCounts[t], nil
}

func (m *mockStatsRepository) CountActiveEntities() (int64, error) { return m.entities, nil }

func (m *mockStatsRepository) CountActiveUsers() (int64, error) { return m.users, nil }

var _ = Describe("CompletionRate", func() {
	It("is zero when there is nothing to complete", func() {
		Expect(dashboard.CompletionRate(0, 0)).To(Equal(0.0))
	})

	It("rounds to one decimal", func() {
		Expect(dashboard.CompletionRate(1, 3)).To(Equal(33.3))
		Expect(dashboard.CompletionRate(2, 3)).To(Equal(66.7))
		Expect(dashboard.CompletionRate(1, 8)).To(Equal(12.5))
	})

	It("reaches exactly 100 when everything is closed", func() {
		Expect(dashboard.CompletionRate(7, 7)).To(Equal(100.0))
	})
})

var _ = Describe("Period boundaries", func() {
	// Wednesday afternoon, local time
	ref := time.Date(2026, time.August, 26, 15, 42, 7, 0, time.Local)

	It("starts the day at local midnight", func() {
		start := dashboard.StartOfDay(ref)
		Expect(start.Hour()).To(BeZero())
		Expect(start.Minute()).To(BeZero())
		Expect(start.Second()).To(BeZero())
		Expect(start.Day()).To(Equal(26))
		Expect(start.Location()).To(Equal(ref.Location()))
	})

	It("starts the week on the most recent Monday", func() {
		start := dashboard.StartOfWeek(ref)
		Expect(start.Weekday()).To(Equal(time.Monday))
		Expect(start.Day()).To(Equal(24))
		Expect(start.Hour()).To(BeZero())
	})

	It("keeps a Monday as its own week start", func() {
		monday := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.Local)
		Expect(dashboard.StartOfWeek(monday)).To(Equal(dashboard.StartOfDay(monday)))
	})

	It("rolls a Sunday back six days", func() {
		sunday := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.Local)
		start := dashboard.StartOfWeek(sunday)
		Expect(start.Weekday()).To(Equal(time.Monday))
		Expect(start.Day()).To(Equal(24))
	})

	It("starts the month on the first", func() {
		start := dashboard.StartOfMonth(ref)
		Expect(start.Day()).To(Equal(1))
		Expect(start.Month()).To(Equal(time.August))
		Expect(start.Hour()).To(BeZero())
	})
})

var _ = Describe("DashboardService", func() {
	It("assembles the snapshot from the repository counts", func() {
		repo := &mockStatsRepository{
			total: 10,
			byType: map[string]int64{
				correspondence.TypeIncoming: 6,
				correspondence.TypeOutgoing: 4,
			},
			byStatus: map[string]int64{
				correspondence.StatusDraft:  3,
				correspondence.StatusClosed: 4,
			},
			pendingReview: 5,
			entities:      2,
			users:         3,
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := dashboard.NewService(repo, logger)

		stats, err := service.Stats()

		Expect(err).ToNot(HaveOccurred())
		Expect(stats.TotalCorrespondences).To(Equal(int64(10)))
		Expect(stats.IncomingCount).To(Equal(int64(6)))
		Expect(stats.OutgoingCount).To(Equal(int64(4)))
		Expect(stats.PendingReview).To(Equal(int64(5)))
		Expect(stats.ActiveEntities).To(Equal(int64(2)))
		Expect(stats.ActiveUsers).To(Equal(int64(3)))
		Expect(stats.CompletionRate).To(Equal(40.0))

		// day, week and month boundaries in that order
		Expect(repo.sinceArgs).To(HaveLen(3))
		Expect(repo.sinceArgs[0].Hour()).To(BeZero())
		Expect(repo.sinceArgs[1].Weekday()).To(Equal(time.Monday))
		Expect(repo.sinceArgs[2].Day()).To(Equal(1))
	})
})
