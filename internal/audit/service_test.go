package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/audit"
	"github.com/frahmantamala/correspondence-management/internal/core/events"
)

// Mock repository for testing. The bus delivers on its own goroutines,
// so access is guarded.
type mockAuditRepository struct {
	mu     sync.Mutex
	logs   []*audit.Log
	nextID int64

	lastLimit  int
	lastOffset int
}

func newMockAuditRepository() *mockAuditRepository {
	return &mockAuditRepository{nextID: 1}
}

func (m *mockAuditRepository) Create(l *audit.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextID
	m.nextID++
	l.CreatedAt = time.Now()
	m.logs = append(m.logs, l)
	return nil
}

func (m *mockAuditRepository) GetByID(id int64) (*audit.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockAuditRepository) List(filter audit.ListFilter, limit, offset int) ([]audit.Log, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	m.lastOffset = offset
	out := make([]audit.Log, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (m *mockAuditRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

func (m *mockAuditRepository) first() *audit.Log {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.logs) == 0 {
		return nil
	}
	return m.logs[0]
}

var _ = Describe("AuditService", func() {
	var (
		service  *audit.Service
		mockRepo *mockAuditRepository
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockAuditRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(mockRepo, logger)
	})

	Describe("Record", func() {
		It("maps caller metadata onto the row", func() {
			err := service.Record(events.AuditData{
				UserID:     7,
				Action:     "create",
				Resource:   "correspondence",
				ResourceID: 12,
				IPAddress:  "10.0.0.1",
				UserAgent:  "curl/8",
			})

			Expect(err).ToNot(HaveOccurred())
			l := mockRepo.first()
			Expect(l.UserID).To(HaveValue(Equal(int64(7))))
			Expect(l.ResourceID).To(HaveValue(Equal(int64(12))))
			Expect(l.Action).To(Equal("create"))
			Expect(l.Resource).To(Equal("correspondence"))
			Expect(l.IPAddress).To(Equal("10.0.0.1"))
		})

		It("stores unknown actor and resource ids as null, not zero", func() {
			err := service.Record(events.AuditData{Action: "login_failed", Resource: "auth"})

			Expect(err).ToNot(HaveOccurred())
			l := mockRepo.first()
			Expect(l.UserID).To(BeNil())
			Expect(l.ResourceID).To(BeNil())
		})
	})

	Describe("SubscribeTo", func() {
		It("appends a row for each published event", func() {
			bus := events.NewEventBus(logger)
			service.SubscribeTo(bus)

			bus.Publish(context.Background(), events.NewAuditEvent(events.AuditData{
				UserID:   3,
				Action:   "delete",
				Resource: "entity",
			}))

			Eventually(mockRepo.count).Should(Equal(1))
			Expect(mockRepo.first().Action).To(Equal("delete"))
		})
	})

	Describe("Get", func() {
		It("returns a stored row", func() {
			Expect(service.Record(events.AuditData{Action: "update", Resource: "user"})).To(Succeed())

			l, err := service.Get(1)
			Expect(err).ToNot(HaveOccurred())
			Expect(l.Action).To(Equal("update"))
		})

		It("maps a missing row to not found", func() {
			_, err := service.Get(99)

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeAuditLogNotFound))
		})
	})

	Describe("List", func() {
		It("defaults the page size to 20", func() {
			_, _, err := service.List(audit.ListFilter{}, 0, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastLimit).To(Equal(20))
			Expect(mockRepo.lastOffset).To(BeZero())
		})

		It("translates page and limit into an offset", func() {
			_, _, err := service.List(audit.ListFilter{}, 2, 50)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastLimit).To(Equal(50))
			Expect(mockRepo.lastOffset).To(Equal(50))
		})
	})
})
