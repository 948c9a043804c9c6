package entity_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/entity"
)

// Mock repository for testing
type mockEntityRepository struct {
	entities map[int64]*entity.Entity
	deleted  []int64
	nextID   int64

	lastLimit  int
	lastOffset int
}

func newMockEntityRepository() *mockEntityRepository {
	return &mockEntityRepository{
		entities: make(map[int64]*entity.Entity),
		nextID:   1,
	}
}

func (m *mockEntityRepository) Create(e *entity.Entity) error {
	e.ID = m.nextID
	m.nextID++
	e.CreatedAt = time.Now()
	m.entities[e.ID] = e
	return nil
}

func (m *mockEntityRepository) GetByID(id int64) (*entity.Entity, error) {
	e, ok := m.entities[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *e
	return &copied, nil
}

func (m *mockEntityRepository) List(filter entity.ListFilter, limit, offset int) ([]entity.Entity, int64, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	out := make([]entity.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (m *mockEntityRepository) Update(e *entity.Entity) error {
	if _, ok := m.entities[e.ID]; !ok {
		return errors.New("record not found")
	}
	copied := *e
	m.entities[e.ID] = &copied
	return nil
}

func (m *mockEntityRepository) Delete(id int64) error {
	delete(m.entities, id)
	m.deleted = append(m.deleted, id)
	return nil
}

var _ = Describe("EntityService", func() {
	var (
		service  *entity.Service
		mockRepo *mockEntityRepository
	)

	validCreate := func() entity.CreateEntityDTO {
		return entity.CreateEntityDTO{
			NameAr: "الرئاسة العامة",
			NameEn: "General Presidency",
			Type:   entity.TypePresidency,
		}
	}

	BeforeEach(func() {
		mockRepo = newMockEntityRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = entity.NewService(mockRepo, logger)
	})

	Describe("CreateEntity", func() {
		It("creates an active entity with both localized names", func() {
			e, err := service.CreateEntity(validCreate())

			Expect(err).ToNot(HaveOccurred())
			Expect(e.ID).ToNot(BeZero())
			Expect(e.NameAr).To(Equal("الرئاسة العامة"))
			Expect(e.NameEn).To(Equal("General Presidency"))
			Expect(e.IsActive).To(BeTrue())
		})

		It("rejects an unknown entity type", func() {
			dto := validCreate()
			dto.Type = "consortium"

			_, err := service.CreateEntity(dto)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.entities).To(BeEmpty())
		})

		It("requires both names", func() {
			dto := validCreate()
			dto.NameAr = ""

			_, err := service.CreateEntity(dto)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.entities).To(BeEmpty())
		})
	})

	Describe("UpdateEntity", func() {
		var id int64

		BeforeEach(func() {
			e, err := service.CreateEntity(validCreate())
			Expect(err).ToNot(HaveOccurred())
			id = e.ID
		})

		It("patches only the supplied fields", func() {
			phone := "+966112345678"
			updated, err := service.UpdateEntity(id, entity.UpdateEntityDTO{ContactPhone: &phone})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.ContactPhone).To(Equal("+966112345678"))
			Expect(updated.NameEn).To(Equal("General Presidency"))
			Expect(updated.Type).To(Equal(entity.TypePresidency))
		})

		It("can deactivate without touching other fields", func() {
			active := false
			updated, err := service.UpdateEntity(id, entity.UpdateEntityDTO{IsActive: &active})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
			Expect(updated.NameAr).To(Equal("الرئاسة العامة"))
		})

		It("returns not found for an unknown entity", func() {
			name := "x"
			_, err := service.UpdateEntity(99, entity.UpdateEntityDTO{NameEn: &name})
			Expect(err).To(Equal(apperrors.ErrEntityNotFound))
		})
	})

	Describe("ListEntities", func() {
		It("translates page and limit into an offset", func() {
			_, _, err := service.ListEntities(entity.ListFilter{}, 3, 5)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastLimit).To(Equal(5))
			Expect(mockRepo.lastOffset).To(Equal(10))
		})

		It("defaults page and limit when out of range", func() {
			_, _, err := service.ListEntities(entity.ListFilter{}, 0, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastLimit).To(Equal(10))
			Expect(mockRepo.lastOffset).To(BeZero())
		})
	})

	Describe("DeleteEntity", func() {
		It("removes an existing entity", func() {
			e, err := service.CreateEntity(validCreate())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteEntity(e.ID)).To(Succeed())
			Expect(mockRepo.deleted).To(ContainElement(e.ID))
		})

		It("returns not found for an unknown entity", func() {
			Expect(service.DeleteEntity(99)).To(Equal(apperrors.ErrEntityNotFound))
		})
	})
})
