package role_test

import (
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/role"
)

// Mock repository for testing
type mockRoleRepository struct {
	roles       map[int64]*role.Role
	permissions []role.Permission
	userCounts  map[int64]int64
	countError  error
	deleted     []int64
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{
		roles:      make(map[int64]*role.Role),
		userCounts: make(map[int64]int64),
	}
}

func (m *mockRoleRepository) ListRoles() ([]role.Role, error) {
	out := make([]role.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRoleRepository) GetRoleByID(id int64) (*role.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return r, nil
}

func (m *mockRoleRepository) ListPermissions() ([]role.Permission, error) {
	return m.permissions, nil
}

func (m *mockRoleRepository) CountUsersWithRole(roleID int64) (int64, error) {
	if m.countError != nil {
		return 0, m.countError
	}
	return m.userCounts[roleID], nil
}

func (m *mockRoleRepository) DeleteRole(id int64) error {
	delete(m.roles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

var _ = Describe("RoleService", func() {
	var (
		service  *role.Service
		mockRepo *mockRoleRepository
	)

	BeforeEach(func() {
		mockRepo = newMockRoleRepository()
		mockRepo.roles[1] = &role.Role{ID: 1, Name: "admin", NameAr: "مدير النظام"}
		mockRepo.roles[2] = &role.Role{ID: 2, Name: "viewer", NameAr: "مشاهد"}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = role.NewService(mockRepo, logger)
	})

	Describe("GetRole", func() {
		It("returns the role with its localized name", func() {
			r, err := service.GetRole(1)
			Expect(err).ToNot(HaveOccurred())
			Expect(r.Name).To(Equal("admin"))
			Expect(r.NameAr).To(Equal("مدير النظام"))
		})

		It("maps a missing row to not found", func() {
			_, err := service.GetRole(99)
			Expect(err).To(Equal(apperrors.ErrRoleNotFound))
		})
	})

	Describe("DeleteRole", func() {
		It("deletes an unreferenced role", func() {
			Expect(service.DeleteRole(2)).To(Succeed())
			Expect(mockRepo.deleted).To(ContainElement(int64(2)))
		})

		It("refuses to delete a role users still reference", func() {
			mockRepo.userCounts[1] = 3

			err := service.DeleteRole(1)

			Expect(err).To(Equal(apperrors.ErrRoleInUse))
			Expect(mockRepo.roles).To(HaveKey(int64(1)))
			Expect(mockRepo.deleted).To(BeEmpty())
		})

		It("returns not found for an unknown role", func() {
			Expect(service.DeleteRole(99)).To(Equal(apperrors.ErrRoleNotFound))
		})

		It("does not delete when the reference count cannot be read", func() {
			mockRepo.countError = errors.New("db gone")

			err := service.DeleteRole(2)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.deleted).To(BeEmpty())
		})
	})

	Describe("ListPermissions", func() {
		It("returns the catalog", func() {
			mockRepo.permissions = []role.Permission{
				{ID: 1, Name: "correspondence:read", Resource: "correspondence", Action: "read"},
			}

			perms, err := service.ListPermissions()
			Expect(err).ToNot(HaveOccurred())
			Expect(perms).To(HaveLen(1))
			Expect(perms[0].Resource).To(Equal("correspondence"))
			Expect(perms[0].Action).To(Equal("read"))
		})
	})
})
