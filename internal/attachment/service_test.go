package attachment_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/attachment"
)

// Mock repository for testing
type mockAttachmentRepository struct {
	attachments map[int64]*attachment.Attachment
	createError error
	nextID      int64
}

func newMockAttachmentRepository() *mockAttachmentRepository {
	return &mockAttachmentRepository{
		attachments: make(map[int64]*attachment.Attachment),
		nextID:      1,
	}
}

func (m *mockAttachmentRepository) Create(a *attachment.Attachment) error {
	if m.createError != nil {
		return m.createError
	}
	a.ID = m.nextID
	m.nextID++
	m.attachments[a.ID] = a
	return nil
}

func (m *mockAttachmentRepository) GetByID(id int64) (*attachment.Attachment, error) {
	a, exists := m.attachments[id]
	if !exists {
		return nil, errors.New("record not found")
	}
	return a, nil
}

func (m *mockAttachmentRepository) ListByCorrespondence(correspondenceID int64) ([]attachment.Attachment, error) {
	var out []attachment.Attachment
	for _, a := range m.attachments {
		if a.CorrespondenceID == correspondenceID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAttachmentRepository) Delete(id int64) error {
	delete(m.attachments, id)
	return nil
}

// In-memory storage recording every write so tests can assert that a
// rejected upload never reached it.
type memoryStorage struct {
	files     map[string][]byte
	saveCalls int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte)}
}

func (s *memoryStorage) Save(relativePath string, src io.Reader) (int64, error) {
	s.saveCalls++
	data, err := io.ReadAll(src)
	if err != nil {
		return 0, err
	}
	s.files[relativePath] = data
	return int64(len(data)), nil
}

func (s *memoryStorage) Open(relativePath string) (io.ReadCloser, error) {
	data, exists := s.files[relativePath]
	if !exists {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Remove(relativePath string) error {
	if _, exists := s.files[relativePath]; !exists {
		return os.ErrNotExist
	}
	delete(s.files, relativePath)
	return nil
}

type mockChecker struct {
	existing map[int64]bool
}

func (m *mockChecker) CorrespondenceExists(id int64) (bool, error) {
	return m.existing[id], nil
}

var _ = Describe("AttachmentService", func() {
	var (
		service *attachment.Service
		repo    *mockAttachmentRepository
		storage *memoryStorage
		checker *mockChecker
	)

	const maxSize = 10 << 20

	upload := func(mutate func(*attachment.UploadInput)) (*attachment.Attachment, error) {
		in := attachment.UploadInput{
			CorrespondenceID: 1,
			Direction:        attachment.DirectionIncoming,
			OriginalName:     "خطاب.pdf",
			MimeType:         "application/pdf",
			Size:             1024,
			Content:          strings.NewReader("pdf bytes"),
			UploadedBy:       7,
		}
		if mutate != nil {
			mutate(&in)
		}
		return service.Upload(in)
	}

	BeforeEach(func() {
		repo = newMockAttachmentRepository()
		storage = newMemoryStorage()
		checker = &mockChecker{existing: map[int64]bool{1: true}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = attachment.NewService(repo, storage, checker, maxSize, logger)
	})

	Describe("Upload", func() {
		It("stores the file under the direction directory", func() {
			a, err := upload(nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(a.FilePath).To(HavePrefix("incoming/"))
			Expect(a.OriginalName).To(Equal("خطاب.pdf"))
			Expect(a.FileName).To(HaveSuffix(".pdf"))
			Expect(a.FileSize).To(Equal(int64(len("pdf bytes"))))
			Expect(storage.files).To(HaveKey(a.FilePath))
		})

		It("rejects a disallowed mime type before any write", func() {
			_, err := upload(func(in *attachment.UploadInput) {
				in.MimeType = "application/zip"
			})

			Expect(err).To(HaveOccurred())
			Expect(storage.saveCalls).To(BeZero())
			Expect(repo.attachments).To(BeEmpty())
		})

		It("rejects an oversized file before any write", func() {
			_, err := upload(func(in *attachment.UploadInput) {
				in.Size = maxSize + 1
			})

			Expect(err).To(HaveOccurred())
			Expect(storage.saveCalls).To(BeZero())
		})

		It("rejects an unknown direction", func() {
			_, err := upload(func(in *attachment.UploadInput) {
				in.Direction = "lateral"
			})

			Expect(err).To(HaveOccurred())
			Expect(storage.saveCalls).To(BeZero())
		})

		It("defaults an omitted direction to incoming", func() {
			a, err := upload(func(in *attachment.UploadInput) {
				in.Direction = ""
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(a.FilePath).To(HavePrefix("incoming/"))
			Expect(storage.files).To(HaveKey(a.FilePath))
		})

		It("rejects an unknown correspondence", func() {
			_, err := upload(func(in *attachment.UploadInput) {
				in.CorrespondenceID = 99
			})

			Expect(err).To(Equal(apperrors.ErrCorrespondenceNotFound))
			Expect(storage.saveCalls).To(BeZero())
		})

		It("removes the file when the row insert fails", func() {
			repo.createError = errors.New("insert failed")

			_, err := upload(nil)

			Expect(err).To(HaveOccurred())
			Expect(storage.files).To(BeEmpty())
		})
	})

	Describe("OpenFile", func() {
		It("distinguishes a missing row from a missing file", func() {
			a, err := upload(nil)
			Expect(err).ToNot(HaveOccurred())

			_, _, err = service.OpenFile(9999)
			Expect(err).To(Equal(apperrors.ErrAttachmentNotFound))

			delete(storage.files, a.FilePath)
			_, _, err = service.OpenFile(a.ID)
			Expect(err).To(Equal(apperrors.ErrFileNotFound))
		})

		It("streams the stored payload", func() {
			a, err := upload(nil)
			Expect(err).ToNot(HaveOccurred())

			row, rc, err := service.OpenFile(a.ID)
			Expect(err).ToNot(HaveOccurred())
			defer rc.Close()

			Expect(row.MimeType).To(Equal("application/pdf"))
			data, err := io.ReadAll(rc)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("pdf bytes"))
		})
	})

	Describe("Delete", func() {
		It("removes row and file", func() {
			a, err := upload(nil)
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(a.ID)).To(Succeed())
			Expect(repo.attachments).To(BeEmpty())
			Expect(storage.files).To(BeEmpty())
		})

		It("succeeds even when the file is already gone", func() {
			a, err := upload(nil)
			Expect(err).ToNot(HaveOccurred())
			delete(storage.files, a.FilePath)

			Expect(service.Delete(a.ID)).To(Succeed())
			Expect(repo.attachments).To(BeEmpty())
		})
	})
})
