package attachment

import (
	"io"
	"log/slog"
	"os"
	"path"

	errors "github.com/frahmantamala/correspondence-management/internal"
)

type Repository interface {
	Create(a *Attachment) error
	GetByID(id int64) (*Attachment, error)
	ListByCorrespondence(correspondenceID int64) ([]Attachment, error)
	Delete(id int64) error
}

// CorrespondenceChecker confirms the owning correspondence exists.
// Declared here so this package does not depend on the workflow
// package, which already depends on the attachment model.
type CorrespondenceChecker interface {
	CorrespondenceExists(id int64) (bool, error)
}

type UploadInput struct {
	CorrespondenceID int64
	Direction        string
	OriginalName     string
	MimeType         string
	Size             int64
	Content          io.Reader
	UploadedBy       int64
}

type Service struct {
	repo           Repository
	storage        Storage
	correspondence CorrespondenceChecker
	maxSize        int64
	logger         *slog.Logger
}

func NewService(repo Repository, storage Storage, correspondence CorrespondenceChecker, maxSize int64, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		storage:        storage,
		correspondence: correspondence,
		maxSize:        maxSize,
		logger:         logger,
	}
}

// Upload validates everything before the file touches disk, so a
// rejected upload leaves no partial state anywhere.
func (s *Service) Upload(in UploadInput) (*Attachment, error) {
	exists, err := s.correspondence.CorrespondenceExists(in.CorrespondenceID)
	if err != nil {
		return nil, errors.NewInternalError("failed to check correspondence", err)
	}
	if !exists {
		return nil, errors.ErrCorrespondenceNotFound
	}

	if in.Direction == "" {
		in.Direction = DirectionIncoming
	}
	if in.Direction != DirectionIncoming && in.Direction != DirectionOutgoing {
		return nil, errors.NewValidationError("direction must be incoming or outgoing", errors.ErrCodeValidationFailed)
	}
	if !MimeAllowed(in.MimeType) {
		return nil, errors.NewValidationError("file type not allowed", errors.ErrCodeUnsupportedFileType)
	}
	if in.Size > s.maxSize {
		return nil, errors.NewValidationError("file exceeds maximum upload size", errors.ErrCodeFileTooLarge)
	}

	fileName := GenerateFileName(in.OriginalName)
	relativePath := path.Join(in.Direction, fileName)

	written, err := s.storage.Save(relativePath, in.Content)
	if err != nil {
		return nil, errors.NewInternalError("failed to store file", err)
	}

	a := &Attachment{
		CorrespondenceID: in.CorrespondenceID,
		FileName:         fileName,
		OriginalName:     in.OriginalName,
		FilePath:         relativePath,
		FileSize:         written,
		MimeType:         in.MimeType,
		UploadedBy:       in.UploadedBy,
	}

	if err := s.repo.Create(a); err != nil {
		if rmErr := s.storage.Remove(relativePath); rmErr != nil {
			s.logger.Warn("failed to remove orphaned file", "path", relativePath, "error", rmErr)
		}
		return nil, errors.NewInternalError("failed to save attachment", err)
	}

	s.logger.Info("attachment uploaded",
		"attachment_id", a.ID,
		"correspondence_id", a.CorrespondenceID,
		"file_name", a.FileName,
		"size", a.FileSize)

	return a, nil
}

func (s *Service) Get(id int64) (*Attachment, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrAttachmentNotFound
	}
	return a, nil
}

func (s *Service) ListByCorrespondence(correspondenceID int64) ([]Attachment, error) {
	exists, err := s.correspondence.CorrespondenceExists(correspondenceID)
	if err != nil {
		return nil, errors.NewInternalError("failed to check correspondence", err)
	}
	if !exists {
		return nil, errors.ErrCorrespondenceNotFound
	}
	return s.repo.ListByCorrespondence(correspondenceID)
}

// OpenFile resolves the row and opens its payload. A row whose file is
// gone from disk is a FileNotFound, distinct from an unknown id.
func (s *Service) OpenFile(id int64) (*Attachment, io.ReadCloser, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, errors.ErrAttachmentNotFound
	}

	rc, err := s.storage.Open(a.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.ErrFileNotFound
		}
		return nil, nil, errors.NewInternalError("failed to open file", err)
	}
	return a, rc, nil
}

// Delete removes the row first; the on-disk file is cleaned up best
// effort and a failure there only logs.
func (s *Service) Delete(id int64) error {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return errors.ErrAttachmentNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return errors.NewInternalError("failed to delete attachment", err)
	}

	if err := s.storage.Remove(a.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove attachment file", "path", a.FilePath, "error", err)
	}
	return nil
}
