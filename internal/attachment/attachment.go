package attachment

import "time"

// Directions scope the on-disk subdirectory a file lands in. The
// direction comes from the upload request and is not required to match
// the owning correspondence's type.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Attachment rows can outlive their on-disk file: a missing file is a
// read-time NotFound, never a write-time failure.
type Attachment struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	CorrespondenceID int64     `gorm:"column:correspondence_id;not null" json:"correspondence_id"`
	FileName         string    `gorm:"column:file_name;size:255;not null" json:"file_name"`
	OriginalName     string    `gorm:"column:original_name;size:255;not null" json:"original_name"`
	FilePath         string    `gorm:"column:file_path;size:500;not null" json:"file_path"`
	FileSize         int64     `gorm:"column:file_size" json:"file_size"`
	MimeType         string    `gorm:"column:mime_type;size:100" json:"mime_type"`
	UploadedBy       int64     `gorm:"column:uploaded_by" json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// AllowedMimeTypes is the upload allow-list: PDF, legacy and OOXML
// Word, JPEG and PNG.
var AllowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg": {},
	"image/png":  {},
}

func MimeAllowed(mime string) bool {
	_, ok := AllowedMimeTypes[mime]
	return ok
}
