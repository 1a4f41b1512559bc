package fileref

import (
	"fmt"
	"strings"
	"time"
)

// FileRef is an opaque pointer to an already-uploaded file. The API never
// touches the bytes; it only checks the declared metadata.
type FileRef struct {
	URL        string    `bson:"url" json:"url" binding:"required"`
	FileName   string    `bson:"fileName" json:"fileName" binding:"required"`
	FileSize   int64     `bson:"fileSize,omitempty" json:"fileSize,omitempty"`
	MimeType   string    `bson:"mimeType,omitempty" json:"mimeType,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Constraints bounds a list of file references.
type Constraints struct {
	MaxCount     int
	MaxSize      int64 // per file, bytes; 0 disables the check
	AllowedMimes []string
}

var (
	// ImageConstraints applies to review images.
	ImageConstraints = Constraints{
		MaxCount:     5,
		MaxSize:      10 * 1024 * 1024,
		AllowedMimes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}

	// EvidenceConstraints applies to report evidence attachments.
	EvidenceConstraints = Constraints{
		MaxCount: 10,
		MaxSize:  25 * 1024 * 1024,
		AllowedMimes: []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"application/pdf", "video/mp4",
		},
	}
)

// Validate checks a list of references against the constraints. The URL must
// look like a link; everything else is declared metadata.
func Validate(refs []FileRef, c Constraints) error {
	if len(refs) > c.MaxCount {
		return fmt.Errorf("too many files: %d (maximum %d)", len(refs), c.MaxCount)
	}

	for i, ref := range refs {
		if strings.TrimSpace(ref.URL) == "" {
			return fmt.Errorf("file %d: url is required", i+1)
		}
		if !strings.HasPrefix(ref.URL, "http://") && !strings.HasPrefix(ref.URL, "https://") {
			return fmt.Errorf("file %d: url must be http(s)", i+1)
		}
		if strings.TrimSpace(ref.FileName) == "" {
			return fmt.Errorf("file %d: fileName is required", i+1)
		}
		if c.MaxSize > 0 && ref.FileSize > c.MaxSize {
			return fmt.Errorf("file %d: size %d exceeds maximum %d bytes", i+1, ref.FileSize, c.MaxSize)
		}
		if ref.MimeType != "" && len(c.AllowedMimes) > 0 && !mimeAllowed(ref.MimeType, c.AllowedMimes) {
			return fmt.Errorf("file %d: mime type %q not allowed", i+1, ref.MimeType)
		}
	}

	return nil
}

// Stamp fills UploadedAt on refs that came in without one.
func Stamp(refs []FileRef, now time.Time) {
	for i := range refs {
		if refs[i].UploadedAt.IsZero() {
			refs[i].UploadedAt = now
		}
	}
}

func mimeAllowed(mime string, allowed []string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, a := range allowed {
		if mime == a {
			return true
		}
	}
	return false
}
