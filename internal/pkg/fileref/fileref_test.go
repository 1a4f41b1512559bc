package fileref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ref(url string) FileRef {
	return FileRef{URL: url, FileName: "shot.png", MimeType: "image/png", FileSize: 1024}
}

func TestValidateCountLimit(t *testing.T) {
	refs := make([]FileRef, 6)
	for i := range refs {
		refs[i] = ref("https://cdn.example.com/a.png")
	}
	err := Validate(refs, ImageConstraints)
	require.Error(t, err)
	require.Contains(t, err.Error(), "too many files")

	require.NoError(t, Validate(refs[:5], ImageConstraints))
}

func TestValidateRejectsBadURLAndMime(t *testing.T) {
	bad := ref("ftp://cdn.example.com/a.png")
	require.Error(t, Validate([]FileRef{bad}, ImageConstraints))

	exe := ref("https://cdn.example.com/a.exe")
	exe.MimeType = "application/x-msdownload"
	require.Error(t, Validate([]FileRef{exe}, EvidenceConstraints))

	pdf := ref("https://cdn.example.com/invoice.pdf")
	pdf.MimeType = "application/pdf"
	require.NoError(t, Validate([]FileRef{pdf}, EvidenceConstraints))
	require.Error(t, Validate([]FileRef{pdf}, ImageConstraints))
}

func TestValidateSizeLimit(t *testing.T) {
	big := ref("https://cdn.example.com/a.png")
	big.FileSize = ImageConstraints.MaxSize + 1
	require.Error(t, Validate([]FileRef{big}, ImageConstraints))
}

func TestStampFillsMissingTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	already := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	refs := []FileRef{ref("https://a"), {URL: "https://b", FileName: "b", UploadedAt: already}}
	Stamp(refs, now)

	require.Equal(t, now, refs[0].UploadedAt)
	require.Equal(t, already, refs[1].UploadedAt)
}
