package service

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dto"
)

// Extractor normalizes raw uploads into file descriptors. It never fails:
// when the payload cannot be recovered the descriptor degrades to
// name/type/size only.
type Extractor struct {
	blobs *BlobStore
}

func NewExtractor(blobs *BlobStore) *Extractor {
	return &Extractor{blobs: blobs}
}

// Extract normalizes one upload.
//
// Images become blob references so large binary payloads stay out of the
// text pipeline. Zip archives keep their raw bytes inline as opaque text
// for later stages (extraction itself is a downstream concern). Everything
// else is inlined when it decodes to valid UTF-8.
func (e *Extractor) Extract(up dto.FileUpload) dto.FileDescriptor {
	desc := dto.FileDescriptor{
		Name:      up.Name,
		MimeType:  up.MimeType,
		SizeBytes: up.SizeBytes,
	}

	data, err := base64.StdEncoding.DecodeString(up.ContentB64)
	if err != nil {
		// metadata must survive even when the payload doesn't
		return desc
	}
	if desc.SizeBytes == 0 {
		desc.SizeBytes = int64(len(data))
	}

	switch {
	case strings.HasPrefix(up.MimeType, "image/"):
		desc.BlobRef = e.blobs.Put(data)
	case isZipUpload(up):
		desc.Content = string(data)
	case utf8.Valid(data):
		desc.Content = string(data)
	}

	return desc
}

// ExtractAll normalizes every upload in order.
func (e *Extractor) ExtractAll(ups []dto.FileUpload) []dto.FileDescriptor {
	if len(ups) == 0 {
		return nil
	}

	descs := make([]dto.FileDescriptor, 0, len(ups))
	for _, up := range ups {
		descs = append(descs, e.Extract(up))
	}

	return descs
}

func isZipUpload(up dto.FileUpload) bool {
	return strings.HasSuffix(strings.ToLower(up.Name), ".zip") ||
		strings.Contains(strings.ToLower(up.MimeType), "zip")
}
