package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dto"
)

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestExtractImage(t *testing.T) {
	t.Parallel()

	blobs := NewBlobStore()
	ext := NewExtractor(blobs)
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}

	desc := ext.Extract(dto.FileUpload{
		Name:       "logo.png",
		MimeType:   "image/png",
		ContentB64: b64(payload),
	})

	require.Equal(t, "logo.png", desc.Name)
	require.Equal(t, int64(len(payload)), desc.SizeBytes)
	require.Empty(t, desc.Content)
	require.NotEmpty(t, desc.BlobRef)

	stored, ok := blobs.Get(desc.BlobRef)
	require.True(t, ok)
	require.Equal(t, payload, stored)
}

func TestExtractZipStaysInline(t *testing.T) {
	t.Parallel()

	ext := NewExtractor(NewBlobStore())
	// not valid utf-8, but archives keep their raw bytes anyway
	payload := []byte{'P', 'K', 0x03, 0x04, 0xff, 0xfe}

	desc := ext.Extract(dto.FileUpload{
		Name:       "project.zip",
		MimeType:   "application/zip",
		ContentB64: b64(payload),
	})

	require.Equal(t, string(payload), desc.Content)
	require.Empty(t, desc.BlobRef)
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	ext := NewExtractor(NewBlobStore())

	desc := ext.Extract(dto.FileUpload{
		Name:       "main.go",
		MimeType:   "text/plain",
		ContentB64: b64([]byte("package main\n")),
	})

	require.Equal(t, "package main\n", desc.Content)
	require.Empty(t, desc.BlobRef)
}

func TestExtractDegradesToMetadata(t *testing.T) {
	t.Parallel()

	ext := NewExtractor(NewBlobStore())

	t.Run("invalid base64", func(t *testing.T) {
		t.Parallel()

		desc := ext.Extract(dto.FileUpload{
			Name:       "broken.bin",
			MimeType:   "application/octet-stream",
			SizeBytes:  42,
			ContentB64: "!!!not base64!!!",
		})

		require.Equal(t, "broken.bin", desc.Name)
		require.Equal(t, int64(42), desc.SizeBytes)
		require.Empty(t, desc.Content)
		require.Empty(t, desc.BlobRef)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		t.Parallel()

		desc := ext.Extract(dto.FileUpload{
			Name:       "raw.bin",
			MimeType:   "application/octet-stream",
			ContentB64: b64([]byte{0xff, 0xfe, 0xfd}),
		})

		require.Equal(t, "raw.bin", desc.Name)
		require.Empty(t, desc.Content)
		require.Empty(t, desc.BlobRef)
	})
}

func TestExtractAllKeepsOrder(t *testing.T) {
	t.Parallel()

	ext := NewExtractor(NewBlobStore())

	descs := ext.ExtractAll([]dto.FileUpload{
		{Name: "a.txt", MimeType: "text/plain", ContentB64: b64([]byte("a"))},
		{Name: "b.txt", MimeType: "text/plain", ContentB64: b64([]byte("b"))},
	})

	require.Len(t, descs, 2)
	require.Equal(t, "a.txt", descs[0].Name)
	require.Equal(t, "b.txt", descs[1].Name)

	require.Nil(t, ext.ExtractAll(nil))
}

func TestBlobStoreRelease(t *testing.T) {
	t.Parallel()

	blobs := NewBlobStore()
	ref := blobs.Put([]byte("payload"))

	_, ok := blobs.Get(ref)
	require.True(t, ok)

	blobs.Release(ref)
	_, ok = blobs.Get(ref)
	require.False(t, ok)
}
