package service

import (
	"sync"

	"github.com/google/uuid"
)

const blobRefPrefix = "blob:"

// BlobStore holds binary attachment payloads in process memory so image
// bytes never travel through the text pipeline. Callers must Release a ref
// once the attachment is no longer displayed.
type BlobStore struct {
	blobs sync.Map
}

func NewBlobStore() *BlobStore {
	return &BlobStore{}
}

// Put stores the payload and returns an opaque reference.
func (b *BlobStore) Put(data []byte) string {
	ref := blobRefPrefix + uuid.New().String()
	b.blobs.Store(ref, data)
	return ref
}

// Get returns the payload for a reference.
func (b *BlobStore) Get(ref string) ([]byte, bool) {
	raw, ok := b.blobs.Load(ref)
	if !ok {
		return nil, false
	}

	return raw.([]byte), true
}

// Release frees the payload behind the reference. Releasing an unknown or
// already-released ref is a no-op.
func (b *BlobStore) Release(ref string) {
	b.blobs.Delete(ref)
}
