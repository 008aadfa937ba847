package testhelpers

import (
	"context"
	"sync"

	"github.com/pageza/foodgram/backend/internal/service"
)

// TestPNG is a minimal payload that sniffs as image/png.
const TestPNG = "data:image/png;base64,iVBORw0KGgoAAAAAAAA="

// MemoryImageStore keeps images in memory.
type MemoryImageStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{Objects: map[string][]byte{}}
}

func (m *MemoryImageStore) Save(ctx context.Context, key string, img *service.Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "/media/" + key
	m.Objects[url] = img.Data
	return url, nil
}

func (m *MemoryImageStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}
