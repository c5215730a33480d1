package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/shared"
)

// fakeBookRepo counts reads so cache hits are observable
type fakeBookRepo struct {
	mu     sync.Mutex
	books  map[uuid.UUID]*model.Book
	byISBN map[string]uuid.UUID
	reads  int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:  make(map[uuid.UUID]*model.Book),
		byISBN: make(map[string]uuid.UUID),
	}
}

func (f *fakeBookRepo) Create(_ context.Context, book *model.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byISBN[book.ISBN]; exists {
		return model.ErrISBNAlreadyExists
	}
	copied := *book
	f.books[book.ID] = &copied
	f.byISBN[book.ISBN] = book.ID
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	book, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

func (f *fakeBookRepo) GetByISBN(_ context.Context, isbn string) (*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byISBN[isbn]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	copied := *f.books[id]
	return &copied, nil
}

func (f *fakeBookRepo) Update(_ context.Context, book *model.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.books[book.ID]; !ok {
		return model.ErrBookNotFound
	}
	copied := *book
	f.books[book.ID] = &copied
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	delete(f.byISBN, book.ISBN)
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) List(_ context.Context, _ model.ListBooksFilter, _ shared.PageRequest) ([]*model.Book, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var books []*model.Book
	for _, book := range f.books {
		copied := *book
		books = append(books, &copied)
	}
	return books, len(books), nil
}

func (f *fakeBookRepo) ReserveCopy(context.Context, repository.DB, uuid.UUID) error {
	return nil
}

func (f *fakeBookRepo) ReleaseCopy(context.Context, repository.DB, uuid.UUID) error {
	return nil
}

func (f *fakeBookRepo) UpdateRating(_ context.Context, id uuid.UUID, mean float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	book.Rating = mean
	return nil
}

func (f *fakeBookRepo) UpdateCoverURL(_ context.Context, id uuid.UUID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	book.CoverURL = &url
	return nil
}

// memoryCache is a glob-aware in-memory cache.Cache
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, ...string) {}

// cacheInvalidator drives the real view key deletion through the cache
type cacheInvalidator struct {
	cache *memoryCache
}

func (c cacheInvalidator) Invalidate(ctx context.Context, views ...string) {
	for _, view := range views {
		_ = c.cache.DeletePattern(ctx, "view:"+view+"*")
	}
}

func createReq() model.CreateBookRequest {
	return model.CreateBookRequest{
		ISBN:        "978-0134190440",
		Title:       "The Go Programming Language",
		Author:      "Donovan & Kernighan",
		TotalCopies: 3,
	}
}

func TestCreateInitializesAvailability(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, newMemoryCache(), nil, nil, nil, noopInvalidator{})

	book, err := svc.Create(context.Background(), createReq())
	require.NoError(t, err)
	assert.Equal(t, 3, book.TotalCopies)
	assert.Equal(t, 3, book.AvailableCopies, "every copy starts on the shelf")
	assert.Zero(t, book.Rating)
}

func TestCreateRejectsDuplicateISBN(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, newMemoryCache(), nil, nil, nil, noopInvalidator{})

	_, err := svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createReq())
	require.ErrorIs(t, err, model.ErrISBNAlreadyExists)
}

func TestGetByIDReadsThroughCache(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, newMemoryCache(), nil, nil, nil, noopInvalidator{})

	book, err := svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	first, err := svc.GetByID(context.Background(), book.ID)
	require.NoError(t, err)

	second, err := svc.GetByID(context.Background(), book.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.reads, "second read must come from cache")
}

func TestUpdateInvalidatesCachedView(t *testing.T) {
	repo := newFakeBookRepo()
	cache := newMemoryCache()
	svc := NewBookService(repo, cache, nil, nil, nil, cacheInvalidator{cache})

	book, err := svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.reads)

	_, err = svc.Update(context.Background(), book.ID, model.UpdateBookRequest{
		Title:  "Renamed",
		Author: book.Author,
	})
	require.NoError(t, err)

	fresh, err := svc.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fresh.Title, "stale view must be dropped")
}

func TestGetByIDUnknownBook(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), newMemoryCache(), nil, nil, nil, noopInvalidator{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestUploadCoverWithoutStorage(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), newMemoryCache(), nil, nil, nil, noopInvalidator{})

	_, err := svc.UploadCover(context.Background(), uuid.New(), []byte("not used"), "image/jpeg")
	require.Error(t, err)
}
