package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/wishlist/model"
	"library-backend/internal/shared"
)

type pairKey struct {
	member uuid.UUID
	book   uuid.UUID
}

// fakeWishlistRepo enforces pair uniqueness like the database constraint
type fakeWishlistRepo struct {
	mu    sync.Mutex
	items map[pairKey]*model.Item
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{items: make(map[pairKey]*model.Item)}
}

func (f *fakeWishlistRepo) Add(_ context.Context, item *model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey{item.MemberID, item.BookID}
	if _, exists := f.items[key]; exists {
		return model.ErrAlreadyInWishlist
	}
	copied := *item
	f.items[key] = &copied
	return nil
}

func (f *fakeWishlistRepo) Remove(_ context.Context, memberID, bookID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey{memberID, bookID}
	if _, exists := f.items[key]; !exists {
		return model.ErrNotInWishlist
	}
	delete(f.items, key)
	return nil
}

func (f *fakeWishlistRepo) Has(_ context.Context, memberID, bookID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, exists := f.items[pairKey{memberID, bookID}]
	return exists, nil
}

func (f *fakeWishlistRepo) ListByMember(_ context.Context, memberID uuid.UUID, _ shared.PageRequest) ([]*model.Detail, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var details []*model.Detail
	for _, item := range f.items {
		if item.MemberID == memberID {
			details = append(details, &model.Detail{Item: *item})
		}
	}
	return details, len(details), nil
}

func actor() shared.Actor {
	return shared.Actor{MemberID: uuid.New(), Role: shared.RoleUser}
}

func TestWishlistRoundTrip(t *testing.T) {
	svc := NewWishlistService(newFakeWishlistRepo())

	member := actor()
	bookID := uuid.New()

	has, err := svc.Has(context.Background(), member, bookID)
	require.NoError(t, err)
	assert.False(t, has)

	item, err := svc.Add(context.Background(), member, bookID)
	require.NoError(t, err)
	assert.Equal(t, member.MemberID, item.MemberID)
	assert.Equal(t, bookID, item.BookID)

	has, err = svc.Has(context.Background(), member, bookID)
	require.NoError(t, err)
	assert.True(t, has)

	items, total, err := svc.ListMine(context.Background(), member, shared.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Remove(context.Background(), member, bookID))

	has, err = svc.Has(context.Background(), member, bookID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAddTwiceConflicts(t *testing.T) {
	svc := NewWishlistService(newFakeWishlistRepo())

	member := actor()
	bookID := uuid.New()

	_, err := svc.Add(context.Background(), member, bookID)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), member, bookID)
	require.ErrorIs(t, err, model.ErrAlreadyInWishlist)
}

func TestRemoveMissingItem(t *testing.T) {
	svc := NewWishlistService(newFakeWishlistRepo())

	err := svc.Remove(context.Background(), actor(), uuid.New())
	require.ErrorIs(t, err, model.ErrNotInWishlist)
}

func TestWishlistsAreIsolatedPerMember(t *testing.T) {
	svc := NewWishlistService(newFakeWishlistRepo())

	alice := actor()
	bob := actor()
	bookID := uuid.New()

	_, err := svc.Add(context.Background(), alice, bookID)
	require.NoError(t, err)

	// Bob pinning the same book is not a conflict
	_, err = svc.Add(context.Background(), bob, bookID)
	require.NoError(t, err)

	has, err := svc.Has(context.Background(), bob, bookID)
	require.NoError(t, err)
	assert.True(t, has)
}
