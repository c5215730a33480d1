package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/rating/model"
	"library-backend/internal/shared"
)

type pairKey struct {
	member uuid.UUID
	book   uuid.UUID
}

// fakeRatingRepo keeps one score per (member, book) pair
type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[pairKey]*model.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[pairKey]*model.Rating)}
}

func (f *fakeRatingRepo) Upsert(_ context.Context, rating *model.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *rating
	f.ratings[pairKey{rating.MemberID, rating.BookID}] = &copied
	return nil
}

func (f *fakeRatingRepo) GetByMemberAndBook(_ context.Context, memberID, bookID uuid.UUID) (*model.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rating, ok := f.ratings[pairKey{memberID, bookID}]
	if !ok {
		return nil, model.ErrRatingNotFound
	}
	copied := *rating
	return &copied, nil
}

func (f *fakeRatingRepo) MeanScore(_ context.Context, bookID uuid.UUID) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sum, n int
	for _, rating := range f.ratings {
		if rating.BookID == bookID {
			sum += rating.Score
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (f *fakeRatingRepo) ListByBook(_ context.Context, bookID uuid.UUID, _ shared.PageRequest) ([]*model.Rating, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ratings []*model.Rating
	for _, rating := range f.ratings {
		if rating.BookID == bookID {
			copied := *rating
			ratings = append(ratings, &copied)
		}
	}
	return ratings, len(ratings), nil
}

// fakeCatalogWriter records mean write-backs
type fakeCatalogWriter struct {
	mu    sync.Mutex
	means map[uuid.UUID]float64
}

func (f *fakeCatalogWriter) UpdateRating(_ context.Context, id uuid.UUID, mean float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.means == nil {
		f.means = make(map[uuid.UUID]float64)
	}
	f.means[id] = mean
	return nil
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, ...string) {}

func actor() shared.Actor {
	return shared.Actor{MemberID: uuid.New(), Role: shared.RoleUser}
}

func TestRateWritesMeanBack(t *testing.T) {
	repo := newFakeRatingRepo()
	catalog := &fakeCatalogWriter{}
	svc := NewRatingService(repo, catalog, noopInvalidator{})

	bookID := uuid.New()

	for _, score := range []int{3, 5, 4} {
		_, err := svc.Rate(context.Background(), actor(), bookID, model.RateRequest{Score: score})
		require.NoError(t, err)
	}

	assert.InDelta(t, 4.0, catalog.means[bookID], 1e-9)

	mean, err := svc.MeanScore(context.Background(), bookID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, mean, 1e-9)
}

func TestRateReplacesEarlierScore(t *testing.T) {
	repo := newFakeRatingRepo()
	catalog := &fakeCatalogWriter{}
	svc := NewRatingService(repo, catalog, noopInvalidator{})

	member := actor()
	bookID := uuid.New()

	_, err := svc.Rate(context.Background(), member, bookID, model.RateRequest{Score: 2})
	require.NoError(t, err)

	_, err = svc.Rate(context.Background(), member, bookID, model.RateRequest{Score: 5})
	require.NoError(t, err)

	ratings, total, err := svc.ListByBook(context.Background(), bookID, shared.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "rating again must not add a row")
	assert.Equal(t, 5, ratings[0].Score)

	assert.InDelta(t, 5.0, catalog.means[bookID], 1e-9)
}

func TestRateRejectsOutOfRangeScores(t *testing.T) {
	svc := NewRatingService(newFakeRatingRepo(), &fakeCatalogWriter{}, noopInvalidator{})

	for _, score := range []int{0, 6, -1} {
		_, err := svc.Rate(context.Background(), actor(), uuid.New(), model.RateRequest{Score: score})
		require.Error(t, err, "score %d", score)
	}
}

func TestMeanScoreWithNoRatings(t *testing.T) {
	svc := NewRatingService(newFakeRatingRepo(), &fakeCatalogWriter{}, noopInvalidator{})

	mean, err := svc.MeanScore(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, mean)
}
