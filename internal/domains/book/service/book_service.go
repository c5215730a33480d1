package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/shared"
	"library-backend/pkg/cache"
)

const bookDetailTTL = 10 * time.Minute

// bookService implements Service
type bookService struct {
	repo        repository.Repository
	cache       cache.Cache
	storage     CoverStorage
	images      CoverValidator
	queue       TaskEnqueuer
	invalidator ViewInvalidator
}

// NewBookService wires the catalog service. storage/queue may be nil in
// deployments without object storage; cover uploads then fail cleanly.
func NewBookService(
	repo repository.Repository,
	c cache.Cache,
	storage CoverStorage,
	images CoverValidator,
	queue TaskEnqueuer,
	invalidator ViewInvalidator,
) Service {
	return &bookService{
		repo:        repo,
		cache:       c,
		storage:     storage,
		images:      images,
		queue:       queue,
		invalidator: invalidator,
	}
}

func (s *bookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Business rule: ISBN unique across the catalog
	if _, err := s.repo.GetByISBN(ctx, req.ISBN); err == nil {
		return nil, model.ErrISBNAlreadyExists
	} else if !errors.Is(err, model.ErrBookNotFound) {
		return nil, fmt.Errorf("check isbn: %w", err)
	}

	now := time.Now()
	book := &model.Book{
		ID:              uuid.New(),
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		Genre:           req.Genre,
		Price:           req.Price,
		Pages:           req.Pages,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies, // every copy starts on the shelf
		Rating:          0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, "/books")
	return book, nil
}

// GetByID reads through the cache; a miss hits the database and
// repopulates the view entry.
func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	key := bookViewKey(id)

	var cached model.Book
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, book, bookDetailTTL); err != nil {
		log.Warn().Err(err).Str("book_id", id.String()).Msg("book cache set failed")
	}

	return book, nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Title = req.Title
	book.Author = req.Author
	book.Publisher = req.Publisher
	book.Genre = req.Genre
	book.Price = req.Price
	book.Pages = req.Pages

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, "/books", bookViewPath(id))
	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.DeleteByPrefix(ctx, coverPrefix(id)); err != nil {
			log.Warn().Err(err).Str("book_id", id.String()).Msg("cover cleanup failed")
		}
	}

	s.invalidator.Invalidate(ctx, "/books", bookViewPath(id))
	return nil
}

func (s *bookService) List(ctx context.Context, filter model.ListBooksFilter, page shared.PageRequest) ([]*model.Book, int, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *bookService) UploadCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	if err := s.images.ValidateImage(data); err != nil {
		return "", err
	}

	// Existence check before paying for the upload
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", err
	}

	key := coverPrefix(id) + "original.jpg"
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateCoverURL(ctx, id, url); err != nil {
		return "", err
	}

	// Variant generation happens off-request in the worker
	if s.queue != nil {
		payload, err := json.Marshal(shared.ProcessCoverPayload{
			BookID:    id.String(),
			ObjectKey: key,
		})
		if err != nil {
			return "", fmt.Errorf("marshal cover task: %w", err)
		}

		task := asynq.NewTask(shared.TypeProcessBookCover, payload)
		if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue("low")); err != nil {
			log.Warn().Err(err).Str("book_id", id.String()).Msg("cover task enqueue failed")
		}
	}

	s.invalidator.Invalidate(ctx, bookViewPath(id))
	return url, nil
}

func bookViewPath(id uuid.UUID) string {
	return "/books/" + id.String()
}

func bookViewKey(id uuid.UUID) string {
	return "view:" + bookViewPath(id)
}

func coverPrefix(id uuid.UUID) string {
	return fmt.Sprintf("covers/%s/", id)
}
