package service

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/transaction/model"
	"library-backend/internal/domains/transaction/repository"
	"library-backend/internal/shared"
)

// LoanPeriod is how long an issued book stays out before it is due
const LoanPeriod = 14 * 24 * time.Hour

const (
	adminTransactionsView = "/admin/transaction"
	myTransactionsView    = "/home/mytransaction"
)

// ledgerService implements Service
type ledgerService struct {
	repo        repository.Repository
	books       BookCatalog
	invalidator ViewInvalidator
	now         func() time.Time
}

// NewLedgerService wires the request orchestrator
func NewLedgerService(repo repository.Repository, books BookCatalog, invalidator ViewInvalidator) Service {
	return &ledgerService{
		repo:        repo,
		books:       books,
		invalidator: invalidator,
		now:         time.Now,
	}
}

func (s *ledgerService) CreateRequest(ctx context.Context, actor shared.Actor, req model.CreateRequestRequest) (*model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return nil, bookmodel.ErrBookNotFound
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.HasAvailableCopy() {
		return nil, bookmodel.ErrNoCopiesAvailable
	}

	// One open request per member per book
	open, err := s.repo.HasOpenRequest(ctx, actor.MemberID, bookID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, model.ErrDuplicateRequest
	}

	now := s.now()
	txn := &model.Transaction{
		ID:          uuid.New(),
		MemberID:    actor.MemberID,
		BookID:      bookID,
		Status:      model.StatusPending,
		RequestedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("member_id", actor.MemberID.String()).
		Str("book_id", bookID.String()).
		Msg("borrow request opened")

	s.invalidate(ctx, txn)
	return txn, nil
}

func (s *ledgerService) Approve(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.authorize(ctx, actor, id, model.StatusIssued)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now()
	dueAt := issuedAt.Add(LoanPeriod)

	issued, err := s.repo.Issue(ctx, txn.ID, issuedAt, dueAt)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("admin_id", actor.MemberID.String()).
		Time("due_at", dueAt).
		Msg("borrow request approved")

	s.invalidate(ctx, issued)
	return issued, nil
}

func (s *ledgerService) Reject(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error) {
	return s.simpleTransition(ctx, actor, id, model.StatusRejected, "borrow request rejected")
}

func (s *ledgerService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error) {
	return s.simpleTransition(ctx, actor, id, model.StatusCancelled, "borrow request cancelled")
}

func (s *ledgerService) Return(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.authorize(ctx, actor, id, model.StatusReturned)
	if err != nil {
		return nil, err
	}

	returned, err := s.repo.Return(ctx, txn.ID, s.now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("actor_id", actor.MemberID.String()).
		Msg("book returned")

	s.invalidate(ctx, returned)
	return returned, nil
}

// simpleTransition covers the single-table moves (reject, cancel) where
// no copy count changes.
func (s *ledgerService) simpleTransition(ctx context.Context, actor shared.Actor, id uuid.UUID, to model.Status, event string) (*model.Transaction, error) {
	txn, err := s.authorize(ctx, actor, id, to)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, txn.ID, txn.Status, to); err != nil {
		return nil, err
	}

	txn.Status = to
	txn.UpdatedAt = s.now()

	log.Info().
		Str("transaction_id", id.String()).
		Str("actor_id", actor.MemberID.String()).
		Str("status", string(to)).
		Msg(event)

	s.invalidate(ctx, txn)
	return txn, nil
}

// authorize loads the transaction and checks, in order, the actor's
// authority over the transition and then the lifecycle edge itself.
// Authority failures surface as Forbidden even when the edge would also
// have been invalid.
func (s *ledgerService) authorize(ctx context.Context, actor shared.Actor, id uuid.UUID, to model.Status) (*model.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch to {
	case model.StatusIssued, model.StatusRejected:
		// Approval and rejection are staff decisions
		if !actor.IsAdmin() {
			return nil, model.ErrForbidden
		}
	case model.StatusCancelled, model.StatusReturned:
		if !actor.IsAdmin() && txn.MemberID != actor.MemberID {
			return nil, model.ErrForbidden
		}
	default:
		return nil, fmt.Errorf("unsupported target status %q", to)
	}

	if !txn.Status.CanTransitionTo(to) {
		return nil, model.ErrInvalidTransition
	}

	return txn, nil
}

func (s *ledgerService) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && txn.MemberID != actor.MemberID {
		return nil, model.ErrForbidden
	}
	return txn, nil
}

func (s *ledgerService) List(ctx context.Context, filter model.ListFilter, page shared.PageRequest) ([]*model.Detail, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter, page)
}

func (s *ledgerService) ListMine(ctx context.Context, actor shared.Actor, page shared.PageRequest) ([]*model.Detail, int, error) {
	return s.repo.ListByMember(ctx, actor.MemberID, page)
}

func (s *ledgerService) DueToday(ctx context.Context) iter.Seq2[*model.Detail, error] {
	return s.repo.DueOn(ctx, s.now())
}

// invalidate refreshes the views a lifecycle change is visible on
func (s *ledgerService) invalidate(ctx context.Context, txn *model.Transaction) {
	s.invalidator.Invalidate(ctx,
		adminTransactionsView,
		myTransactionsView,
		"/books/"+txn.BookID.String(),
	)
}
