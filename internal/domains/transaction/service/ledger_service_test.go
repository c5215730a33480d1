package service

import (
	"context"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/transaction/model"
	"library-backend/internal/shared"
)

// fakeStore backs both the ledger repository and the catalog with one
// mutex, mirroring how the real implementations share a database.
type fakeStore struct {
	mu    sync.Mutex
	txns  map[uuid.UUID]*model.Transaction
	books map[uuid.UUID]*bookmodel.Book
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		txns:  make(map[uuid.UUID]*model.Transaction),
		books: make(map[uuid.UUID]*bookmodel.Book),
	}
}

func (f *fakeStore) addBook(total, available int) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.books[id] = &bookmodel.Book{
		ID:              id,
		Title:           "The Go Programming Language",
		Author:          "Donovan & Kernighan",
		TotalCopies:     total,
		AvailableCopies: available,
	}
	return id
}

func (f *fakeStore) addTxn(memberID, bookID uuid.UUID, status model.Status, dueAt *time.Time) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.txns[id] = &model.Transaction{
		ID:          id,
		MemberID:    memberID,
		BookID:      bookID,
		Status:      status,
		RequestedAt: time.Now(),
		DueAt:       dueAt,
	}
	return id
}

func (f *fakeStore) available(bookID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.books[bookID].AvailableCopies
}

// GetByID implements BookCatalog
func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

// The methods below implement repository.Repository.

func (f *fakeStore) Create(_ context.Context, txn *model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *txn
	f.txns[txn.ID] = &copied
	return nil
}

func (f *fakeStore) getTxn(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.txns[id]
	if !ok {
		return nil, model.ErrTransactionNotFound
	}
	copied := *txn
	return &copied, nil
}

func (f *fakeStore) HasOpenRequest(_ context.Context, memberID, bookID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, txn := range f.txns {
		if txn.MemberID == memberID && txn.BookID == bookID &&
			(txn.Status == model.StatusPending || txn.Status == model.StatusIssued) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.txns[id]
	if !ok {
		return model.ErrTransactionNotFound
	}
	if txn.Status != from {
		return model.ErrInvalidTransition
	}
	txn.Status = to
	return nil
}

func (f *fakeStore) Issue(_ context.Context, id uuid.UUID, issuedAt, dueAt time.Time) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.txns[id]
	if !ok {
		return nil, model.ErrTransactionNotFound
	}
	if txn.Status != model.StatusPending {
		return nil, model.ErrInvalidTransition
	}

	book := f.books[txn.BookID]
	if book.AvailableCopies <= 0 {
		return nil, bookmodel.ErrNoCopiesAvailable
	}

	book.AvailableCopies--
	txn.Status = model.StatusIssued
	txn.IssuedAt = &issuedAt
	txn.DueAt = &dueAt

	copied := *txn
	return &copied, nil
}

func (f *fakeStore) Return(_ context.Context, id uuid.UUID, returnedAt time.Time) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.txns[id]
	if !ok {
		return nil, model.ErrTransactionNotFound
	}
	if txn.Status != model.StatusIssued {
		return nil, model.ErrInvalidTransition
	}

	book := f.books[txn.BookID]
	if book.AvailableCopies >= book.TotalCopies {
		return nil, bookmodel.ErrAllCopiesOnShelf
	}

	book.AvailableCopies++
	txn.Status = model.StatusReturned
	txn.ReturnedAt = &returnedAt

	copied := *txn
	return &copied, nil
}

func (f *fakeStore) List(_ context.Context, filter model.ListFilter, _ shared.PageRequest) ([]*model.Detail, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var details []*model.Detail
	for _, txn := range f.txns {
		if filter.Status != "" && txn.Status != filter.Status {
			continue
		}
		if filter.MemberID != nil && txn.MemberID != *filter.MemberID {
			continue
		}
		details = append(details, f.detailLocked(txn))
	}
	return details, len(details), nil
}

func (f *fakeStore) ListByMember(ctx context.Context, memberID uuid.UUID, page shared.PageRequest) ([]*model.Detail, int, error) {
	return f.List(ctx, model.ListFilter{MemberID: &memberID}, page)
}

func (f *fakeStore) DueOn(_ context.Context, day time.Time) iter.Seq2[*model.Detail, error] {
	return func(yield func(*model.Detail, error) bool) {
		f.mu.Lock()
		var dues []*model.Detail
		for _, txn := range f.txns {
			if txn.Status != model.StatusIssued || txn.DueAt == nil {
				continue
			}
			y1, m1, d1 := txn.DueAt.Date()
			y2, m2, d2 := day.Date()
			if y1 == y2 && m1 == m2 && d1 == d2 {
				dues = append(dues, f.detailLocked(txn))
			}
		}
		f.mu.Unlock()

		for _, d := range dues {
			if !yield(d, nil) {
				return
			}
		}
	}
}

func (f *fakeStore) detailLocked(txn *model.Transaction) *model.Detail {
	copied := *txn
	d := &model.Detail{Transaction: copied}
	if book, ok := f.books[txn.BookID]; ok {
		d.BookTitle = book.Title
		d.BookAuthor = book.Author
	}
	return d
}

// recordingInvalidator captures invalidated views
type recordingInvalidator struct {
	mu    sync.Mutex
	views []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, views ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, views...)
}

// fakeRepo adapts fakeStore's getTxn to the repository method name
type fakeRepo struct {
	*fakeStore
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return f.getTxn(ctx, id)
}

func newTestService(store *fakeStore) (Service, *recordingInvalidator) {
	inv := &recordingInvalidator{}
	return NewLedgerService(&fakeRepo{store}, store, inv), inv
}

func memberActor() shared.Actor {
	return shared.Actor{MemberID: uuid.New(), Email: "member@example.com", Role: shared.RoleUser}
}

func adminActor() shared.Actor {
	return shared.Actor{MemberID: uuid.New(), Email: "admin@example.com", Role: shared.RoleAdmin}
}

func TestFullLifecycle(t *testing.T) {
	store := newFakeStore()
	svc, inv := newTestService(store)

	member := memberActor()
	admin := adminActor()
	bookID := store.addBook(2, 2)

	txn, err := svc.CreateRequest(context.Background(), member, model.CreateRequestRequest{BookID: bookID.String()})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, txn.Status)
	assert.Equal(t, 2, store.available(bookID), "request must not reserve a copy")

	issued, err := svc.Approve(context.Background(), admin, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIssued, issued.Status)
	require.NotNil(t, issued.IssuedAt)
	require.NotNil(t, issued.DueAt)
	assert.Equal(t, issued.IssuedAt.Add(LoanPeriod), *issued.DueAt)
	assert.Equal(t, 1, store.available(bookID), "approval reserves exactly one copy")

	returned, err := svc.Return(context.Background(), member, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)
	assert.Equal(t, 2, store.available(bookID), "return releases the copy")

	assert.Contains(t, inv.views, "/admin/transaction")
	assert.Contains(t, inv.views, "/home/mytransaction")
	assert.Contains(t, inv.views, "/books/"+bookID.String())
}

func TestCreateRequestWithNoCopies(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	bookID := store.addBook(1, 0)

	_, err := svc.CreateRequest(context.Background(), memberActor(), model.CreateRequestRequest{BookID: bookID.String()})
	require.ErrorIs(t, err, bookmodel.ErrNoCopiesAvailable)
}

func TestCreateRequestForUnknownBook(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	_, err := svc.CreateRequest(context.Background(), memberActor(), model.CreateRequestRequest{BookID: uuid.NewString()})
	require.ErrorIs(t, err, bookmodel.ErrBookNotFound)
}

func TestDuplicateOpenRequest(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	member := memberActor()
	bookID := store.addBook(3, 3)

	_, err := svc.CreateRequest(context.Background(), member, model.CreateRequestRequest{BookID: bookID.String()})
	require.NoError(t, err)

	_, err = svc.CreateRequest(context.Background(), member, model.CreateRequestRequest{BookID: bookID.String()})
	require.ErrorIs(t, err, model.ErrDuplicateRequest)
}

func TestApproveRequiresAdmin(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	member := memberActor()
	bookID := store.addBook(1, 1)
	txnID := store.addTxn(member.MemberID, bookID, model.StatusPending, nil)

	_, err := svc.Approve(context.Background(), member, txnID)
	require.ErrorIs(t, err, model.ErrForbidden)

	_, err = svc.Reject(context.Background(), member, txnID)
	require.ErrorIs(t, err, model.ErrForbidden)
}

func TestCancelOwnership(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	owner := memberActor()
	stranger := memberActor()
	bookID := store.addBook(1, 1)
	txnID := store.addTxn(owner.MemberID, bookID, model.StatusPending, nil)

	_, err := svc.Cancel(context.Background(), stranger, txnID)
	require.ErrorIs(t, err, model.ErrForbidden)

	cancelled, err := svc.Cancel(context.Background(), owner, txnID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

func TestAdminMayCancelAnyRequest(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	owner := memberActor()
	bookID := store.addBook(1, 1)
	txnID := store.addTxn(owner.MemberID, bookID, model.StatusPending, nil)

	cancelled, err := svc.Cancel(context.Background(), adminActor(), txnID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

func TestDoubleReturn(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	member := memberActor()
	bookID := store.addBook(1, 0)
	txnID := store.addTxn(member.MemberID, bookID, model.StatusIssued, nil)

	_, err := svc.Return(context.Background(), member, txnID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.available(bookID))

	_, err = svc.Return(context.Background(), member, txnID)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, 1, store.available(bookID), "copy count must not move twice")
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	member := memberActor()
	admin := adminActor()
	bookID := store.addBook(1, 1)

	for _, status := range []model.Status{model.StatusRejected, model.StatusCancelled, model.StatusReturned} {
		txnID := store.addTxn(member.MemberID, bookID, status, nil)

		_, err := svc.Approve(context.Background(), admin, txnID)
		require.ErrorIs(t, err, model.ErrInvalidTransition, "approve from %s", status)

		_, err = svc.Cancel(context.Background(), member, txnID)
		require.ErrorIs(t, err, model.ErrInvalidTransition, "cancel from %s", status)
	}
}

func TestConcurrentApprovalOfSameRequest(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	member := memberActor()
	admin := adminActor()
	bookID := store.addBook(5, 5)
	txnID := store.addTxn(member.MemberID, bookID, model.StatusPending, nil)

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), admin, txnID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins int
	for err := range errs {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, model.ErrInvalidTransition)
		}
	}

	assert.Equal(t, 1, wins, "exactly one approval may win")
	assert.Equal(t, 4, store.available(bookID), "exactly one copy reserved")
}

func TestConcurrentApprovalsForLastCopy(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	admin := adminActor()
	bookID := store.addBook(1, 1)

	txnA := store.addTxn(uuid.New(), bookID, model.StatusPending, nil)
	txnB := store.addTxn(uuid.New(), bookID, model.StatusPending, nil)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []uuid.UUID{txnA, txnB} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), admin, id)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, bookmodel.ErrNoCopiesAvailable)
			conflicts++
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 0, store.available(bookID), "count stays within bounds")
}

func TestDueTodayIsRestartable(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	bookID := store.addBook(5, 3)
	today := time.Now()
	tomorrow := today.AddDate(0, 0, 1)

	store.addTxn(uuid.New(), bookID, model.StatusIssued, &today)
	store.addTxn(uuid.New(), bookID, model.StatusIssued, &today)
	store.addTxn(uuid.New(), bookID, model.StatusIssued, &tomorrow)
	store.addTxn(uuid.New(), bookID, model.StatusPending, nil)

	seq := svc.DueToday(context.Background())

	count := func() int {
		n := 0
		for d, err := range seq {
			require.NoError(t, err)
			require.Equal(t, model.StatusIssued, d.Status)
			n++
		}
		return n
	}

	assert.Equal(t, 2, count())
	assert.Equal(t, 2, count(), "a second traversal sees the rows again")

	// A transaction issued between traversals shows up next time around
	store.addTxn(uuid.New(), bookID, model.StatusIssued, &today)
	assert.Equal(t, 3, count())
}

func TestGetByIDHidesOtherMembersTransactions(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	owner := memberActor()
	bookID := store.addBook(1, 1)
	txnID := store.addTxn(owner.MemberID, bookID, model.StatusPending, nil)

	_, err := svc.GetByID(context.Background(), memberActor(), txnID)
	require.ErrorIs(t, err, model.ErrForbidden)

	txn, err := svc.GetByID(context.Background(), owner, txnID)
	require.NoError(t, err)
	assert.Equal(t, txnID, txn.ID)

	txn, err = svc.GetByID(context.Background(), adminActor(), txnID)
	require.NoError(t, err)
	assert.Equal(t, txnID, txn.ID)
}
