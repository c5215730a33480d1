package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/transaction/model"
	"library-backend/internal/domains/transaction/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// TransactionHandler exposes the request lifecycle over HTTP
type TransactionHandler struct {
	service service.Service
}

func NewTransactionHandler(service service.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// CreateRequest POST /transactions
func (h *TransactionHandler) CreateRequest(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	txn, err := h.service.CreateRequest(c.Request.Context(), actor, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, txn)
}

// Approve PATCH /admin/transactions/:id/approve
func (h *TransactionHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

// Reject PATCH /admin/transactions/:id/reject
func (h *TransactionHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

// Cancel PATCH /transactions/:id/cancel
func (h *TransactionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

// Return PATCH /transactions/:id/return
func (h *TransactionHandler) Return(c *gin.Context) {
	h.transition(c, h.service.Return)
}

func (h *TransactionHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error),
) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, txn)
}

// GetTransaction GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, txn)
}

// ListTransactions GET /admin/transactions?status=&page=&limit=
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := model.ListFilter{Status: model.Status(c.Query("status"))}

	details, total, err := h.service.List(c.Request.Context(), filter, shared.PageRequest{Page: page, Limit: limit})
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, details, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// ListMyTransactions GET /transactions/me?page=&limit=
func (h *TransactionHandler) ListMyTransactions(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	details, total, err := h.service.ListMine(c.Request.Context(), actor, shared.PageRequest{Page: page, Limit: limit})
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, details, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// ListDueToday GET /admin/transactions/due-today
func (h *TransactionHandler) ListDueToday(c *gin.Context) {
	var dues []*model.Detail
	for d, err := range h.service.DueToday(c.Request.Context()) {
		if err != nil {
			response.InternalServerError(c, "Failed to list due transactions")
			return
		}
		dues = append(dues, d)
	}

	if dues == nil {
		dues = []*model.Detail{}
	}

	response.Success(c, http.StatusOK, dues)
}

func (h *TransactionHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrTransactionNotFound):
		response.NotFound(c, "Transaction not found")
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case errors.Is(err, model.ErrInvalidTransition):
		response.InvalidTransition(c, "Transaction is not in a state that allows this action")
	case errors.Is(err, model.ErrForbidden):
		response.Forbidden(c, "You are not allowed to perform this action")
	case errors.Is(err, model.ErrDuplicateRequest):
		response.Conflict(c, "An open request for this book already exists")
	case errors.Is(err, bookmodel.ErrNoCopiesAvailable):
		response.Conflict(c, "No copies of this book are available")
	case errors.Is(err, bookmodel.ErrAllCopiesOnShelf):
		response.Conflict(c, "All copies of this book are already on the shelf")
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verrs)
			return
		}
		response.InternalServerError(c, "Something went wrong")
	}
}
