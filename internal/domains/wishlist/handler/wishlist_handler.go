package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/wishlist/model"
	"library-backend/internal/domains/wishlist/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// WishlistHandler exposes the wishlist over HTTP
type WishlistHandler struct {
	service service.Service
}

func NewWishlistHandler(service service.Service) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// Add POST /wishlist/:bookId
func (h *WishlistHandler) Add(c *gin.Context) {
	actor, bookID, ok := h.actorAndBook(c)
	if !ok {
		return
	}

	item, err := h.service.Add(c.Request.Context(), actor, bookID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

// Remove DELETE /wishlist/:bookId
func (h *WishlistHandler) Remove(c *gin.Context) {
	actor, bookID, ok := h.actorAndBook(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), actor, bookID); err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

// Has GET /wishlist/:bookId
func (h *WishlistHandler) Has(c *gin.Context) {
	actor, bookID, ok := h.actorAndBook(c)
	if !ok {
		return
	}

	has, err := h.service.Has(c.Request.Context(), actor, bookID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"in_wishlist": has})
}

// ListMine GET /wishlist?page=&limit=
func (h *WishlistHandler) ListMine(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, total, err := h.service.ListMine(c.Request.Context(), actor, shared.PageRequest{Page: page, Limit: limit})
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *WishlistHandler) actorAndBook(c *gin.Context) (shared.Actor, uuid.UUID, bool) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return shared.Actor{}, uuid.Nil, false
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return shared.Actor{}, uuid.Nil, false
	}

	return actor, bookID, true
}

func (h *WishlistHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrAlreadyInWishlist):
		response.Conflict(c, "Book is already on your wishlist")
	case errors.Is(err, model.ErrNotInWishlist):
		response.NotFound(c, "Book is not on your wishlist")
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	default:
		response.InternalServerError(c, "Something went wrong")
	}
}
