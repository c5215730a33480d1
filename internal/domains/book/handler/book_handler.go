package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// BookHandler exposes the catalog over HTTP
type BookHandler struct {
	service service.Service
}

func NewBookHandler(service service.Service) *BookHandler {
	return &BookHandler{service: service}
}

// ListBooks GET /books?search=&genre=&page=&limit=
func (h *BookHandler) ListBooks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := model.ListBooksFilter{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
	}

	books, total, err := h.service.List(c.Request.Context(), filter, shared.PageRequest{Page: page, Limit: limit})
	if err != nil {
		response.InternalServerError(c, "Failed to list books")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// GetBookDetail GET /books/:id
func (h *BookHandler) GetBookDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// CreateBook POST /admin/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// UpdateBook PUT /admin/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// DeleteBook DELETE /admin/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadCover POST /admin/books/:id/cover (multipart field "cover")
func (h *BookHandler) UploadCover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		response.BadRequest(c, "Missing cover file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read cover file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Cannot read cover file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.service.UploadCover(c.Request.Context(), id, data, contentType)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cover_url": url})
}

func (h *BookHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case errors.Is(err, model.ErrISBNAlreadyExists):
		response.Conflict(c, "A book with this ISBN already exists")
	case errors.Is(err, model.ErrNoCopiesAvailable):
		response.Conflict(c, "No copies available")
	case errors.Is(err, model.ErrAllCopiesOnShelf):
		response.Conflict(c, "All copies are already on the shelf")
	case errors.Is(err, model.ErrBookHasActiveLoan):
		response.Conflict(c, "Book has active transactions")
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verrs)
			return
		}
		response.InternalServerError(c, "Something went wrong")
	}
}
