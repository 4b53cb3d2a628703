package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	"github.com/qolzam/telar/apps/photo-comments/comments/errors"
	"github.com/qolzam/telar/apps/photo-comments/comments/models"
	"github.com/qolzam/telar/apps/photo-comments/comments/services"
	"github.com/qolzam/telar/apps/photo-comments/comments/validation"
	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
)

const defaultRequestTimeout = 10 * time.Second

// CommentHandler handles all comment-related HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	pagination     platformconfig.PaginationConfig
	requestTimeout time.Duration
	queryDecoder   *schema.Decoder
}

// NewCommentHandler creates a new CommentHandler with injected dependencies
func NewCommentHandler(commentService services.CommentService, cfg *platformconfig.Config) *CommentHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	h := &CommentHandler{
		commentService: commentService,
		pagination:     platformconfig.PaginationConfig{DefaultLimit: 10, MaxLimit: 100},
		requestTimeout: defaultRequestTimeout,
		queryDecoder:   decoder,
	}
	if cfg != nil {
		h.pagination = cfg.Pagination
		if cfg.Server.RequestTimeout > 0 {
			h.requestTimeout = cfg.Server.RequestTimeout
		}
	}
	return h
}

// CreateComment handles comment creation
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var draft models.CommentDraft
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&draft); err != nil {
			return errors.HandleInvalidRequestError(c, "Invalid request body")
		}
	}

	if err := validation.ValidateCommentDraft(&draft); err != nil {
		return errors.HandleValidationError(c, "Missing mandatory fields", err.Error())
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.commentService.CreateComment(ctx, &draft)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CreateCommentResponse{ID: id})
}

// GetComments handles retrieving one page of comments for a photo.
// Parameters come from the query string, a JSON body, or both; the query string wins.
func (h *CommentHandler) GetComments(c *fiber.Ctx) error {
	var params models.CommentQueryParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			return errors.HandleInvalidRequestError(c, "Invalid request body")
		}
	}
	if err := h.decodeQuery(c, &params); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid query parameters")
	}

	if params.PhotoID == nil {
		return errors.HandleMissingFieldError(c, "photoId")
	}

	limit, offset := h.resolvePagination(&params)
	if err := validation.ValidateListParams(*params.PhotoID, limit, offset); err != nil {
		return errors.HandleValidationError(c, "Invalid query parameters", err.Error())
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	comments, err := h.commentService.ListComments(ctx, *params.PhotoID, limit, offset)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CommentsListResponse{Result: comments})
}

// CountComments handles counting comments for a set of photos
func (h *CommentHandler) CountComments(c *fiber.Ctx) error {
	var req models.CountCommentsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errors.HandleInvalidRequestError(c, "Invalid request body")
		}
	}
	if len(req.PhotoIDs) == 0 {
		return errors.HandleMissingFieldError(c, "photoIds")
	}

	photoIDs, err := validation.ParsePhotoIDs(req.PhotoIDs)
	if err != nil {
		return errors.HandleValidationError(c, "Invalid photoIds", err.Error())
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	counts, err := h.commentService.CountComments(ctx, photoIDs)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CommentCountsResponse{Result: counts})
}

// Ping answers liveness probes
func Ping(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "pong"})
}

func (h *CommentHandler) decodeQuery(c *fiber.Ctx, params *models.CommentQueryParams) error {
	values := map[string][]string{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		values[k] = append(values[k], string(value))
	})
	if len(values) == 0 {
		return nil
	}
	return h.queryDecoder.Decode(params, values)
}

func (h *CommentHandler) resolvePagination(params *models.CommentQueryParams) (limit, offset int) {
	limit = h.pagination.DefaultLimit
	switch {
	case params.Limit != nil:
		limit = *params.Limit
	case params.Size != nil:
		limit = *params.Size
	}

	switch {
	case params.Offset != nil:
		offset = *params.Offset
	case params.From != nil:
		offset = *params.From
	}
	return limit, offset
}

func (h *CommentHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.requestTimeout)
}
