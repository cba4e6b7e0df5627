package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-service/internal/app"
	"github.com/jsamuelsen/quote-service/internal/domain"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// ListQuotes handles GET /api/v1/quotes.
// Returns every stored quote ordered by id.
//
// @Summary List all quotes
// @Tags quotes
// @Produce json
// @Success 200 {array} dto.QuoteResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.service.ListQuotes(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteListResponse(quotes))
}

// GetQuote handles GET /api/v1/quote/:id.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/v1/quote/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	quote, err := h.service.GetQuote(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: dto.MessageQuoteNotFound})
			return
		}

		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// ListLiked handles GET /api/v1/quote/liked.
// Returns quotes with at least one like, most liked first.
//
// @Summary List liked quotes
// @Tags quotes
// @Produce json
// @Success 200 {array} dto.QuoteResponse
// @Router /api/v1/quote/liked [get]
func (h *QuoteHandler) ListLiked(c *gin.Context) {
	quotes, err := h.service.ListLiked(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteListResponse(quotes))
}

// LikeQuote handles PATCH /api/v1/quote/:id/like.
// Responds with the new like count, or 0 when the quote does not exist.
//
// @Summary Like a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {integer} int
// @Router /api/v1/quote/{id}/like [patch]
func (h *QuoteHandler) LikeQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	likes, err := h.service.LikeQuote(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, likes)
}

// RandomQuote handles GET /api/v1/quote.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Success 204
// @Router /api/v1/quote [get]
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	h.respondRandom(c, nil)
}

// RandomQuoteExcluding handles POST /api/v1/quote.
// The body is a JSON array of quote ids the caller has already seen.
//
// @Summary Get a random quote not in the given id list
// @Tags quotes
// @Accept json
// @Produce json
// @Param exclude body []int true "Seen quote IDs"
// @Success 200 {object} dto.QuoteResponse
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /api/v1/quote [post]
func (h *QuoteHandler) RandomQuoteExcluding(c *gin.Context) {
	exclude, err := dto.BindExcludeIDs(c)
	if err != nil {
		status, resp := http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"request body must be a JSON array of quote ids",
		)

		var tooLarge *http.MaxBytesError

		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
			resp = dto.NewErrorResponse(dto.ErrorCodeTooLarge, "request body too large")
		}

		c.JSON(status, resp.WithTraceID(dto.GetTraceID(c)))

		return
	}

	h.respondRandom(c, exclude)
}

func (h *QuoteHandler) respondRandom(c *gin.Context, exclude []int64) {
	quote, err := h.service.RandomQuote(c.Request.Context(), exclude)
	if err != nil {
		if domain.IsNoContent(err) {
			c.Status(http.StatusNoContent)
			return
		}

		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.GET("/quotes", h.ListQuotes)

	quote := rg.Group("/quote")
	quote.GET("", h.RandomQuote)
	quote.POST("", h.RandomQuoteExcluding)
	quote.GET("/liked", h.ListLiked)
	quote.GET("/:id", h.GetQuote)
	quote.PATCH("/:id/like", h.LikeQuote)
}

// quoteID parses the :id path parameter, answering 400 when it is not an integer.
func quoteID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeBadRequest,
			"quote id must be an integer",
			map[string]string{"id": raw},
		).WithTraceID(dto.GetTraceID(c)))

		return 0, false
	}

	return id, true
}
