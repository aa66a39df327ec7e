package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isimkutusu/go-names-backend/internal/http/middleware"
	"github.com/isimkutusu/go-names-backend/internal/services"
)

// ClassifyRequest is the request body of POST /classify.
type ClassifyRequest struct {
	Prompt string `json:"prompt"`
}

// ClassifyName handles POST /classify.
//
// The candidate string is sanitized, checked against the catalogue and,
// when no exact or near match exists, sent to the language model for an
// onomastic verdict. Validation failures return 400 with a Turkish
// user-facing message; a missing model credential returns 500 with a
// config_error code rather than silently degrading.
func (h *Handlers) ClassifyName(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	verdict, err := h.classify.Classify(c.Request.Context(), req.Prompt)
	if err != nil {
		var formatErr *services.UpstreamFormatError
		switch {
		case errors.Is(err, services.ErrEmptyInput),
			errors.Is(err, services.ErrTooLong),
			errors.Is(err, services.ErrSuspiciousRepeat),
			errors.Is(err, services.ErrInvalidChars):
			status, code := writeErrorStatus(err)
			fail(c, status, code, services.UserMessage(err))
		case errors.Is(err, services.ErrModelNotConfigured):
			fail(c, http.StatusInternalServerError, ErrCodeConfig, "API key not configured")
		case errors.As(err, &formatErr):
			middleware.LoggerFrom(c).Error().
				Str("raw_reply", formatErr.Raw).
				Err(formatErr.Err).
				Msg("model reply could not be decoded")
			fail(c, http.StatusInternalServerError, ErrCodeUpstreamFormat, services.UserMessage(err))
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, services.UserMessage(err))
		}
		return
	}

	ok(c, http.StatusOK, verdict)
}
