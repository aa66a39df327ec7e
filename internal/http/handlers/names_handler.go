// Catalogue HTTP handlers.
//
// This file exposes REST endpoints for the name catalogue:
//   - GET  /catalogue  (list: filters, pagination, collated order)
//   - POST /catalogue  (create: single record or batch)
//
// Handlers are transport-thin: they parse and bound input, call the
// catalogue service, and translate results into HTTP responses (including
// the X-Cache diagnostic header).
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isimkutusu/go-names-backend/internal/domain"
	"github.com/isimkutusu/go-names-backend/internal/repo"
	"github.com/isimkutusu/go-names-backend/internal/services"
	"github.com/isimkutusu/go-names-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatalogueService defines the catalogue operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor
// the provided context.
type CatalogueService interface {
	// List returns a collated page of the catalogue matching the params.
	List(ctx context.Context, p services.ListParams) (*services.Listing, error)
	// Create validates and persists a batch of records atomically.
	Create(ctx context.Context, inputs []services.NameInput) ([]domain.Name, error)
}

// Classifier decides whether an input string is a valid Turkish name.
type Classifier interface {
	Classify(ctx context.Context, raw string) (*domain.Verdict, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for the catalogue and the
// classification flow. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	catalogue CatalogueService
	classify  Classifier
}

// New constructs a Handlers instance bound to the given services.
func New(catalogue CatalogueService, classify Classifier) *Handlers {
	return &Handlers{catalogue: catalogue, classify: classify}
}

//
// DTOs
//

// PaginationMeta carries pagination metadata for list responses.
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListNamesResponse wraps a page of records and pagination information.
type ListNamesResponse struct {
	Data       []domain.Name  `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// CreateNamesResponse confirms a successful batch insert.
type CreateNamesResponse struct {
	Message string        `json:"message"`
	Names   []domain.Name `json:"names"`
}

//
// Handlers
//

// ListNames handles GET /catalogue.
//
// Query params: gender, origin, syllables, maxLength, inQuran, search,
// excludeLetters, page, limit, all. Responds 200 with data + pagination;
// the X-Cache header reports whether the snapshot cache served the
// request.
func (h *Handlers) ListNames(c *gin.Context) {
	p := services.ListParams{
		Gender:         c.Query("gender"),
		Origin:         c.Query("origin"),
		Syllables:      utils.AtoiDefault(c.Query("syllables"), 0),
		MaxLength:      utils.AtoiDefault(c.Query("maxLength"), 0),
		InQuran:        c.Query("inQuran") == "true",
		Search:         c.Query("search"),
		ExcludeLetters: c.Query("excludeLetters"),
		Page:           utils.AtoiDefault(c.Query("page"), 1),
		Limit:          utils.AtoiDefault(c.Query("limit"), services.DefaultPageSize),
		All:            c.Query("all") == "true",
	}

	listing, err := h.catalogue.List(c.Request.Context(), p)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "İsimler yüklenemedi.")
		return
	}

	if listing.CacheHit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
		c.Header("Cache-Control", "public, s-maxage=300")
	}

	records := listing.Records
	if records == nil {
		records = []domain.Name{}
	}
	ok(c, http.StatusOK, ListNamesResponse{
		Data: records,
		Pagination: PaginationMeta{
			Page:       listing.Page,
			Limit:      listing.Limit,
			Total:      listing.Total,
			TotalPages: listing.TotalPages,
		},
	})
}

// CreateNames handles POST /catalogue.
//
// The body is either a single record object or an array of them. The
// whole batch is validated before anything persists and inserted in one
// transaction; a duplicate name rolls everything back with 409. Bodies
// over the configured cap are rejected with 413 (the route carries an
// http.MaxBytesReader).
func (h *Handlers) CreateNames(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Payload exceeds size limit")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	inputs, err := decodeNameInputs(body)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	created, err := h.catalogue.Create(c.Request.Context(), inputs)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateName) {
			fail(c, http.StatusConflict, ErrCodeDuplicateName, "Bu isim zaten mevcut.")
			return
		}
		status, code := writeErrorStatus(err)
		fail(c, status, code, services.UserMessage(err))
		return
	}

	ok(c, http.StatusCreated, CreateNamesResponse{
		Message: fmt.Sprintf("Successfully created %d name(s)", len(created)),
		Names:   created,
	})
}

// decodeNameInputs accepts a single JSON object or a JSON array of them.
func decodeNameInputs(body []byte) ([]services.NameInput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var many []services.NameInput
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one services.NameInput
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []services.NameInput{one}, nil
}

// writeErrorStatus maps service errors from the write path to an HTTP
// status and stable error label.
func writeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, repo.ErrDuplicateName):
		return http.StatusConflict, ErrCodeDuplicateName
	case errors.Is(err, services.ErrEmptyInput):
		return http.StatusBadRequest, ErrCodeEmptyInput
	case errors.Is(err, services.ErrTooLong):
		return http.StatusBadRequest, ErrCodeTooLong
	case errors.Is(err, services.ErrSuspiciousRepeat):
		return http.StatusBadRequest, ErrCodeSuspicious
	case errors.Is(err, services.ErrInvalidChars):
		return http.StatusBadRequest, ErrCodeInvalidChars
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidGender),
		errors.Is(err, services.ErrEmptyBatch):
		return http.StatusBadRequest, ErrCodeBadRequest
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
