package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpapi "github.com/defectflow/projects-service/internal/api/http"
	"github.com/defectflow/projects-service/internal/auth"
	"github.com/defectflow/projects-service/internal/logging"
	"github.com/defectflow/projects-service/internal/projects/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// ProjectService is the operation surface the handlers depend on.
type ProjectService interface {
	Create(ctx context.Context, caller auth.Claims, token string, np domain.NewProject) (*domain.Project, error)
	List(ctx context.Context, caller auth.Claims, f domain.ListFilter, skip, limit int) ([]domain.Project, error)
	Get(ctx context.Context, caller auth.Claims, id uuid.UUID) (*domain.Project, error)
	Update(ctx context.Context, caller auth.Claims, token string, id uuid.UUID, patch domain.Patch) (*domain.Project, error)
}

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	svc ProjectService
}

func New(svc ProjectService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	caller, ok := auth.ClaimsFrom(c)
	if !ok {
		httpapi.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization token", nil)
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, []httpapi.ErrorDetail{{Field: "body", Message: err.Error()}})
		return
	}

	np, verr := req.toDomain()
	if verr != nil {
		failValidation(c, toDetails(verr))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), caller, auth.TokenFrom(c), np)
	if err != nil {
		writeError(c, err)
		return
	}
	httpapi.OK(c, http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	caller, ok := auth.ClaimsFrom(c)
	if !ok {
		httpapi.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization token", nil)
		return
	}

	skip, limit, filter, details := parseListQuery(c)
	if len(details) > 0 {
		failValidation(c, details)
		return
	}

	items, err := h.svc.List(c.Request.Context(), caller, filter, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []domain.Project{}
	}
	httpapi.OK(c, http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	caller, ok := auth.ClaimsFrom(c)
	if !ok {
		httpapi.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization token", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failValidation(c, []httpapi.ErrorDetail{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	p, err := h.svc.Get(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	httpapi.OK(c, http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	caller, ok := auth.ClaimsFrom(c)
	if !ok {
		httpapi.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization token", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failValidation(c, []httpapi.ErrorDetail{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, []httpapi.ErrorDetail{{Field: "body", Message: err.Error()}})
		return
	}

	patch, verr := req.toPatch()
	if verr != nil {
		failValidation(c, toDetails(verr))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), caller, auth.TokenFrom(c), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	httpapi.OK(c, http.StatusOK, p)
}

// parseListQuery reads pagination and filter params. Limits above the server
// maximum are clamped rather than rejected; everything else malformed is a
// validation failure.
func parseListQuery(c *gin.Context) (skip, limit int, filter domain.ListFilter, details []httpapi.ErrorDetail) {
	skip = 0
	if v := c.Query("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			details = append(details, httpapi.ErrorDetail{Field: "skip", Message: "must be an integer >= 0"})
		} else {
			skip = n
		}
	}

	limit = defaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil || n < 1:
			details = append(details, httpapi.ErrorDetail{Field: "limit", Message: "must be an integer >= 1"})
		case n > maxLimit:
			limit = maxLimit
		default:
			limit = n
		}
	}

	if v := c.Query("status"); v != "" {
		status := domain.Status(v)
		if !status.Valid() {
			details = append(details, httpapi.ErrorDetail{Field: "status", Message: "must be one of ACTIVE, ON_HOLD, CLOSED"})
		} else {
			filter.Status = &status
		}
	}
	if v := c.Query("stage"); v != "" {
		stage := domain.Stage(v)
		if !stage.Valid() {
			details = append(details, httpapi.ErrorDetail{Field: "stage", Message: "must be one of DESIGN, CONSTRUCTION, FINISHING, COMPLETED"})
		} else {
			filter.Stage = &stage
		}
	}
	if v := c.Query("customer_name"); v != "" {
		filter.CustomerName = &v
	}
	if v := c.Query("manager_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			details = append(details, httpapi.ErrorDetail{Field: "manager_id", Message: "must be a valid UUID"})
		} else {
			filter.ManagerID = &id
		}
	}

	return skip, limit, filter, details
}

func failValidation(c *gin.Context, details []httpapi.ErrorDetail) {
	httpapi.Fail(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "validation error", details)
}

func toDetails(verr *domain.ValidationError) []httpapi.ErrorDetail {
	details := make([]httpapi.ErrorDetail, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		details = append(details, httpapi.ErrorDetail{Field: f.Field, Message: f.Message})
	}
	return details
}

// writeError translates domain errors into the uniform failure envelope.
// Unknown errors are logged and reported as a bare 500; internal detail
// never reaches the caller.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		failValidation(c, toDetails(verr))
	case errors.Is(err, domain.ErrDuplicateCode):
		httpapi.Fail(c, http.StatusBadRequest, "DUPLICATE_CODE", "project code already exists", nil)
	case errors.Is(err, domain.ErrManagerNotFound):
		httpapi.Fail(c, http.StatusNotFound, "MANAGER_NOT_FOUND", "manager not found", nil)
	case errors.Is(err, domain.ErrNotFound):
		httpapi.Fail(c, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
	case errors.Is(err, domain.ErrForbidden):
		httpapi.Fail(c, http.StatusForbidden, "PERMISSION_DENIED", "access denied: requires MANAGER or ADMIN role", nil)
	case errors.Is(err, domain.ErrIdentityUnavailable):
		httpapi.Fail(c, http.StatusServiceUnavailable, "IDENTITY_UNAVAILABLE", "authentication service unavailable", nil)
	default:
		logging.WithComponent("projects.http").WithError(err).Error("unhandled error")
		httpapi.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}
