package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dugoutlabs/ballstats/internal/platform/logging"
	"github.com/dugoutlabs/ballstats/internal/usecase"
)

type Handler struct {
	playerService      *usecase.PlayerService
	descriptionService *usecase.DescriptionService
	logger             *logging.Logger
	validator          *validator.Validate
	serviceName        string
	serviceVersion     string
}

func NewHandler(
	playerService *usecase.PlayerService,
	descriptionService *usecase.DescriptionService,
	logger *logging.Logger,
	serviceName string,
	serviceVersion string,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerService:      playerService,
		descriptionService: descriptionService,
		logger:             logger,
		validator:          validator.New(),
		serviceName:        serviceName,
		serviceVersion:     serviceVersion,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Root")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"service": h.serviceName,
		"version": h.serviceVersion,
		"players": "/api/players",
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
