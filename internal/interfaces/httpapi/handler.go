package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/spinhall/ladder-league/internal/platform/logging"
	"github.com/spinhall/ladder-league/internal/usecase"
)

type Handler struct {
	leagueService     *usecase.LeagueService
	membershipService *usecase.MembershipService
	challengeService  *usecase.ChallengeService
	sweepService      *usecase.ChallengeSweepService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	membershipService *usecase.MembershipService,
	challengeService *usecase.ChallengeService,
	sweepService *usecase.ChallengeSweepService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:     leagueService,
		membershipService: membershipService,
		challengeService:  challengeService,
		sweepService:      sweepService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeOptionalBody decodes a JSON body into dst, treating an empty
// body as the zero value.
func decodeOptionalBody(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
