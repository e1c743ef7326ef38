package plans

import (
	"errors"
	"net/http"

	"github.com/2beens/regain/internal/catalog"
	"github.com/2beens/regain/internal/progress"
	"github.com/2beens/regain/internal/store"
	"github.com/2beens/regain/internal/training"
	"github.com/2beens/regain/pkg"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
	// set when the user constraints filtered out every exercise
	Discipline  string   `json:"discipline,omitempty"`
	Framework   string   `json:"framework,omitempty"`
	Discomforts []string `json:"discomforts,omitempty"`
}

// classifyError maps the engine and store errors to a status code and a
// short reason, used both in responses and metric labels.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, training.ErrNoExercisesAfterFiltering):
		return http.StatusUnprocessableEntity, "no_exercises_after_filtering"
	case errors.Is(err, training.ErrNoExercisesFound):
		return http.StatusUnprocessableEntity, "no_exercises_found"
	case errors.Is(err, training.ErrNoExercisesAvailable):
		return http.StatusUnprocessableEntity, "no_exercises_available"
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "catalog_unavailable"
	case errors.Is(err, catalog.ErrInvalidCatalog):
		return http.StatusServiceUnavailable, "catalog_invalid"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, training.ErrVariationNotFound):
		return http.StatusNotFound, "variation_not_found"
	case errors.Is(err, training.ErrInvalidWeekConfig):
		return http.StatusBadRequest, "invalid_week_config"
	case errors.Is(err, training.ErrInvalidProfile):
		return http.StatusBadRequest, "invalid_profile"
	case errors.Is(err, progress.ErrEmptySession):
		return http.StatusBadRequest, "empty_session"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, reason := classifyError(err)

	resp := ErrorResponse{
		Error:  err.Error(),
		Reason: reason,
	}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
	}

	var filteringErr *training.NoExercisesAfterFilteringError
	if errors.As(err, &filteringErr) {
		resp.Discipline = filteringErr.Discipline
		resp.Framework = filteringErr.Framework
		resp.Discomforts = filteringErr.Discomforts
	}

	pkg.WriteJSON(w, resp, status)
}
