package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/openmohaa/tennis-pred/internal/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// formPage is the data rendered into templates/index.html
type formPage struct {
	Catalog *models.Catalog
	Result  string
}

// ShowForm renders the match form with the session's last result
// @Summary Match form
// @Tags Predictions
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	id := h.sessionID(w, r)

	result, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		// A missing result only costs the user the previous message
		h.logger.Warnw("Failed to read session result", "error", err, "session", id)
		result = ""
	}

	page := formPage{
		Catalog: h.prediction.Catalog(),
		Result:  result,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, page); err != nil {
		h.logger.Errorw("Failed to render form", "error", err)
	}
}

// SubmitForm runs a prediction from the HTML form and redirects back to it
// @Summary Submit match form
// @Tags Predictions
// @Accept x-www-form-urlencoded
// @Param t_name formData string true "Tournament"
// @Param t_round formData string true "Round code"
// @Param p1_name formData string true "Player A name"
// @Param p1_rank formData string true "Player A rank"
// @Param p1_age formData string true "Player A age"
// @Param p2_name formData string true "Player B name"
// @Param p2_rank formData string true "Player B rank"
// @Param p2_age formData string true "Player B age"
// @Success 303 "Redirect to /"
// @Router /predict [post]
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	id := h.sessionID(w, r)

	var message string
	if err := r.ParseForm(); err != nil {
		message = "Invalid form submission"
	} else {
		req := &models.MatchRequest{
			Tournament: r.PostForm.Get("t_name"),
			Round:      r.PostForm.Get("t_round"),
			PlayerA: models.PlayerEntry{
				Name: r.PostForm.Get("p1_name"),
				Age:  models.FlexNumber(r.PostForm.Get("p1_age")),
				Rank: models.FlexNumber(r.PostForm.Get("p1_rank")),
			},
			PlayerB: models.PlayerEntry{
				Name: r.PostForm.Get("p2_name"),
				Age:  models.FlexNumber(r.PostForm.Get("p2_age")),
				Rank: models.FlexNumber(r.PostForm.Get("p2_rank")),
			},
		}

		result, err := h.predict(r.Context(), id, req)
		if err != nil {
			_, message = describeError(err)
		} else {
			message = result.Message
		}
	}

	if err := h.sessions.Set(r.Context(), id, message); err != nil {
		h.logger.Errorw("Failed to store session result", "error", err, "session", id)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PredictMatch predicts the winner of a single match
// @Summary Predict match winner
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body models.MatchRequest true "Match"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 429 {object} map[string]string "Rate limited"
// @Failure 503 {object} map[string]string "Inference unavailable"
// @Router /api/v1/predictions [post]
func (h *Handler) PredictMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.predict(r.Context(), existingSessionID(r), &req)
	if err != nil {
		status, message := describeError(err)
		h.errorResponse(w, status, message)
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// GetCatalog lists tournaments, players and rounds for client forms
// @Summary Form choices
// @Tags Predictions
// @Produce json
// @Success 200 {object} models.Catalog
// @Router /api/v1/catalog [get]
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.prediction.Catalog())
}

// predict validates, runs the prediction service and records the outcome
func (h *Handler) predict(ctx context.Context, sessionID string, req *models.MatchRequest) (*models.PredictionResult, error) {
	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}

	result, err := h.prediction.Predict(ctx, req)
	if err != nil {
		status, _ := describeError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Errorw("Prediction failed", "error", err, "tournament", req.Tournament, "round", req.Round)
		}
		return nil, err
	}

	if h.audit != nil {
		rec := models.PredictionRecord{
			SessionID:  sessionID,
			Tournament: result.Tournament,
			Round:      result.Round,
			PlayerA:    result.PlayerA,
			PlayerB:    result.PlayerB,
			ProbA:      result.Probabilities[0],
			ProbB:      result.Probabilities[1],
			Winner:     result.Winner,
		}
		if !h.audit.Enqueue(rec) {
			h.logger.Warnw("Audit queue full, prediction not recorded", "winner", result.Winner)
		}
	}

	return result, nil
}
