package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/swaggo/swag"

	_ "github.com/openmohaa/tennis-pred/docs"
	"github.com/openmohaa/tennis-pred/internal/logic"
)

const sessionCookie = "tp_session"

// readyTimeout bounds the dependency checks behind /ready
const readyTimeout = 2 * time.Second

// Health check endpoint
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
// @Summary Readiness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	// Check all dependencies
	checks := make(map[string]bool, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		err := check(ctx)
		checks[name] = err == nil
		if err != nil {
			allHealthy = false
			h.logger.Warnw("Readiness check failed", "check", name, "error", err)
		}
	}

	body := map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	}
	if h.audit != nil {
		body["queueDepth"] = h.audit.QueueDepth()
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, body)
}

// SwaggerDoc serves the generated OpenAPI document
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		h.logger.Errorw("Failed to read swagger doc", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Swagger document unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none or an invalid one.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// existingSessionID returns the session id only if the request already has one
func existingSessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	return ""
}

// describeError maps a prediction failure to a status and a user-facing message
func describeError(err error) (int, string) {
	var inputErr *logic.InputError
	var inferenceErr *logic.InferenceError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Message()
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, validationMessage(validationErrs)
	case errors.As(err, &inferenceErr):
		return http.StatusServiceUnavailable, logic.UnavailableMessage
	default:
		return http.StatusInternalServerError, "Prediction failed"
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		// Namespace is "MatchRequest.player_a.age"; drop the root type
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, ns)
	}
	return "Missing required field(s): " + strings.Join(fields, ", ")
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
