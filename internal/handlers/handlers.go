package handlers

import (
	"context"
	"html/template"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openmohaa/tennis-pred/internal/logic"
	"github.com/openmohaa/tennis-pred/internal/models"
	"github.com/openmohaa/tennis-pred/internal/session"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// AuditQueue defines the interface for the prediction audit worker pool
type AuditQueue interface {
	Enqueue(rec models.PredictionRecord) bool
	QueueDepth() int
}

// CheckFunc reports whether a dependency is ready
type CheckFunc func(ctx context.Context) error

type Config struct {
	Prediction logic.PredictionService
	Sessions   session.Store
	// Audit is optional; predictions are not recorded when nil
	Audit  AuditQueue
	Checks map[string]CheckFunc
	Logger *zap.Logger
	// SecureCookies marks the session cookie Secure (HTTPS deployments)
	SecureCookies bool
}

type Handler struct {
	prediction    logic.PredictionService
	sessions      session.Store
	audit         AuditQueue
	checks        map[string]CheckFunc
	logger        *zap.SugaredLogger
	validator     *validator.Validate
	page          *template.Template
	secureCookies bool
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		prediction:    cfg.Prediction,
		sessions:      cfg.Sessions,
		audit:         cfg.Audit,
		checks:        cfg.Checks,
		logger:        logger.Sugar(),
		validator:     newValidator(),
		page:          formTemplate,
		secureCookies: cfg.SecureCookies,
	}
}

// newValidator reports field errors by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
