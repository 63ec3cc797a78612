package factory

import (
	"fmt"

	"github.com/mikey/email-triage/internal/adapters/classifier"
	"github.com/mikey/email-triage/internal/allowlist"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// ClassifierFactory creates the classification service client and the
// local input validator
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates the HTTP client for the configured service
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	svc, err := f.cfg.GetService()
	if err != nil {
		return nil, err
	}
	if svc.BaseURL == "" {
		return nil, fmt.Errorf("service.base_url is not set")
	}

	f.logger.Debug("Using classification service",
		zap.String("base_url", svc.BaseURL),
		zap.Duration("timeout", svc.Timeout))
	return classifier.NewHTTPClient(svc.BaseURL, svc.Timeout, f.logger), nil
}

// CreateValidator creates the validator from the upload and input rules
func (f *ClassifierFactory) CreateValidator() *core.Validator {
	upload := f.cfg.GetUpload()
	checker := allowlist.NewChecker(upload.Extensions, upload.MediaTypes, f.logger)
	return core.NewValidator(f.cfg.GetInput().MinContentChars, upload.MaxBytes, checker)
}
