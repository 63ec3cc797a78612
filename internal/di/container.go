package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/input"
	"github.com/mikey/email-triage/internal/adapters/reply"
	"github.com/mikey/email-triage/internal/adapters/store"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/dashboard"
	"github.com/mikey/email-triage/internal/factory"
	"github.com/mikey/email-triage/internal/logging"
	"github.com/mikey/email-triage/internal/telemetry"
	"github.com/mikey/email-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// around an already loaded configuration
func BuildContainer(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := registerComponents(container); err != nil {
		return nil, err
	}
	return container, nil
}

func registerComponents(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}

	// Register classification service client and validator
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory) *core.Validator {
		return f.CreateValidator()
	}); err != nil {
		return err
	}

	// Register store
	if err := container.Provide(func(f *factory.StoreFactory) (store.Store, error) {
		return f.CreateStore(context.Background())
	}); err != nil {
		return err
	}

	// Register the shared ledger, loaded from the store when history persists
	if err := container.Provide(func(f *factory.StoreFactory, s store.Store, logger *zap.Logger) (*core.Ledger, error) {
		if !f.PersistHistory() {
			return core.NewLedger(nil, logger), nil
		}
		return core.LoadLedger(context.Background(), s, logger)
	}); err != nil {
		return err
	}

	// Register settings store
	if err := container.Provide(func(s store.Store, logger *zap.Logger) (*core.SettingsStore, error) {
		return core.NewSettingsStore(context.Background(), s, logger)
	}); err != nil {
		return err
	}

	// Register telemetry
	if err := container.Provide(telemetry.NewPrometheusRecorder); err != nil {
		return err
	}

	// Register orchestrator
	if err := container.Provide(func(
		classifier core.Classifier,
		ledger *core.Ledger,
		validator *core.Validator,
		recorder *telemetry.PrometheusRecorder,
		logger *zap.Logger,
	) *core.Orchestrator {
		return core.NewOrchestrator(classifier, ledger, validator, recorder, logger)
	}); err != nil {
		return err
	}

	// Register dashboard view
	if err := container.Provide(func(ledger *core.Ledger, settings *core.SettingsStore) *dashboard.View {
		return dashboard.NewView(ledger, settings, nil)
	}); err != nil {
		return err
	}

	// Register text helpers and reply sender
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory, tp *utils.TextProcessor) *input.Parser {
		return f.CreateParser(tp)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) *reply.SMTPSender {
		return f.CreateReplySender()
	}); err != nil {
		return err
	}

	return nil
}
