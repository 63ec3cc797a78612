package factory

import (
	"github.com/mikey/email-triage/internal/adapters/input"
	"github.com/mikey/email-triage/internal/adapters/reply"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/utils"
	"go.uber.org/zap"
)

// TextProcessorFactory creates the text helpers used around a submission
type TextProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(cfg *config.Config, logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateParser creates the pasted-message parser
func (f *TextProcessorFactory) CreateParser(tp *utils.TextProcessor) *input.Parser {
	return input.NewParser(tp, f.logger)
}

// CreateReplySender creates the SMTP sender for drafted replies
func (f *TextProcessorFactory) CreateReplySender() *reply.SMTPSender {
	rc := f.cfg.GetReply()
	return reply.NewSMTPSender(rc.SMTPAddress, rc.From, f.logger)
}
