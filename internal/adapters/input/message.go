// Package input turns what the user pasted or pointed at into a
// classification input.
package input

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
	"go.uber.org/zap"
)

// Message is the useful part of a pasted RFC 822 message
type Message struct {
	Subject string
	Body    string
}

// Parser recognises raw messages pasted as text
type Parser struct {
	text   *utils.TextProcessor
	logger *zap.Logger
}

// NewParser creates a new Parser
func NewParser(text *utils.TextProcessor, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if text == nil {
		text = utils.NewTextProcessor(logger)
	}
	return &Parser{
		text:   text,
		logger: logger,
	}
}

// Text builds a text input. When content is a raw message its text parts
// become the content and its Subject header fills a blank subject.
func (p *Parser) Text(content, subject string) core.ClassificationInput {
	content = p.text.SanitizeUTF8(content)

	msg, ok := p.ParseMessage(content)
	if !ok {
		return core.TextInput(content, subject)
	}

	p.logger.Debug("Pasted text is a raw message",
		zap.String("subject", msg.Subject),
		zap.Int("body_size", len(msg.Body)))

	if strings.TrimSpace(subject) == "" {
		subject = msg.Subject
	}
	return core.TextInput(msg.Body, subject)
}

// ParseMessage reports whether text looks like a raw message and extracts
// it. Ordinary prose that happens to start with "Word:" is not a message
// unless it carries a Subject or From header followed by a body.
func (p *Parser) ParseMessage(text string) (Message, bool) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.Contains(normalized, "\n\n") {
		return Message{}, false
	}

	msg, err := mail.ReadMessage(strings.NewReader(normalized))
	if err != nil {
		return Message{}, false
	}
	if msg.Header.Get("Subject") == "" && msg.Header.Get("From") == "" {
		return Message{}, false
	}

	body, err := extractText(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
	if err != nil {
		p.logger.Debug("Failed to extract message text", zap.Error(err))
		return Message{}, false
	}

	subject := msg.Header.Get("Subject")
	if decoded, err := new(mime.WordDecoder).DecodeHeader(subject); err == nil {
		subject = decoded
	}

	return Message{
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(p.text.SanitizeUTF8(body)),
	}, true
}

// extractText collects the text/plain content of a part, descending into
// nested multiparts
func extractText(contentType, encoding string, body io.Reader) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if contentType == "" || err != nil {
		mediaType = "text/plain"
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		if mediaType != "text/plain" {
			return "", nil
		}
		data, err := io.ReadAll(decodeTransfer(encoding, body))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	boundary := params["boundary"]
	if boundary == "" {
		return "", errors.New("multipart message without boundary")
	}

	var text bytes.Buffer
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if text.Len() > 0 {
				break
			}
			return "", err
		}
		if part.FileName() != "" {
			continue
		}

		partText, err := extractText(part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"), part)
		if err != nil {
			continue
		}
		if partText != "" {
			text.WriteString(partText)
			text.WriteString("\n")
		}
		// only the first alternative is needed
		if mediaType == "multipart/alternative" && text.Len() > 0 {
			break
		}
	}
	return text.String(), nil
}

func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, &newlineStripper{r: r})
	default:
		return r
	}
}

// newlineStripper drops line breaks so wrapped base64 decodes
type newlineStripper struct {
	r io.Reader
}

func (n *newlineStripper) Read(p []byte) (int, error) {
	for {
		c, err := n.r.Read(p)
		kept := 0
		for _, b := range p[:c] {
			if b != '\r' && b != '\n' {
				p[kept] = b
				kept++
			}
		}
		if kept > 0 || err != nil {
			return kept, err
		}
	}
}
