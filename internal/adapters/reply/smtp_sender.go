package reply

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoSender is returned when no From address is configured
var ErrNoSender = errors.New("reply sender address not configured")

const (
	dialTimeout    = 10 * time.Second
	sessionTimeout = 30 * time.Second
)

// SMTPSender delivers drafted replies through an SMTP relay
type SMTPSender struct {
	address string
	from    string
	logger  *zap.Logger
	now     func() time.Time
}

// NewSMTPSender creates a sender that relays through address as from
func NewSMTPSender(address, from string, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{
		address: address,
		from:    from,
		logger:  logger,
		now:     time.Now,
	}
}

// Send mails body to recipient with the reply subject derived from subject
func (s *SMTPSender) Send(ctx context.Context, recipient, subject, body string) error {
	if s.from == "" {
		return ErrNoSender
	}
	from, err := mail.ParseAddress(s.from)
	if err != nil {
		return fmt.Errorf("invalid sender address %q: %w", s.from, err)
	}
	to, err := mail.ParseAddress(recipient)
	if err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", recipient, err)
	}

	msg, err := s.buildMessage(from, to, Subject(subject), body)
	if err != nil {
		return err
	}
	if err := s.deliver(ctx, from.Address, to.Address, msg); err != nil {
		return err
	}

	s.logger.Info("Reply sent",
		zap.String("relay", s.address),
		zap.String("to", to.Address),
		zap.Int("size", len(msg)))
	return nil
}

func (s *SMTPSender) buildMessage(from, to *mail.Address, subject, body string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@email-triage>\r\n", uuid.NewString())
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("failed to encode reply body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode reply body: %w", err)
	}
	buf.WriteString("\r\n")
	return buf.Bytes(), nil
}

// deliver runs one SMTP transaction against the relay
func (s *SMTPSender) deliver(ctx context.Context, from, to string, msg []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}

	deadline := time.Now().Add(sessionTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send reply data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the relay already accepted the message
		s.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}
