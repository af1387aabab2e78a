package filter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/mailparse"
	"go.uber.org/zap"
)

// PostfixFilterOptions configures a PostfixFilter
type PostfixFilterOptions struct {
	ListenAddr     string
	Headers        HeaderNames
	ModifySubject  bool
	PostfixAddr    string
	PostfixPort    int
	PostfixEnabled bool
	// ClassifyTimeout bounds the whole classification of one message,
	// retries included
	ClassifyTimeout time.Duration
}

// PostfixFilter implements a Postfix content filter. Messages received over
// SMTP are classified, annotated and relayed back to Postfix.
type PostfixFilter struct {
	service *core.ClassificationService
	logger  *zap.Logger
	opts    PostfixFilterOptions
	server  *smtp.Server
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(service *core.ClassificationService, logger *zap.Logger, opts PostfixFilterOptions) *PostfixFilter {
	if opts.ClassifyTimeout <= 0 {
		opts.ClassifyTimeout = time.Minute
	}
	return &PostfixFilter{
		service: service,
		logger:  logger,
		opts:    opts,
	}
}

// Start starts the Postfix filter service
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.opts.ListenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50

	ln, err := net.Listen("tcp", f.opts.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.opts.ListenAddr, err)
	}

	f.logger.Info("Postfix filter started", zap.String("address", ln.Addr().String()))

	go func() {
		if err := f.server.Serve(ln); err != nil && err != smtp.ErrServerClosed {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the Postfix filter service
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail classifies an already parsed email
func (f *PostfixFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	return f.service.ClassifyEmail(ctx, email), nil
}

// handleMessage classifies a raw message and returns the annotated copy
func (f *PostfixFilter) handleMessage(ctx context.Context, sender string, recipients []string, raw []byte) ([]byte, *core.ClassificationResult, error) {
	email, err := mailparse.Parse(bytes.NewReader(raw), mailparse.Envelope{
		From:       sender,
		Recipients: recipients,
	})
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.ClassifyTimeout)
	defer cancel()

	result := f.service.ClassifyEmail(ctx, email)

	annotated, err := Annotate(raw, result, f.opts.Headers, f.opts.ModifySubject)
	if err != nil {
		return nil, nil, err
	}
	return annotated, result, nil
}

// sendToPostfix sends the processed email back to Postfix on the configured port using go-smtp
func (f *PostfixFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := net.JoinHostPort(f.opts.PostfixAddr, strconv.Itoa(f.opts.PostfixPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// The message is already accepted at this point
	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data classifies the message and relays it
func (s *smtpSession) Data(r io.Reader) error {
	logger := s.filter.logger

	raw, err := io.ReadAll(r)
	if err != nil {
		logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	annotated, result, err := s.filter.handleMessage(context.Background(), s.sender, s.recipients, raw)
	if err != nil {
		// Unparseable mail is relayed as received
		logger.Error("Failed to classify message, relaying unchanged",
			zap.String("sender", s.sender),
			zap.Error(err))
		annotated = raw
	}

	if s.filter.opts.PostfixEnabled {
		if err := s.filter.sendToPostfix(s.sender, s.recipients, annotated); err != nil {
			logger.Error("Failed to send email back to Postfix",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	} else {
		logger.Warn("Postfix forwarding disabled, message dropped after classification",
			zap.String("sender", s.sender))
	}

	if result != nil {
		logger.Info("Processed email",
			zap.String("sender", s.sender),
			zap.String("category", result.Category.String()),
			zap.String("source", string(result.Source)),
			zap.String("model", result.ModelUsed))
	}

	return nil
}
