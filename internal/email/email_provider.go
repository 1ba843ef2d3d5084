package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

func NewEmailProvider(
	smtpHost, smtpUser, smtpPassword, smtpPort string, logger *slog.Logger) (*EmailProvider, error) {

	if smtpHost == "" || smtpUser == "" || smtpPassword == "" || smtpPort == "" {
		return nil, errors.New("email: SMTP host, port, user and password must be provided")
	}

	smtpPortInt, err := strconv.Atoi(smtpPort)
	if err != nil {
		return nil, fmt.Errorf("email: invalid SMTP port: %w", err)
	}

	client, err := mail.NewClient(
		smtpHost,
		mail.WithPort(smtpPortInt),
		mail.WithUsername(smtpUser),
		mail.WithPassword(smtpPassword),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
	)
	if err != nil {
		return nil, fmt.Errorf("email: failed to create SMTP client: %w", err)
	}

	provider := &EmailProvider{
		c:      make(chan *mail.Msg, 100),
		done:   make(chan struct{}),
		client: client,
		logger: logger,
	}

	go provider.sendEmailWorker()

	return provider, nil
}

type EmailProvider struct {
	c      chan *mail.Msg
	done   chan struct{}
	client *mail.Client
	logger *slog.Logger
}

func (e *EmailProvider) SendEmail(ctx context.Context, email usecase.Email) error {
	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return fmt.Errorf("email: invalid sender: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return fmt.Errorf("email: invalid recipient: %w", err)
	}
	if len(email.CC) > 0 {
		if err := msg.Cc(email.CC...); err != nil {
			return fmt.Errorf("email: invalid cc: %w", err)
		}
	}
	if len(email.BCC) > 0 {
		if err := msg.Bcc(email.BCC...); err != nil {
			return fmt.Errorf("email: invalid bcc: %w", err)
		}
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.Body)
	for _, file := range email.Attachments {
		if err := msg.AttachReader(
			file.Name,
			bytes.NewReader(file.Content),
			mail.WithFileContentType(mail.ContentType(file.ContentType)),
		); err != nil {
			e.logger.WarnContext(ctx, "email: failed to attach file", slog.String("name", file.Name), slog.String("err", err.Error()))
		}
	}

	select {
	case e.c <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting mail and waits for the queue to drain.
func (e *EmailProvider) Close() {
	close(e.c)
	<-e.done
}

func (e *EmailProvider) sendEmailWorker() {
	defer close(e.done)
	for msg := range e.c {
		if err := e.client.DialAndSend(msg); err != nil {
			e.logger.Error("email: failed to send email", slog.String("err", err.Error()))
		}
	}
}

// FromEnv builds the provider from the SMTP_* keys. It returns nil
// without error when SMTP_HOST is unset.
func FromEnv(logger *slog.Logger) (*EmailProvider, error) {
	host := os.Getenv(config.ENV_KEY_SMTP_HOST)
	if host == "" {
		return nil, nil
	}
	return NewEmailProvider(
		host,
		os.Getenv(config.ENV_KEY_SMTP_USERNAME),
		os.Getenv(config.ENV_KEY_SMTP_PASSWORD),
		os.Getenv(config.ENV_KEY_SMTP_PORT),
		logger,
	)
}
