// Package notify renders order emails and delivers them through an SMTP
// transport owned by a single notification actor.
package notify

import (
	"bytes"
	"context"
	"fmt"

	"github.com/example/buttg/pkg/config"
	"github.com/wneessen/go-mail"
)

// Recipient names the party an order notification is addressed to.
type Recipient string

const (
	RecipientCustomer   Recipient = "customer"
	RecipientRestaurant Recipient = "restaurant"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	Recipient   Recipient
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer sends through one SMTP client. The client is not safe for
// concurrent use; the Dispatcher serialises calls.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.Sender(),
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	em, err := buildMsg(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, em); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// buildMsg renders msg as a MIME message. Attachments keep the content type
// sniffed when they were uploaded.
func buildMsg(from string, msg *Message) (*mail.Msg, error) {
	em := mail.NewMsg()
	if err := em.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := em.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	em.Subject(msg.Subject)
	em.SetBodyString(mail.TypeTextHTML, msg.HTML)

	for _, a := range msg.Attachments {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := em.AttachReader(a.Filename, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", a.Filename, err)
		}
	}
	return em, nil
}
