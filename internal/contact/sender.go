package contact

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/domain"
)

// Sender delivers a contact message to the shop.
type Sender interface {
	Send(ctx context.Context, msg domain.ContactMessage) error
}

// mailClient is the part of the SendGrid client the sender uses.
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender mails each message to the shop inbox with the visitor as
// reply-to.
type SendGridSender struct {
	client mailClient
	from   string
	to     string
}

func NewSendGridSender(apiKey, from, to string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg domain.ContactMessage) error {
	if s.from == "" {
		return fmt.Errorf("from address is empty")
	}
	if s.to == "" {
		return fmt.Errorf("to address is empty")
	}

	subject := "[Contact] " + msg.Subject
	plain := fmt.Sprintf("From: %s <%s>\n\n%s", msg.FullName, msg.Email, msg.Message)
	htmlContent := fmt.Sprintf("<pre>%s</pre>", html.EscapeString(plain))

	email := mail.NewSingleEmail(
		mail.NewEmail("Storefront", s.from),
		subject,
		mail.NewEmail("", s.to),
		plain,
		htmlContent,
	)
	email.SetReplyTo(mail.NewEmail(msg.FullName, msg.Email))

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender only logs messages. Used when no mail provider is configured.
type LogSender struct {
	Log logrus.FieldLogger
}

func (s LogSender) Send(_ context.Context, msg domain.ContactMessage) error {
	s.Log.WithFields(logrus.Fields{
		"from":    msg.Email,
		"subject": msg.Subject,
	}).Info("contact message received")
	return nil
}
