package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mu   sync.Mutex
	sent []domain.ContactMessage
	err  error
}

func (m *mockSender) Send(_ context.Context, msg domain.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockMailClient struct {
	email  *mail.SGMailV3
	status int
	err    error
}

func (m *mockMailClient) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	m.email = email
	if m.err != nil {
		return nil, m.err
	}
	return &rest.Response{StatusCode: m.status, Body: "body"}, nil
}

func validForm() Form {
	return Form{
		FullName: "Ola Nordmann",
		Subject:  "Order question",
		Email:    "ola@example.com",
		Message:  "Where is my package?",
	}
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(f *Form)
		field string
	}{
		{"valid", func(f *Form) {}, ""},
		{"short name", func(f *Form) { f.FullName = "Al" }, "fullName"},
		{"name padded with spaces", func(f *Form) { f.FullName = "  Al  " }, "fullName"},
		{"missing subject", func(f *Form) { f.Subject = "" }, "subject"},
		{"bad email", func(f *Form) { f.Email = "ola@example" }, "email"},
		{"email with space", func(f *Form) { f.Email = "ola nordmann@example.com" }, "email"},
		{"short message", func(f *Form) { f.Message = "too short" }, "message"},
		{"long message", func(f *Form) { f.Message = strings.Repeat("a", 501) }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)

			err := f.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, 1)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestFormValidateReportsAllFields(t *testing.T) {
	err := Form{}.Validate()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Equal(t, "invalid contact form: email: Email is required; fullName: Full name is required; "+
		"message: Message is required; subject: Subject is required", verr.Error())
}

func TestServiceSubmit(t *testing.T) {
	sender := &mockSender{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(sender, clockwork.NewFakeClockAt(now))

	f := validForm()
	f.FullName = "  Ola Nordmann "

	msg, err := svc.Submit(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "Ola Nordmann", msg.FullName)
	assert.Equal(t, now, msg.SubmittedAt)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, *msg, sender.sent[0])
}

func TestServiceSubmitInvalidDoesNotSend(t *testing.T) {
	sender := &mockSender{}
	svc := NewService(sender, nil)

	_, err := svc.Submit(context.Background(), Form{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, sender.sent)
}

func TestServiceSubmitSenderError(t *testing.T) {
	sender := &mockSender{err: errors.New("smtp down")}
	svc := NewService(sender, nil)

	_, err := svc.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestSendGridSender(t *testing.T) {
	client := &mockMailClient{status: 202}
	s := &SendGridSender{client: client, from: "shop@example.com", to: "inbox@example.com"}

	err := s.Send(context.Background(), domain.ContactMessage{
		FullName: "Ola",
		Subject:  "Hello",
		Email:    "ola@example.com",
		Message:  "<b>hi</b> there",
	})
	require.NoError(t, err)
	require.NotNil(t, client.email)
	assert.Equal(t, "[Contact] Hello", client.email.Subject)
	assert.Equal(t, "ola@example.com", client.email.ReplyTo.Address)
	require.Len(t, client.email.Content, 2)
	assert.Contains(t, client.email.Content[1].Value, "&lt;b&gt;hi&lt;/b&gt;")
}

func TestSendGridSenderErrors(t *testing.T) {
	msg := domain.ContactMessage{Subject: "x"}

	s := &SendGridSender{client: &mockMailClient{status: 401}, from: "a@b.c", to: "d@e.f"}
	err := s.Send(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")

	s = &SendGridSender{client: &mockMailClient{err: errors.New("dial")}, from: "a@b.c", to: "d@e.f"}
	assert.Error(t, s.Send(context.Background(), msg))

	s = &SendGridSender{client: &mockMailClient{status: 202}, to: "d@e.f"}
	assert.Error(t, s.Send(context.Background(), msg))
}
