package contact

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/slerbakk/storefront/internal/domain"
)

type Service struct {
	sender Sender
	clock  clockwork.Clock
}

func NewService(sender Sender, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{sender: sender, clock: clock}
}

// Submit validates f and hands it to the sender. Validation failures are
// returned as *ValidationError.
func (s *Service) Submit(ctx context.Context, f Form) (*domain.ContactMessage, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	f = f.Normalized()
	msg := &domain.ContactMessage{
		FullName:    f.FullName,
		Subject:     f.Subject,
		Email:       f.Email,
		Message:     f.Message,
		SubmittedAt: s.clock.Now(),
	}
	if err := s.sender.Send(ctx, *msg); err != nil {
		return nil, fmt.Errorf("deliver contact message: %w", err)
	}
	return msg, nil
}
