package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/otodrive/otodrive-web/internal/notify"
	"github.com/otodrive/otodrive-web/internal/observability/metrics"
	"github.com/otodrive/otodrive-web/internal/throttle"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

// Subject is the subject line of forwarded messages.
const Subject = "New Contact Form Submission"

// Service validates submissions and emails them to the shop.
type Service struct {
	sender   notify.EmailSender
	throttle *throttle.Throttle
	to       string
	metrics  *metrics.SiteMetrics
	logger   *logging.Logger
}

// NewService creates a contact service. A nil throttle accepts every sender.
func NewService(sender notify.EmailSender, th *throttle.Throttle, to string, m *metrics.SiteMetrics, logger *logging.Logger) (*Service, error) {
	if sender == nil {
		return nil, errors.New("contact: email sender is required")
	}
	if to == "" {
		return nil, errors.New("contact: recipient address is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, throttle: th, to: to, metrics: m, logger: logger}, nil
}

// Submit validates s and forwards it. Errors match ErrInvalid, ErrThrottled or
// ErrDelivery.
func (svc *Service) Submit(ctx context.Context, s Submission) error {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		svc.metrics.ObserveContact("invalid")
		return err
	}

	result, err := svc.throttle.Allow(ctx, s.Email)
	if err != nil {
		return fmt.Errorf("contact: throttle: %w", err)
	}
	if !result.Allowed {
		svc.metrics.ObserveContact("throttled")
		return fmt.Errorf("%w: %s", ErrThrottled, result.Message)
	}

	msg := notify.EmailMessage{
		To:          svc.to,
		ReplyTo:     s.Email,
		ReplyToName: s.Name,
		Subject:     Subject,
		Body:        s.Body(),
	}
	if err := svc.sender.Send(ctx, msg); err != nil {
		svc.metrics.ObserveContact("failed")
		svc.logger.Error("contact email failed", "error", err, "from", s.Email)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	svc.metrics.ObserveContact("sent")
	svc.logger.Info("contact message forwarded", "from", s.Email, "name", s.Name)
	return nil
}
