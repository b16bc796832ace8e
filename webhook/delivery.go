package webhook

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// Deliverer sends the purchased asset to a buyer.
type Deliverer interface {
	Deliver(ctx context.Context, email string) error
}

// Signer produces a time-limited download link for the asset.
type Signer interface {
	SignURL(ctx context.Context) (string, error)
}

// Email is a single outgoing message with text and HTML bodies.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends an email.
type Mailer interface {
	Send(ctx context.Context, m Email) error
}

// AssetDeliverer signs a download link and mails it, retrying the send
// with exponential backoff until RetryFor has elapsed.
type AssetDeliverer struct {
	Signer   Signer
	Mailer   Mailer
	Subject  string
	RetryFor time.Duration
	Logger   *log.Logger

	initialInterval time.Duration
}

// NewAssetDeliverer returns a deliverer using signer and mailer.
func NewAssetDeliverer(signer Signer, mailer Mailer, subject string, retryFor time.Duration, logger *log.Logger) *AssetDeliverer {
	if logger == nil {
		logger = log.New("webhook")
	}
	return &AssetDeliverer{
		Signer:          signer,
		Mailer:          mailer,
		Subject:         subject,
		RetryFor:        retryFor,
		Logger:          logger,
		initialInterval: 500 * time.Millisecond,
	}
}

// Deliver signs a link for the asset and emails it to email.
func (d *AssetDeliverer) Deliver(ctx context.Context, email string) error {
	id := uuid.NewString()
	link, err := d.Signer.SignURL(ctx)
	if err != nil {
		return fmt.Errorf("webhook: delivery %s: sign url: %w", id, err)
	}
	msg := Email{
		To:      email,
		Subject: d.Subject,
		Text:    fmt.Sprintf("Thank you for your purchase! Download it here: %s", link),
		HTML:    fmt.Sprintf(`<p>Thank you for your purchase! Download it <a href="%s">here</a>.</p>`, html.EscapeString(link)),
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.initialInterval
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = d.RetryFor

	attempt := 0
	op := func() error {
		attempt++
		err := d.Mailer.Send(ctx, msg)
		if err != nil {
			d.Logger.Warnf("webhook: delivery %s: send attempt %d failed: %v", id, attempt, err)
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("webhook: delivery %s: send email: %w", id, err)
	}
	d.Logger.Infof("webhook: delivery %s sent after %d attempt(s)", id, attempt)
	return nil
}
