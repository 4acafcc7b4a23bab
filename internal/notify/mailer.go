// Package notify delivers transactional email over SMTP. Callers treat
// delivery as best-effort: errors are returned for logging but never surface
// to the shopper.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	mail "github.com/wneessen/go-mail"

	"github.com/ashrivastava/shopzone/internal/domain/order"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address on outgoing mail.
	From string
}

// Mailer sends transactional email. It implements order.Notifier.
type Mailer struct {
	client *mail.Client
	from   string
}

// NewMailer creates a Mailer connected to the configured SMTP relay.
func NewMailer(cfg Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, errors.Wrap(err, "smtp client")
	}
	return &Mailer{client: client, from: cfg.From}, nil
}

// OrderConfirmation sends the order summary to the buyer.
func (m *Mailer) OrderConfirmation(ctx context.Context, email, name string, o *order.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour order %s is confirmed.\n\n", name, o.ID)
	for _, item := range o.Items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "  %s x%d  %s\n", item.Name, item.Quantity, line)
	}
	if o.Discount.IsPositive() {
		fmt.Fprintf(&b, "\nDiscount: -%s", o.Discount)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\nThank you for shopping with us.\n", o.Total)

	return m.send(ctx, email, "Order confirmation "+o.ID, b.String())
}

// Welcome greets a newly registered user.
func (m *Mailer) Welcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome aboard. Your account is ready.\n", name)
	return m.send(ctx, email, "Welcome to ShopZone", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return errors.Wrap(err, "from address")
	}
	if err := msg.To(to); err != nil {
		return errors.Wrap(err, "to address")
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "send mail")
	}
	return nil
}
