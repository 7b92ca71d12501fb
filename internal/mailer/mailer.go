package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

var ErrNotConfigured = errors.New("mailer: SMTP_EMAIL and SMTP_PASSWORD are required")

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Config struct {
	Host     string
	Port     int
	From     string
	Password string
}

// SMTPMailer delivers board notifications through an SMTP relay.
type SMTPMailer struct {
	from   string
	sender sender
	logger *logger.Logger
}

func NewSMTPMailer(cfg Config, log *logger.Logger) (*SMTPMailer, error) {
	if cfg.From == "" || cfg.Password == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	return &SMTPMailer{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password),
		logger: log.Named("mailer"),
	}, nil
}

func (m *SMTPMailer) SendListingCreated(ctx context.Context, to string, listing domain.Listing) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "New Listing Created")
	msg.SetBody("text/plain", fmt.Sprintf("Your listing '%s' has been created successfully.", listing.Title))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>Your listing <strong>%s</strong> (%g %s %s, $%.2f) has been created successfully.</p>",
		html.EscapeString(listing.Title), listing.Year, html.EscapeString(listing.Make),
		html.EscapeString(listing.Model), listing.Price))
	return m.send(ctx, msg, "listing_id", listing.ID, "to", to)
}

// SendInquiry mails the seller. Replies go straight to the buyer.
func (m *SMTPMailer) SendInquiry(ctx context.Context, inquiry domain.Inquiry) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", inquiry.SellerMail)
	msg.SetHeader("Reply-To", inquiry.BuyerMail)
	msg.SetHeader("Subject", "Inquiry: "+inquiry.Title)
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>%s (%s) asked about <strong>%s</strong>:</p><blockquote>%s</blockquote>",
		html.EscapeString(inquiry.BuyerName), html.EscapeString(inquiry.BuyerMail),
		html.EscapeString(inquiry.Title), inquiry.Message))
	return m.send(ctx, msg, "listing_id", inquiry.ListingID, "to", inquiry.SellerMail)
}

func (m *SMTPMailer) send(ctx context.Context, msg *gomail.Message, kv ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email", append(kv, "error", err)...)
		return fmt.Errorf("send email: %w", err)
	}
	m.logger.Info("email sent", kv...)
	return nil
}
