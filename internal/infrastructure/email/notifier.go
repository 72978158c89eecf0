package email

import (
	"context"
	"estate-brokerage/internal/config"
	"estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/logger"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// sender is the part of *mail.Client the notifier needs.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Notifier delivers verification and reset emails over SMTP
type Notifier struct {
	client sender
	from   string
}

// NewNotifier builds an SMTP notifier. Port 465 uses implicit TLS, any other
// port requires STARTTLS.
func NewNotifier(cfg *config.SMTPConfig, timeout time.Duration) (*Notifier, error) {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(timeout),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	opts = append(opts, mail.WithPort(cfg.Port))

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &Notifier{client: client, from: cfg.From}, nil
}

var _ user.Notifier = (*Notifier)(nil)

func (n *Notifier) SendVerificationOTP(ctx context.Context, to, name, code string, ttl time.Duration) error {
	body, err := render(messageData{
		Title:     "Verify your email",
		Name:      name,
		Intro:     "Use the code below to verify your account.",
		Code:      code,
		ExpiresIn: formatTTL(ttl),
	})
	if err != nil {
		return err
	}
	return n.send(ctx, to, "Your verification code", body)
}

func (n *Notifier) SendVerificationLink(ctx context.Context, to, name, link string) error {
	body, err := render(messageData{
		Title: "Verify your email",
		Name:  name,
		Intro: "Confirm your email address to activate your account.",
		Link:  link,
	})
	if err != nil {
		return err
	}
	return n.send(ctx, to, "Verify your email address", body)
}

func (n *Notifier) SendPasswordResetCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	body, err := render(messageData{
		Title:     "Reset your password",
		Name:      name,
		Intro:     "Use the code below to reset your password.",
		Code:      code,
		ExpiresIn: formatTTL(ttl),
	})
	if err != nil {
		return err
	}
	return n.send(ctx, to, "Your password reset code", body)
}

func (n *Notifier) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Debug("Email sent",
		zap.String("subject", subject),
	)
	return nil
}

func formatTTL(ttl time.Duration) string {
	if ttl <= 0 {
		return ""
	}
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
