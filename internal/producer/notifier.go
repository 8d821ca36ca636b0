package producer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"

	"github.com/chucky-1/budget-jobs/internal/config"
	"github.com/chucky-1/budget-jobs/internal/model"
)

//go:generate mockery --name=Notifier

type Notifier interface {
	Send(ctx context.Context, email model.Email) error
}

// Mailer delivers notifications over SMTP
type Mailer struct {
	client *mail.Client
	from   string
}

func NewMailer(cfg config.Mail) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer couldn't create smtp client: %v", err)
	}
	return &Mailer{
		client: client,
		from:   cfg.From,
	}, nil
}

func (m *Mailer) Send(ctx context.Context, email model.Email) error {
	msg, err := buildMessage(email, m.from)
	if err != nil {
		return err
	}
	if err = m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer couldn't send %q to %s: %v", email.Subject, email.To, err)
	}
	logrus.Infof("mailer sent %q to %s", email.Subject, email.To)
	return nil
}

func buildMessage(email model.Email, defaultFrom string) (*mail.Msg, error) {
	from := email.From
	if from == "" {
		from = defaultFrom
	}
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("mailer couldn't set sender %s: %v", from, err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("mailer couldn't set recipient %s: %v", email.To, err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	return msg, nil
}
