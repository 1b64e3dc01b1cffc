package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

// SMTPConfig carries the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// Timeout bounds a single delivery attempt. Zero means 10 seconds.
	Timeout time.Duration
}

// SMTP delivers verification codes through a mail relay.
type SMTP struct {
	cfg SMTPConfig
	// sendMail is swappable for tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTP{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *SMTP) SendVerificationCode(ctx context.Context, email, code string) error {
	msg := fmt.Appendf(nil,
		"From: Controle Financeiro <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: Codigo de Verificacao\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"<div style=\"font-family: sans-serif\">"+
			"<h2>Seu c&oacute;digo de verifica&ccedil;&atilde;o</h2>"+
			"<p>Use o c&oacute;digo abaixo para confirmar seu endere&ccedil;o de e-mail:</p>"+
			"<p style=\"font-size: 24px; letter-spacing: 4px\"><b>%s</b></p>"+
			"<p>O c&oacute;digo expira em 15 minutos. Se voc&ecirc; n&atilde;o solicitou, ignore esta mensagem.</p>"+
			"</div>\r\n",
		s.cfg.From, email, code)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	// net/smtp has no context support, so the attempt runs in a goroutine
	// and is bounded by the configured timeout.
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, s.cfg.From, []string{email}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("notify: send code to %s: %w", email, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notify: send code to %s: %w", email, ctx.Err())
	}
}
