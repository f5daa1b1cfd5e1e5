package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service sends the handful of transactional mails the dashboard needs:
// credential resets for doctor logins.
type Service interface {
	SendPasswordReset(to, token string) error
	SendCredentials(to, username, password string) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg Config) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendPasswordReset(to, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Şifre sıfırlama")
	m.SetBody("text/plain", fmt.Sprintf(
		"Şifrenizi sıfırlamak için bu kodu kullanın: %s\n\nBu isteği siz yapmadıysanız bu e-postayı yok sayın.", token))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *service) SendCredentials(to, username, password string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Giriş bilgileriniz")
	m.SetBody("text/plain", fmt.Sprintf(
		"Yönetim paneline giriş bilgileriniz:\n\nKullanıcı adı: %s\nŞifre: %s", username, password))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send credentials email: %w", err)
	}
	return nil
}
