package notify

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
)

// Mailer delivers interview notifications. A failed send never rolls back a
// completed transition; retrying is a separate external action.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPCfg struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPMailer sends plain-text mail over SMTP with STARTTLS, falling back to
// implicit TLS for port 465.
type SMTPMailer struct {
	cfg *SMTPCfg
}

func NewSMTPMailer() (*SMTPMailer, error) {
	cfg := &SMTPCfg{
		Host: os.Getenv("SMTP_HOST"),
		Port: os.Getenv("SMTP_PORT"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: os.Getenv("SMTP_FROM"),
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.User == "" || cfg.Pass == "" || cfg.From == "" {
		return nil, fmt.Errorf("SMTP not configured")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	cfg := m.cfg
	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	msg := []byte("From: \"Kandidly\" <" + cfg.From + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, auth, cfg.From, []string{to}, msg); err != nil {
		if cfg.Port == "465" {
			return m.sendImplicitTLS(addr, auth, to, msg)
		}
		return err
	}
	return nil
}

func (m *SMTPMailer) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	cfg := m.cfg
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()
	if err = c.Auth(auth); err != nil {
		return err
	}
	if err = c.Mail(cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write(msg); err != nil {
		return err
	}
	return wc.Close()
}

// InvitationSubject and InvitationBody compose the challenge invitation.
func InvitationSubject(position string) string {
	return "Interview Invitation: " + position
}

func InvitationBody(candidateName, position, link string) string {
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"You have been invited to a coding challenge for the position of %s.\n\n"+
			"Open the link below to review the challenge and start when you are ready. "+
			"The timer starts when you click Start and cannot be paused.\n\n%s\n\n"+
			"Good luck!\nThe Kandidly Team",
		candidateName, position, link)
}
