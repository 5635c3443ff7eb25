package notification

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"path/filepath"
	"strings"
)

// EmailConfig is the SMTP configuration resolved from the channel settings
// store, falling back to the environment.
type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string
}

// EmailChannel delivers HTML email over SMTP with StartTLS.
type EmailChannel struct {
	cfg EmailConfig
}

func NewEmailChannel(cfg EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

// IsConfigured reports whether SMTP credentials are present.
func (e *EmailChannel) IsConfigured() bool {
	return e.cfg.Host != "" && e.cfg.Username != "" && e.cfg.Password != ""
}

// Send renders the HTML template around body and delivers it. Returns
// ErrEmailNotConfigured when SMTP credentials are absent.
func (e *EmailChannel) Send(to []string, subject, body string) error {
	return e.send(to, subject, body, nil)
}

// SendWithICS delivers the message with an iCalendar attachment
// (invitation emails carry the event as invite.ics).
func (e *EmailChannel) SendWithICS(to []string, subject, body string, ics []byte) error {
	return e.send(to, subject, body, ics)
}

func (e *EmailChannel) send(to []string, subject, body string, ics []byte) error {
	if !e.IsConfigured() {
		return ErrEmailNotConfigured
	}

	htmlBody, err := e.renderHTML(subject, body)
	if err != nil {
		return err
	}

	var message []byte
	if ics == nil {
		message = e.buildPlainMessage(to, subject, htmlBody)
	} else {
		message, err = e.buildMixedMessage(to, subject, htmlBody, ics)
		if err != nil {
			return err
		}
	}

	addr := fmt.Sprintf("%s:%s", e.cfg.Host, e.cfg.Port)
	fmt.Println("📤 Sending email to:", to, "via", addr)

	if err := e.sendMailWithTLS(addr, to, message); err != nil {
		fmt.Println("❌ Email send failed:", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	fmt.Println("✅ Email sent successfully to:", to)
	return nil
}

func (e *EmailChannel) renderHTML(subject, body string) (string, error) {
	tmplPath := filepath.Join("templates", "email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, map[string]interface{}{
		"Subject": subject,
		"Body":    template.HTML(body),
	}); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return out.String(), nil
}

func (e *EmailChannel) fromHeader() string {
	return fmt.Sprintf("%s <%s>", e.cfg.FromName, e.cfg.FromAddr)
}

func (e *EmailChannel) buildPlainMessage(to []string, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         e.fromHeader(),
		"To":           strings.Join(to, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var b strings.Builder
	for k, v := range headers {
		b.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	b.WriteString("\r\n" + htmlBody)
	return []byte(b.String())
}

func (e *EmailChannel) buildMixedMessage(to []string, subject, htmlBody string, ics []byte) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=\"UTF-8\""},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	icsPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/calendar; method=REQUEST; charset=\"UTF-8\""},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {"attachment; filename=\"invite.ics\""},
	})
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(ics)
	if _, err := icsPart.Write([]byte(encoded)); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", e.fromHeader()))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", writer.Boundary()))
	b.WriteString("\r\n")
	b.Write(body.Bytes())
	return []byte(b.String()), nil
}

func (e *EmailChannel) sendMailWithTLS(addr string, to []string, message []byte) error {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         e.cfg.Host,
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err = client.Mail(e.cfg.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}
