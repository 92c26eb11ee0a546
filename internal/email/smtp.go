package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"time"
)

// sendWithSMTP delivers the message as a multipart/alternative mail
// over plain SMTP. The organization tag rides along as a header so
// relay logs stay attributable to the tenant.
func (s *Service) sendWithSMTP(msg Message, htmlContent, textContent string) error {
	cfg := s.config.SMTP

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", msg.FromName, msg.From))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	if msg.OrgID != "" {
		buf.WriteString(fmt.Sprintf("X-Tenantcore-Organization: %s\r\n", msg.OrgID))
	}
	buf.WriteString("MIME-Version: 1.0\r\n")

	boundary := fmt.Sprintf("tenantcore_%d", time.Now().UnixNano())
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary))

	writePart := func(contentType, body string) {
		buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		buf.WriteString(fmt.Sprintf("Content-Type: %s; charset=utf-8\r\n", contentType))
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		buf.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))
		buf.WriteString("\r\n\r\n")
	}

	writePart("text/plain", textContent)
	writePart("text/html", htmlContent)
	buf.WriteString(fmt.Sprintf("--%s--", boundary))

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, buf.Bytes()); err != nil {
		return fmt.Errorf("sending via SMTP: %w", err)
	}

	return nil
}
