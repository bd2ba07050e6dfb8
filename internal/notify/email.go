package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// summaryExcerpt is how much of the executive summary goes in the email body.
const summaryExcerpt = 500

// EmailOptions configures the SMTP sink.
type EmailOptions struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// sender is the part of *mail.Client the sink uses.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailSink sends over SMTP with STARTTLS.
type EmailSink struct {
	opts   EmailOptions
	client sender
}

// NewEmail creates an EmailSink. No connection is made until a send.
func NewEmail(opts EmailOptions) (*EmailSink, error) {
	if opts.From == "" || len(opts.Recipients) == 0 {
		return nil, eris.New("notify: email from and recipients are required")
	}

	port := opts.Port
	if port == 0 {
		port = mail.DefaultPortTLS
	}
	clientOpts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(30 * time.Second),
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(opts.Username),
			mail.WithPassword(opts.Password),
		)
	}

	client, err := mail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "notify: create smtp client")
	}
	return &EmailSink{opts: opts, client: client}, nil
}

// SendReport mails the report summary to the partners, attaching the
// artifact when it exists on disk.
func (s *EmailSink) SendReport(ctx context.Context, companyName, artifactPath, summary string) bool {
	log := zap.L().With(zap.String("company", companyName))

	msg, err := s.reportMessage(companyName, artifactPath, summary)
	if err != nil {
		log.Error("notify: build report email", zap.Error(err))
		return false
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Error("notify: send report email", zap.Error(err))
		return false
	}
	log.Info("notify: report email sent", zap.Strings("to", s.opts.Recipients))
	return true
}

// SendNotification mails a plain text notice.
func (s *EmailSink) SendNotification(ctx context.Context, subject, message string) bool {
	msg, err := s.newMessage("[AI Diligence] "+subject, message)
	if err != nil {
		zap.L().Error("notify: build notification", zap.Error(err))
		return false
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		zap.L().Error("notify: send notification", zap.String("subject", subject), zap.Error(err))
		return false
	}
	return true
}

func (s *EmailSink) reportMessage(companyName, artifactPath, summary string) (*mail.Msg, error) {
	msg, err := s.newMessage("AI Diligence Report: "+companyName, reportBody(companyName, summary))
	if err != nil {
		return nil, err
	}
	if artifactPath != "" {
		if fi, err := os.Stat(artifactPath); err == nil && !fi.IsDir() {
			msg.AttachFile(artifactPath, mail.WithFileName(filepath.Base(artifactPath)))
		} else {
			zap.L().Warn("notify: artifact missing, sending without attachment", zap.String("artifact", artifactPath))
		}
	}
	return msg, nil
}

func (s *EmailSink) newMessage(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.opts.From); err != nil {
		return nil, eris.Wrap(err, "notify: from address")
	}
	if err := msg.To(s.opts.Recipients...); err != nil {
		return nil, eris.Wrap(err, "notify: recipient address")
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func reportBody(companyName, summary string) string {
	excerpt := []rune(summary)
	if len(excerpt) > summaryExcerpt {
		excerpt = excerpt[:summaryExcerpt]
	}
	return fmt.Sprintf(`New AI diligence report completed for: %s

Executive Summary:
%s...

Please review the attached detailed report and provide your decision on whether to proceed with outreach.

To approve for outreach, update the record in the CRM with "Partner Decision" = "Approved".

Best regards,
AI Diligence System
`, companyName, string(excerpt))
}
