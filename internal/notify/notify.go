// Package notify delivers finished reports and general notices to partners.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sink sends messages. Implementations never return errors: a failed send
// is logged and reported as false.
type Sink interface {
	SendReport(ctx context.Context, companyName, artifactPath, summary string) bool
	SendNotification(ctx context.Context, subject, message string) bool
}

// NopSink logs instead of sending. It is used when email is not configured.
type NopSink struct{}

func (NopSink) SendReport(_ context.Context, companyName, artifactPath, _ string) bool {
	zap.L().Info("notify: email not configured, report not sent",
		zap.String("company", companyName),
		zap.String("artifact", artifactPath),
	)
	return true
}

func (NopSink) SendNotification(_ context.Context, subject, _ string) bool {
	zap.L().Info("notify: email not configured, notification not sent", zap.String("subject", subject))
	return true
}
