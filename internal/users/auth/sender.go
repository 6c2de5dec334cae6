// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// Sender delivers a one-time code to the owner of an email address.
type Sender interface {
	SendOTP(ctx context.Context, email, name, code string) error
}

// LogSender writes codes to the structured log. It is the delivery channel of
// demo deployments, where operators read the code from the console.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendOTP implements [Sender].
func (sender *LogSender) SendOTP(ctx context.Context, email, name, code string) error {
	sender.logger.InfoContext(ctx, "otp_dispatched",
		slog.String("email", email),
		slog.String("name", name),
		slog.String("otp", code),
	)
	return nil
}
