package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LogNotifier stands in for a real email provider; useful in dev and tests.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendWelcome(ctx context.Context, in SendWelcomeInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.welcome", "email", in.Email, "name", in.Name, "user_id", in.UserID)
	return nil
}

func (n *LogNotifier) SendAccountFarewell(ctx context.Context, in SendAccountFarewellInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.account_farewell", "email", in.Email, "name", in.Name, "user_id", in.UserID)
	return nil
}

func simulateProvider(ctx context.Context) error {
	// Optional: simulate slow provider
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Optional: simulate provider outage
	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	return nil
}
