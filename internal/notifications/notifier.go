package notifications

import "context"

type SendWelcomeInput struct {
	Email  string
	Name   string
	UserID string
}

type SendAccountFarewellInput struct {
	Email  string
	Name   string
	UserID string
}

type Notifier interface {
	SendWelcome(ctx context.Context, input SendWelcomeInput) error
	SendAccountFarewell(ctx context.Context, input SendAccountFarewellInput) error
}
