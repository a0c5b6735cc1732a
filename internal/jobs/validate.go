package jobs

import "strings"

// ValidatePayload performs minimal validation on decoded payloads before a
// worker acts on them.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	trim := func(s string) string { return strings.TrimSpace(s) }

	switch t {
	case JobSendWelcomeEmail:
		var p SendWelcomeEmailPayload
		switch v := payload.(type) {
		case SendWelcomeEmailPayload:
			p = v
		case *SendWelcomeEmailPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.Email) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	case JobSendAccountFarewell:
		var p SendAccountFarewellPayload
		switch v := payload.(type) {
		case SendAccountFarewellPayload:
			p = v
		case *SendAccountFarewellPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.Email) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
