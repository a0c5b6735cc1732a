package jobs

import (
	"testing"
)

func TestEncodeDecode_SendWelcomeEmail(t *testing.T) {
	payload := SendWelcomeEmailPayload{
		UserID: "user-123",
		Email:  "ada@example.com",
		Name:   "Ada Lovelace",
	}

	b, err := EncodePayload(JobSendWelcomeEmail, payload)
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}

	j, err := NewJob(JobSendWelcomeEmail, b)
	if err != nil {
		t.Fatalf("NewJob error: %v", err)
	}

	decoded, err := DecodePayload(j)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}

	p, ok := decoded.(SendWelcomeEmailPayload)
	if !ok {
		t.Fatalf("expected SendWelcomeEmailPayload, got %T", decoded)
	}

	if p.Email != payload.Email {
		t.Fatalf("expected email %s, got %s", payload.Email, p.Email)
	}
}

func TestEncodePayload_TypeMismatch(t *testing.T) {
	_, err := EncodePayload(JobSendWelcomeEmail, SendAccountFarewellPayload{
		UserID: "u1",
		Email:  "ada@example.com",
	})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if err != ErrPayloadTypeMismatch {
		t.Fatalf("expected ErrPayloadTypeMismatch, got %v", err)
	}
}

func TestNewJob_RejectsUnknownType(t *testing.T) {
	_, err := NewJob(JobType("mystery"), []byte(`{}`))
	if err == nil {
		t.Fatalf("expected error for unknown job type")
	}
}

func TestValidatePayload_RequiredIDs(t *testing.T) {
	err := ValidatePayload(JobSendWelcomeEmail, SendWelcomeEmailPayload{UserID: "", Email: ""})
	if err == nil {
		t.Fatalf("expected error")
	}

	err = ValidatePayload(JobSendAccountFarewell, SendAccountFarewellPayload{UserID: "u1", Email: ""})
	if err == nil {
		t.Fatalf("expected error for blank email")
	}
}
