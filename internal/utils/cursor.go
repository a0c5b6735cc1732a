package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

type ProfileCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

func EncodeProfileCursor(createdAt time.Time, id string) (string, error) {
	b, err := json.Marshal(ProfileCursor{CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeProfileCursor(cursor string) (ProfileCursor, error) {
	if cursor == "" {
		return ProfileCursor{}, errors.New("empty cursor")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return ProfileCursor{}, err
	}

	var c ProfileCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return ProfileCursor{}, err
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		return ProfileCursor{}, errors.New("invalid cursor payload")
	}
	return c, nil
}
