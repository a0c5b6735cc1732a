package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewExperienceFromRequest(req AddExperienceRequest) Experience {
	return Experience{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
}

func NewEducationFromRequest(req AddEducationRequest) Education {
	return Education{
		ID:           uuid.NewString(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
		CreatedAt:    time.Now().UTC(),
	}
}

// SplitSkills turns the comma separated skills field into an ordered list,
// dropping empty segments but keeping the submitted order.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
