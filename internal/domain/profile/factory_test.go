package profile

import (
	"reflect"
	"testing"
	"time"
)

func TestSplitSkills(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "plain_list",
			in:   "Go,Postgres,Redis",
			want: []string{"Go", "Postgres", "Redis"},
		},
		{
			name: "trims_whitespace",
			in:   " Go , Postgres ,Redis ",
			want: []string{"Go", "Postgres", "Redis"},
		},
		{
			name: "drops_empty_entries",
			in:   "Go,,Postgres,",
			want: []string{"Go", "Postgres"},
		},
		{
			name: "keeps_submitted_order",
			in:   "Redis,Go,Postgres",
			want: []string{"Redis", "Go", "Postgres"},
		},
		{
			name: "empty_input",
			in:   "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := SplitSkills(tt.in)

			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewExperienceFromRequest(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	req := AddExperienceRequest{
		Title:   "Backend Engineer",
		Company: "Acme",
		From:    from,
		Current: true,
	}

	e := NewExperienceFromRequest(req)

	if e.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if e.Title != req.Title || e.Company != req.Company {
		t.Fatalf("fields not carried over: %+v", e)
	}
	if !e.From.Equal(from) {
		t.Fatalf("from date mismatch: %v", e.From)
	}
	if !e.Current {
		t.Fatalf("current flag lost")
	}
	if e.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
}

func TestNewEducationFromRequest(t *testing.T) {
	from := time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	req := AddEducationRequest{
		School:       "MIT",
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         from,
		To:           &to,
	}

	e := NewEducationFromRequest(req)

	if e.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if e.School != req.School || e.Degree != req.Degree || e.FieldOfStudy != req.FieldOfStudy {
		t.Fatalf("fields not carried over: %+v", e)
	}
	if e.To == nil || !e.To.Equal(to) {
		t.Fatalf("to date mismatch: %v", e.To)
	}
}
