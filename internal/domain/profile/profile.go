package profile

import (
	"errors"
	"time"
)

type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	Handle         string       `json:"handle"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio,omitempty"`
	GithubUsername string       `json:"githubUsername,omitempty"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

var (
	ErrNotFound      = errors.New("profile not found")
	ErrHandleTaken   = errors.New("handle already in use")
	ErrEntryNotFound = errors.New("entry not found")
)

// UpsertProfileRequest is a sparse payload: optional fields left out of the
// body keep their stored values instead of being cleared.
type UpsertProfileRequest struct {
	Handle         string  `json:"handle" binding:"required,min=2,max=40"`
	Status         string  `json:"status" binding:"required"`
	Skills         string  `json:"skills" binding:"required"` // comma separated, split in order
	Company        *string `json:"company" binding:"omitempty,max=120"`
	Website        *string `json:"website" binding:"omitempty,url"`
	Location       *string `json:"location" binding:"omitempty,max=120"`
	Bio            *string `json:"bio" binding:"omitempty,max=1000"`
	GithubUsername *string `json:"githubUsername" binding:"omitempty,max=60"`
	Youtube        *string `json:"youtube" binding:"omitempty,url"`
	Twitter        *string `json:"twitter" binding:"omitempty,url"`
	Facebook       *string `json:"facebook" binding:"omitempty,url"`
	Linkedin       *string `json:"linkedin" binding:"omitempty,url"`
	Instagram      *string `json:"instagram" binding:"omitempty,url"`
}

type AddExperienceRequest struct {
	Title       string     `json:"title" binding:"required,max=120"`
	Company     string     `json:"company" binding:"required,max=120"`
	Location    string     `json:"location" binding:"omitempty,max=120"`
	From        time.Time  `json:"from" binding:"required"`
	To          *time.Time `json:"to" binding:"omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
}

type AddEducationRequest struct {
	School       string     `json:"school" binding:"required,max=120"`
	Degree       string     `json:"degree" binding:"required,max=120"`
	FieldOfStudy string     `json:"fieldOfStudy" binding:"required,max=120"`
	From         time.Time  `json:"from" binding:"required"`
	To           *time.Time `json:"to" binding:"omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description" binding:"omitempty,max=1000"`
}

// with pointers if optional, it will be nil
type ListProfilesFilter struct {
	Status *string
	Skill  *string
	Limit  int
}
