package models

import (
	"time"
)

// Experience is a job entry on a profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a school entry on a profile.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Social holds optional social network links.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Profile is the per-user career record. There is exactly one per user.
type Profile struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"uniqueIndex;not null" json:"-"`
	User           *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `gorm:"not null" json:"status"`
	Skills         []string     `gorm:"type:text;serializer:json" json:"skills"`
	Bio            string       `gorm:"type:text" json:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Experience     []Experience `gorm:"type:text;serializer:json" json:"experience"`
	Education      []Education  `gorm:"type:text;serializer:json" json:"education"`
	Social         Social       `gorm:"type:text;serializer:json" json:"social"`
	Version        uint         `gorm:"not null;default:1" json:"-"`
	Date           time.Time    `gorm:"autoCreateTime" json:"date"`
}

// AddExperience prepends e.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = append([]Experience{e}, p.Experience...)
}

// RemoveExperience drops the entry with the given id and reports whether one
// was found.
func (p *Profile) RemoveExperience(id string) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// AddEducation prepends e.
func (p *Profile) AddEducation(e Education) {
	p.Education = append([]Education{e}, p.Education...)
}

// RemoveEducation drops the entry with the given id and reports whether one
// was found.
func (p *Profile) RemoveEducation(id string) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}
