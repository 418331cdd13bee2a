package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Experience(t *testing.T) {
	p := &Profile{}
	p.AddExperience(Experience{ID: "1", Title: "Dev"})
	p.AddExperience(Experience{ID: "2", Title: "Lead"})

	assert.Equal(t, "2", p.Experience[0].ID)
	assert.False(t, p.RemoveExperience("missing"))
	assert.Len(t, p.Experience, 2)

	assert.True(t, p.RemoveExperience("1"))
	assert.Len(t, p.Experience, 1)
	assert.Equal(t, "Lead", p.Experience[0].Title)
}

func TestProfile_Education(t *testing.T) {
	p := &Profile{}
	p.AddEducation(Education{ID: "1", School: "MIT"})
	p.AddEducation(Education{ID: "2", School: "CMU"})

	assert.Equal(t, "CMU", p.Education[0].School)
	assert.True(t, p.RemoveEducation("2"))
	assert.False(t, p.RemoveEducation("2"))
	assert.Len(t, p.Education, 1)
}
