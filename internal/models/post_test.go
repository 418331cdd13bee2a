package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_AddLike(t *testing.T) {
	p := &Post{}

	require.True(t, p.AddLike(1))
	require.True(t, p.AddLike(2))
	assert.Equal(t, []Like{{User: 2}, {User: 1}}, p.Likes, "newest like first")

	assert.False(t, p.AddLike(1), "second like by the same user is rejected")
	assert.Len(t, p.Likes, 2)
}

func TestPost_RemoveLike(t *testing.T) {
	p := &Post{}
	assert.False(t, p.RemoveLike(1), "unlike before like")

	p.AddLike(1)
	p.AddLike(2)
	require.True(t, p.RemoveLike(1))
	assert.Equal(t, []Like{{User: 2}}, p.Likes)
}

func TestPost_LikeUnlikeLike(t *testing.T) {
	p := &Post{}
	p.AddLike(7)
	p.RemoveLike(7)
	p.AddLike(7)

	count := 0
	for _, l := range p.Likes {
		if l.User == 7 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPost_Comments(t *testing.T) {
	p := &Post{}
	p.AddComment(Comment{ID: "a", User: 1, Text: "first"})
	p.AddComment(Comment{ID: "b", User: 2, Text: "second"})

	require.Len(t, p.Comments, 2)
	assert.Equal(t, "b", p.Comments[0].ID)

	c := p.FindComment("a")
	require.NotNil(t, c)
	assert.Equal(t, "first", c.Text)
	assert.Nil(t, p.FindComment("missing"))

	p.RemoveComment("a")
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "b", p.Comments[0].ID)

	p.RemoveComment("missing")
	assert.Len(t, p.Comments, 1)
}
