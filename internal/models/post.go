package models

import (
	"time"
)

// Like marks a single user's like on a post. A post holds at most one Like
// per user.
type Like struct {
	User uint `json:"user"`
}

// Comment is a sub-document of Post. Name and Avatar are copied from the
// author when the comment is written and are not kept in sync afterwards.
type Comment struct {
	ID     string    `json:"id"`
	User   uint      `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// Post is stored as a single document: likes and comments live in JSON
// columns on the post row and are rewritten together with it.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `gorm:"type:text;serializer:json" json:"likes"`
	Comments []Comment `gorm:"type:text;serializer:json" json:"comments"`
	Version  uint      `gorm:"not null;default:1" json:"-"`
	Date     time.Time `gorm:"autoCreateTime;index" json:"date"`
}

// LikedBy reports whether userID already has a like on the post.
func (p *Post) LikedBy(userID uint) bool {
	return p.likeIndex(userID) >= 0
}

func (p *Post) likeIndex(userID uint) int {
	for i, l := range p.Likes {
		if l.User == userID {
			return i
		}
	}
	return -1
}

// AddLike prepends a like for userID. It returns false without mutating the
// post when the user already liked it.
func (p *Post) AddLike(userID uint) bool {
	if p.LikedBy(userID) {
		return false
	}
	p.Likes = append([]Like{{User: userID}}, p.Likes...)
	return true
}

// RemoveLike drops the like for userID. It returns false when there was none.
func (p *Post) RemoveLike(userID uint) bool {
	i := p.likeIndex(userID)
	if i < 0 {
		return false
	}
	p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
	return true
}

// AddComment prepends c.
func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// RemoveComment filters out the comment with the given id.
func (p *Post) RemoveComment(id string) {
	kept := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	p.Comments = kept
}
