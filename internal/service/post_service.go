package service

import (
	"context"
	"time"

	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/repository"
	"devconnect/internal/validation"

	"github.com/google/uuid"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

type CreatePostInput struct {
	UserID uint   `json:"-"`
	Text   string `json:"text" validate:"required"`
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

type AddCommentInput struct {
	UserID uint   `json:"-"`
	PostID uint   `json:"-"`
	Text   string `json:"text" validate:"required"`
}

type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, now: storedNow}
}

// storedNow is truncated to the precision the database keeps, so a post
// reads back with the same date it was created with.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// cleanText strips markup and rejects text that is empty afterwards.
func cleanText(text string) (string, error) {
	clean := validation.StripHTML(text)
	if err := validation.Struct(struct {
		Text string `json:"text" validate:"required"`
	}{clean}); err != nil {
		return "", err
	}
	return clean, nil
}

// CreatePost stores a post carrying a snapshot of the author's name and avatar.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text, err := cleanText(in.Text)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID: in.UserID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes a post. Only its author may do so.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("User not authorized")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// LikePost adds the user's like and returns the post's likes.
func (s *PostService) LikePost(ctx context.Context, postID, userID uint) ([]models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.AddLike(userID) {
		return nil, models.NewConflictError("Post already liked")
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	observability.RecordPostInteraction("like")
	return post.Likes, nil
}

// UnlikePost removes the user's like and returns the post's likes.
func (s *PostService) UnlikePost(ctx context.Context, postID, userID uint) ([]models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.RemoveLike(userID) {
		return nil, models.NewConflictError("Post has not yet been liked")
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	observability.RecordPostInteraction("unlike")
	return post.Likes, nil
}

// AddComment prepends a comment by the user and returns the post's comments.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) ([]models.Comment, error) {
	text, err := cleanText(in.Text)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	post.AddComment(models.Comment{
		ID:     uuid.NewString(),
		User:   in.UserID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now(),
	})
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	observability.RecordPostInteraction("comment")
	return post.Comments, nil
}

// DeleteComment removes a comment. Only the comment's author may do so; the
// post's owner has no override.
func (s *PostService) DeleteComment(ctx context.Context, in DeleteCommentInput) ([]models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	comment := post.FindComment(in.CommentID)
	if comment == nil {
		return nil, models.NewNotFoundError("Comment does not exist")
	}
	if comment.User != in.UserID {
		return nil, models.NewForbiddenError("User not authorized")
	}

	post.RemoveComment(in.CommentID)
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	observability.RecordPostInteraction("uncomment")
	return post.Comments, nil
}
