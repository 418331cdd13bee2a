package service

import (
	"context"
	"testing"
	"time"

	"devconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPostRepo keeps a single post so read-modify-write sequences can be
// observed across calls.
func memPostRepo(post *models.Post) *postRepoStub {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		if post == nil || id != post.ID {
			return nil, models.NewNotFoundError("Post not found")
		}
		cp := *post
		cp.Likes = append([]models.Like(nil), post.Likes...)
		cp.Comments = append([]models.Comment(nil), post.Comments...)
		return &cp, nil
	}
	repo.saveFn = func(_ context.Context, p *models.Post) error {
		*post = *p
		return nil
	}
	return repo
}

func TestPostService_CreatePostSnapshotsAuthor(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var created *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 11
		created = p
		return nil
	}
	svc := NewPostService(posts, noopUserRepo())
	svc.now = func() time.Time { return now }

	post, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 2, Text: "<b>hello</b> world"})
	require.NoError(t, err)
	assert.Same(t, created, post)
	assert.Equal(t, "hello world", post.Text)
	assert.Equal(t, "Ada", post.Name)
	assert.Equal(t, "//gravatar/ada", post.Avatar)
	assert.Equal(t, now, post.Date)
	assert.Equal(t, uint(2), post.UserID)
}

func TestPostService_CreatePostRejectsEmptyText(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "<p></p>"} {
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, _ *models.Post) error {
			t.Fatal("create must not be called")
			return nil
		}
		_, err := NewPostService(posts, noopUserRepo()).CreatePost(context.Background(), CreatePostInput{UserID: 1, Text: text})
		assertValidationError(t, err)
	}
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userID   uint
		postID   uint
		wantCode string
		deleted  bool
	}{
		{name: "owner", userID: 1, postID: 5, deleted: true},
		{name: "not owner", userID: 2, postID: 5, wantCode: models.CodeNotAuthorized},
		{name: "missing", userID: 1, postID: 6, wantCode: models.CodeNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deleted := false
			posts := memPostRepo(&models.Post{ID: 5, UserID: 1})
			posts.deleteFn = func(_ context.Context, _ uint) error {
				deleted = true
				return nil
			}
			err := NewPostService(posts, noopUserRepo()).DeletePost(context.Background(), DeletePostInput{UserID: tt.userID, PostID: tt.postID})
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				assertCode(t, err, tt.wantCode, "")
			}
			assert.Equal(t, tt.deleted, deleted)
		})
	}
}

func TestPostService_LikeTwice(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 9}
	svc := NewPostService(memPostRepo(post), noopUserRepo())

	likes, err := svc.LikePost(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: 4}}, likes)

	_, err = svc.LikePost(context.Background(), 1, 4)
	assertCode(t, err, models.CodeConflict, "Post already liked")
	assert.Len(t, post.Likes, 1)
}

func TestPostService_UnlikeBeforeLike(t *testing.T) {
	t.Parallel()

	svc := NewPostService(memPostRepo(&models.Post{ID: 1}), noopUserRepo())
	_, err := svc.UnlikePost(context.Background(), 1, 4)
	assertCode(t, err, models.CodeConflict, "Post has not yet been liked")
}

func TestPostService_LikeUnlikeLike(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, Likes: []models.Like{{User: 8}}}
	svc := NewPostService(memPostRepo(post), noopUserRepo())
	ctx := context.Background()

	_, err := svc.LikePost(ctx, 1, 4)
	require.NoError(t, err)
	likes, err := svc.UnlikePost(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: 8}}, likes)
	likes, err = svc.LikePost(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: 4}, {User: 8}}, likes)
}

func TestPostService_LikeMissingPost(t *testing.T) {
	t.Parallel()

	svc := NewPostService(memPostRepo(nil), noopUserRepo())
	_, err := svc.LikePost(context.Background(), 1, 4)
	assertCode(t, err, models.CodeNotFound, "Post not found")
}

func TestPostService_StaleSavePropagates(t *testing.T) {
	t.Parallel()

	posts := memPostRepo(&models.Post{ID: 1})
	posts.saveFn = func(_ context.Context, _ *models.Post) error {
		return models.NewStaleWriteError("Post", nil)
	}
	_, err := NewPostService(posts, noopUserRepo()).LikePost(context.Background(), 1, 4)
	assertCode(t, err, models.CodeStaleWrite, "")
}

func TestPostService_AddComment(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, Comments: []models.Comment{{ID: "old", User: 3, Text: "first"}}}
	svc := NewPostService(memPostRepo(post), noopUserRepo())

	comments, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 2, PostID: 1, Text: "nice"})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "nice", comments[0].Text)
	assert.Equal(t, "Ada", comments[0].Name)
	assert.Equal(t, uint(2), comments[0].User)
	assert.NotEmpty(t, comments[0].ID)
	assert.Equal(t, "old", comments[1].ID)
}

func TestPostService_AddEmptyComment(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1}
	svc := NewPostService(memPostRepo(post), noopUserRepo())

	_, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 2, PostID: 1, Text: " "})
	assertValidationError(t, err)
	assert.Empty(t, post.Comments)
}

func TestPostService_DeleteComment(t *testing.T) {
	t.Parallel()

	fixture := func() *models.Post {
		return &models.Post{ID: 1, UserID: 1, Comments: []models.Comment{
			{ID: "c1", User: 2, Text: "a"},
			{ID: "c2", User: 3, Text: "b"},
		}}
	}

	tests := []struct {
		name      string
		in        DeleteCommentInput
		wantCode  string
		wantMsg   string
		remaining []string
	}{
		{name: "author", in: DeleteCommentInput{UserID: 2, PostID: 1, CommentID: "c1"}, remaining: []string{"c2"}},
		{name: "post owner is not author", in: DeleteCommentInput{UserID: 1, PostID: 1, CommentID: "c1"},
			wantCode: models.CodeNotAuthorized, wantMsg: "User not authorized", remaining: []string{"c1", "c2"}},
		{name: "unknown comment", in: DeleteCommentInput{UserID: 2, PostID: 1, CommentID: "zz"},
			wantCode: models.CodeNotFound, wantMsg: "Comment does not exist", remaining: []string{"c1", "c2"}},
		{name: "unknown post", in: DeleteCommentInput{UserID: 2, PostID: 9, CommentID: "c1"},
			wantCode: models.CodeNotFound, wantMsg: "Post not found", remaining: []string{"c1", "c2"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			post := fixture()
			_, err := NewPostService(memPostRepo(post), noopUserRepo()).DeleteComment(context.Background(), tt.in)
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				assertCode(t, err, tt.wantCode, tt.wantMsg)
			}
			ids := make([]string, 0, len(post.Comments))
			for _, c := range post.Comments {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.remaining, ids)
		})
	}
}
