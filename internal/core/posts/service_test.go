package posts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/inkpost/internal/models"
)

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	if post.ID == "" {
		post.ID = models.NewID()
	}
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *mockPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *mockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostRepository) LikesFor(ctx context.Context, postIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

type mockCommentReader struct {
	mock.Mock
}

func (m *mockCommentReader) ListByPosts(ctx context.Context, postIDs []string) (map[string][]*models.Comment, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]*models.Comment), args.Error(1)
}

// mapUsers is a UserReader backed by a map
type mapUsers map[string]*models.User

func (m mapUsers) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User)
	for _, id := range ids {
		if u, ok := m[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fixture struct {
	repo     *mockPostRepository
	comments *mockCommentReader
	users    mapUsers
	service  Service
	alice    *models.User
	bob      *models.User
}

func newFixture() *fixture {
	alice := &models.User{ID: models.NewID(), Username: "alice"}
	bob := &models.User{ID: models.NewID(), Username: "bob"}
	f := &fixture{
		repo:     new(mockPostRepository),
		comments: new(mockCommentReader),
		users:    mapUsers{alice.ID: alice, bob.ID: bob},
		alice:    alice,
		bob:      bob,
	}
	f.service = NewPostService(f.repo, f.comments, f.users)
	return f
}

func (f *fixture) existingPost() *models.Post {
	post := &models.Post{
		ID:        models.NewID(),
		Title:     "Hello World",
		Content:   "This is a test post body",
		Tags:      []string{"go"},
		AuthorID:  f.alice.ID,
		CreatedAt: time.Now(),
	}
	f.repo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	return post
}

func (f *fixture) expectJoin(likes map[string][]string, comments map[string][]*models.Comment) {
	f.repo.On("LikesFor", mock.Anything, mock.Anything).Return(likes, nil)
	f.comments.On("ListByPosts", mock.Anything, mock.Anything).Return(comments, nil)
}

func TestPostService_CreatePost(t *testing.T) {
	f := newFixture()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).Return(nil)
	f.expectJoin(map[string][]string{}, map[string][]*models.Comment{})

	image := "  https://img.example.com/x.png "
	view, err := f.service.CreatePost(context.Background(), CreatePostRequest{
		Title:    "  Hello World  ",
		Content:  "This is a test post body",
		Tags:     " go, web ,, api ",
		Image:    &image,
		AuthorID: f.alice.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello World", view.Title)
	assert.Equal(t, []string{"go", "web", "api"}, view.Tags)
	require.NotNil(t, view.Image)
	assert.Equal(t, "https://img.example.com/x.png", *view.Image)
	require.NotNil(t, view.Author)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Empty(t, view.Likes)
	assert.Empty(t, view.Comments)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		content  string
		required bool
		fields   []string
	}{
		{name: "missing title", title: "", content: "This is a test post body", required: true},
		{name: "missing content", title: "Hello World", content: "   ", required: true},
		{name: "short title", title: "Hey", content: "This is a test post body", fields: []string{"title"}},
		{name: "long title", title: strings.Repeat("x", 101), content: "This is a test post body", fields: []string{"title"}},
		{name: "short content", title: "Hello World", content: "too short", fields: []string{"content"}},
		{name: "both invalid", title: "Hey", content: "short", fields: []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.service.CreatePost(context.Background(), CreatePostRequest{
				Title: tt.title, Content: tt.content, AuthorID: f.alice.ID,
			})
			require.Error(t, err)

			if tt.required {
				assert.ErrorIs(t, err, ErrTitleContentRequired)
			} else {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				var got []string
				for _, fe := range verr.Fields {
					got = append(got, fe.Field)
				}
				assert.Equal(t, tt.fields, got)
			}
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPostService_CreatePost_LengthBoundaries(t *testing.T) {
	for _, title := range []string{strings.Repeat("a", TitleMinLength), strings.Repeat("é", TitleMaxLength)} {
		f := newFixture()
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.expectJoin(map[string][]string{}, map[string][]*models.Comment{})

		view, err := f.service.CreatePost(context.Background(), CreatePostRequest{
			Title: title, Content: strings.Repeat("b", ContentMinLength), AuthorID: f.alice.ID,
		})
		require.NoError(t, err, "title length %d", len([]rune(title)))
		assert.Equal(t, title, view.Title)
	}
}

func TestPostService_GetPost(t *testing.T) {
	f := newFixture()
	post := f.existingPost()
	comment := &models.Comment{ID: models.NewID(), Content: "Nice post", AuthorID: f.bob.ID, PostID: post.ID}
	f.expectJoin(
		map[string][]string{post.ID: {f.bob.ID}},
		map[string][]*models.Comment{post.ID: {comment}},
	)

	view, err := f.service.GetPost(context.Background(), post.ID)
	require.NoError(t, err)

	assert.Equal(t, "alice", view.Author.Username)
	assert.Equal(t, []string{f.bob.ID}, view.Likes)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "Nice post", view.Comments[0].Content)
	assert.Equal(t, "bob", view.Comments[0].Author.Username)
}

func TestPostService_GetPost_Errors(t *testing.T) {
	f := newFixture()
	missing := models.NewID()
	f.repo.On("GetByID", mock.Anything, missing).Return(nil, ErrNotFound)

	_, err := f.service.GetPost(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = f.service.GetPost(context.Background(), missing)
	assert.True(t, IsNotFound(err))
}

func TestPostService_UpdatePost(t *testing.T) {
	f := newFixture()
	post := f.existingPost()
	f.repo.On("Update", mock.Anything, post).Return(nil)
	f.expectJoin(map[string][]string{}, map[string][]*models.Comment{})

	view, err := f.service.UpdatePost(context.Background(), post.ID, f.alice.ID, map[string]interface{}{
		"title": "Updated title",
		"tags":  []interface{}{" a ", "b", ""},
		"image": "https://img.example.com/y.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Updated title", view.Title)
	assert.Equal(t, "This is a test post body", view.Content)
	assert.Equal(t, []string{"a", "b"}, view.Tags)
	require.NotNil(t, view.Image)
}

func TestPostService_UpdatePost_Forbidden(t *testing.T) {
	f := newFixture()
	post := f.existingPost()

	_, err := f.service.UpdatePost(context.Background(), post.ID, f.bob.ID, map[string]interface{}{"title": "Hijacked title"})
	assert.ErrorIs(t, err, ErrForbidden)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPostService_UpdatePost_DisallowedFieldRejectsWholeRequest(t *testing.T) {
	f := newFixture()
	post := f.existingPost()

	_, err := f.service.UpdatePost(context.Background(), post.ID, f.alice.ID, map[string]interface{}{
		"title":  "Perfectly fine title",
		"author": f.bob.ID,
		"likes":  []interface{}{},
	})
	var dErr *DisallowedUpdateError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, []string{"author", "likes"}, dErr.Fields)
	assert.Equal(t, "Hello World", post.Title, "no field may be applied")
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPostService_UpdatePost_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{name: "title too short", fields: map[string]interface{}{"title": "abc"}},
		{name: "content too short", fields: map[string]interface{}{"content": "short"}},
		{name: "title not a string", fields: map[string]interface{}{"title": 42.0}},
		{name: "tags wrong type", fields: map[string]interface{}{"tags": []interface{}{1.0}}},
		{name: "image wrong type", fields: map[string]interface{}{"image": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			post := f.existingPost()

			_, err := f.service.UpdatePost(context.Background(), post.ID, f.alice.ID, tt.fields)
			assert.True(t, IsValidationError(err), "got %v", err)
			f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	f := newFixture()
	post := f.existingPost()
	f.repo.On("Delete", mock.Anything, post.ID).Return(nil)

	assert.ErrorIs(t, f.service.DeletePost(context.Background(), post.ID, f.bob.ID), ErrForbidden)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	require.NoError(t, f.service.DeletePost(context.Background(), post.ID, f.alice.ID))
	f.repo.AssertCalled(t, "Delete", mock.Anything, post.ID)
}

func TestPostService_ToggleLike(t *testing.T) {
	f := newFixture()
	post := f.existingPost()
	f.repo.On("ToggleLike", mock.Anything, post.ID, f.bob.ID).Return(true, nil).Once()
	f.repo.On("LikesFor", mock.Anything, []string{post.ID}).Return(map[string][]string{post.ID: {f.bob.ID}}, nil).Once()
	f.comments.On("ListByPosts", mock.Anything, mock.Anything).Return(map[string][]*models.Comment{}, nil)

	view, err := f.service.ToggleLike(context.Background(), post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, view.LikedBy(f.bob.ID))
}

func TestPostService_ListPosts_FiltersUnresolvableAuthors(t *testing.T) {
	f := newFixture()
	good := &models.Post{ID: models.NewID(), Title: "Hello World", Content: "This is a test post body", AuthorID: f.alice.ID}
	orphan := &models.Post{ID: models.NewID(), Title: "Lost author", Content: "Nobody wrote this post", AuthorID: models.NewID()}
	f.repo.On("List", mock.Anything).Return([]*models.Post{good, orphan}, nil)
	f.expectJoin(map[string][]string{}, map[string][]*models.Comment{})

	views, err := f.service.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, good.ID, views[0].ID)
}

func TestPostService_ListPosts_DegradesToPartialJoin(t *testing.T) {
	f := newFixture()
	post := &models.Post{ID: models.NewID(), Title: "Hello World", Content: "This is a test post body", AuthorID: f.alice.ID}
	f.repo.On("List", mock.Anything).Return([]*models.Post{post}, nil)
	f.repo.On("LikesFor", mock.Anything, mock.Anything).Return(map[string][]string{}, nil)
	f.comments.On("ListByPosts", mock.Anything, mock.Anything).Return(nil, errors.New("comments table unavailable"))

	views, err := f.service.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "alice", views[0].Author.Username)
	assert.Empty(t, views[0].Comments)
}

func TestPostService_ListPosts_FailsWhenBothTiersFail(t *testing.T) {
	f := newFixture()
	post := &models.Post{ID: models.NewID(), Title: "Hello World", Content: "This is a test post body", AuthorID: f.alice.ID}
	f.repo.On("List", mock.Anything).Return([]*models.Post{post}, nil)
	f.repo.On("LikesFor", mock.Anything, mock.Anything).Return(nil, errors.New("likes table unavailable"))

	_, err := f.service.ListPosts(context.Background())
	assert.Error(t, err)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{"go"}, ParseTags("go"))
	assert.Equal(t, []string{"go", "web dev"}, ParseTags(" go , web dev ,"))
}
