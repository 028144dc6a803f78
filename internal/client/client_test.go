package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/inkpost/internal/app/apptest"
	"github.com/sujalbistaa/inkpost/internal/client"
	"github.com/sujalbistaa/inkpost/internal/core/auth"
	"github.com/sujalbistaa/inkpost/internal/core/users"
)

func newServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(apptest.NewRouter(t, nil))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func signUp(t *testing.T, baseURL, name string) *client.Client {
	t.Helper()
	c := client.New(baseURL, client.NewSession(), nil)
	_, err := c.Register(context.Background(), users.RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.True(t, c.Session().Authenticated())
	return c
}

func asAPIError(t *testing.T, err error) *client.APIError {
	t.Helper()
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	return apiErr
}

func TestClient_PostLifecycle(t *testing.T) {
	ctx := context.Background()
	baseURL := newServer(t)
	alice := signUp(t, baseURL, "alice")
	bob := signUp(t, baseURL, "bob")

	me, err := alice.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	post, err := alice.CreatePost(ctx, client.NewPost{
		Title:   "Hello World",
		Content: "This is a test post body",
		Tags:    "intro, hello",
	})
	require.NoError(t, err)
	require.NotNil(t, post.Author)
	assert.Equal(t, me.ID, post.Author.ID)
	assert.Equal(t, []string{"intro", "hello"}, post.Tags)

	bobID := func() string {
		p, err := bob.Me(ctx)
		require.NoError(t, err)
		return p.ID
	}()

	liked, err := bob.LikePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bobID}, liked.Likes)

	unliked, err := bob.LikePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	comment, err := bob.CreateComment(ctx, post.ID, "Welcome!")
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Author.Username)

	err = bob.DeletePost(ctx, post.ID)
	assert.Equal(t, http.StatusForbidden, asAPIError(t, err).Status)
	assert.True(t, bob.Session().Authenticated(), "403 must not clear the session")

	updated, err := alice.UpdatePost(ctx, post.ID, map[string]interface{}{"content": "This body was edited"})
	require.NoError(t, err)
	assert.Equal(t, "This body was edited", updated.Content)
	require.Len(t, updated.Comments, 1)

	require.NoError(t, alice.DeleteComment(ctx, comment.ID))

	list, err := alice.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Comments)

	require.NoError(t, alice.DeletePost(ctx, post.ID))

	_, err = alice.GetPost(ctx, post.ID)
	apiErr := asAPIError(t, err)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "post not found", apiErr.Message)
}

func TestClient_CreatePostWithImage(t *testing.T) {
	ctx := context.Background()
	alice := signUp(t, newServer(t), "alice")

	post, err := alice.CreatePost(ctx, client.NewPost{
		Title:     "Picture post",
		Content:   "A post with an image attached",
		ImageName: "photo.jpg",
		Image:     strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	require.NotNil(t, post.Image)
	assert.Contains(t, *post.Image, "/uploads/")
	assert.Equal(t, []string{}, post.Tags)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	ctx := context.Background()
	baseURL := newServer(t)
	alice := signUp(t, baseURL, "alice")

	me, err := alice.Me(ctx)
	require.NoError(t, err)

	// Well formed and unexpired, but signed with the wrong key.
	token, err := auth.NewTokenManager("wrong-secret", time.Hour).Issue(me.ID)
	require.NoError(t, err)
	forged := client.New(baseURL, client.NewSession(), nil)
	forged.Session().Set(token)
	require.True(t, forged.Session().Authenticated())

	_, err = forged.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, asAPIError(t, err).Status)
	assert.False(t, forged.Session().Authenticated())
}

func TestClient_ErrorMessages(t *testing.T) {
	ctx := context.Background()
	baseURL := newServer(t)
	anon := client.New(baseURL, nil, nil)

	_, err := anon.Login(ctx, "nobody@example.com", "secret123")
	apiErr := asAPIError(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, users.ErrInvalidCredentials.Error(), apiErr.Message)

	_, err = anon.CreatePost(ctx, client.NewPost{Title: "Hello World", Content: "This is a test post body"})
	assert.Equal(t, http.StatusUnauthorized, asAPIError(t, err).Status)
}

func TestClient_GenericFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(srv.Close)

	_, err := client.New(srv.URL, nil, nil).ListPosts(context.Background())
	apiErr := asAPIError(t, err)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Something went wrong. Please try again.", apiErr.Message)
}

func TestClient_AccountSettings(t *testing.T) {
	ctx := context.Background()
	baseURL := newServer(t)
	alice := signUp(t, baseURL, "alice")

	name := "alicia"
	profile, err := alice.UpdateMe(ctx, users.UpdateProfileRequest{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "alicia", profile.Username)

	me, err := alice.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alicia", me.Username)

	err = alice.ChangePassword(ctx, "wrong-password", "newsecret456")
	apiErr := asAPIError(t, err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.True(t, alice.Session().Authenticated(), "a wrong current password must not end the session")

	require.NoError(t, alice.ChangePassword(ctx, "secret123", "newsecret456"))

	fresh := client.New(baseURL, client.NewSession(), nil)
	_, err = fresh.Login(ctx, "alice@example.com", "secret123")
	assert.Equal(t, http.StatusUnauthorized, asAPIError(t, err).Status)

	_, err = fresh.Login(ctx, "alice@example.com", "newsecret456")
	require.NoError(t, err)
	assert.True(t, fresh.Session().Authenticated())
}
