package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/inkpost/internal/core/posts"
)

// createPostInput is the JSON form of a new post. Multipart requests carry
// the same fields as form values plus an optional "image" file.
type createPostInput struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Tags    string  `json:"tags"`
	Image   *string `json:"image"`
}

func (e *Env) GetPosts(c *gin.Context) {
	list, err := e.Posts.ListPosts(c.Request.Context())
	if err != nil {
		e.handleServiceError(c, "POST-LIST", err)
		return
	}
	listResponse(c, list, len(list))
}

func (e *Env) GetUserPosts(c *gin.Context) {
	list, err := e.Posts.ListByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		e.handleServiceError(c, "POST-LIST-AUTHOR", err)
		return
	}
	listResponse(c, list, len(list))
}

func (e *Env) GetPost(c *gin.Context) {
	post, err := e.Posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		e.handleServiceError(c, "POST-GET", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

func (e *Env) CreatePost(c *gin.Context) {
	req, uploaded, ok := e.bindCreatePost(c)
	if !ok {
		return
	}
	req.AuthorID = currentUserID(c)

	post, err := e.Posts.CreatePost(c.Request.Context(), req)
	if err != nil {
		if uploaded != "" {
			if rmErr := e.Images.Remove(c.Request.Context(), uploaded); rmErr != nil {
				log.Printf("[POST-CREATE] failed to remove orphaned image %s: %v", uploaded, rmErr)
			}
		}
		e.handleServiceError(c, "POST-CREATE", err)
		return
	}

	e.publish(EventPostCreated, post)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": post})
}

// bindCreatePost reads a JSON or multipart body. When an image file was
// stored, its URL is returned so it can be removed if the post is rejected.
func (e *Env) bindCreatePost(c *gin.Context) (posts.CreatePostRequest, string, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var input createPostInput
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return posts.CreatePostRequest{}, "", false
		}
		return posts.CreatePostRequest{
			Title:   input.Title,
			Content: input.Content,
			Tags:    input.Tags,
			Image:   input.Image,
		}, "", true
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, e.Config.MaxUploadBytes)
	req := posts.CreatePostRequest{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Tags:    c.PostForm("tags"),
	}

	file, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, "", true
	case err != nil:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Image exceeds the %d MB limit", e.Config.MaxUploadBytes>>20), nil)
		} else {
			respondError(c, http.StatusBadRequest, "Invalid multipart body: "+err.Error(), nil)
		}
		return req, "", false
	}

	src, err := file.Open()
	if err != nil {
		e.internalError(c, "POST-UPLOAD", err)
		return req, "", false
	}
	defer src.Close()

	url, err := e.Images.Save(c.Request.Context(), file.Filename, src)
	if err != nil {
		e.handleServiceError(c, "POST-UPLOAD", err)
		return req, "", false
	}
	req.Image = &url
	return req, url, true
}

func (e *Env) UpdatePost(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		bindError(c, err)
		return
	}

	post, err := e.Posts.UpdatePost(c.Request.Context(), c.Param("id"), currentUserID(c), fields)
	if err != nil {
		e.handleServiceError(c, "POST-UPDATE", err)
		return
	}

	e.publish(EventPostUpdated, post)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

func (e *Env) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := e.Posts.DeletePost(c.Request.Context(), id, currentUserID(c)); err != nil {
		e.handleServiceError(c, "POST-DELETE", err)
		return
	}

	e.publish(EventPostDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

// LikePost toggles the requester's like.
func (e *Env) LikePost(c *gin.Context) {
	post, err := e.Posts.ToggleLike(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		e.handleServiceError(c, "POST-LIKE", err)
		return
	}

	e.publish(EventPostLiked, gin.H{"id": post.ID, "likes": post.Likes})
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}
