package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createCommentInput struct {
	Content string `json:"content"`
}

func (e *Env) GetComments(c *gin.Context) {
	list, err := e.Comments.ListForPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		e.handleServiceError(c, "COMMENT-LIST", err)
		return
	}
	listResponse(c, list, len(list))
}

func (e *Env) CreateComment(c *gin.Context) {
	var input createCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	comment, err := e.Comments.CreateComment(c.Request.Context(), c.Param("id"), input.Content, currentUserID(c))
	if err != nil {
		e.handleServiceError(c, "COMMENT-CREATE", err)
		return
	}

	e.publish(EventCommentCreated, comment)
	c.JSON(http.StatusCreated, comment)
}

func (e *Env) DeleteComment(c *gin.Context) {
	comment, err := e.Comments.DeleteComment(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		e.handleServiceError(c, "COMMENT-DELETE", err)
		return
	}

	e.publish(EventCommentDeleted, gin.H{"id": comment.ID, "post": comment.PostID})
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
