package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/inkpost/internal/core/users"
	"github.com/sujalbistaa/inkpost/internal/models"
)

func (e *Env) Register(c *gin.Context) {
	var input users.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	resp, err := e.Users.Register(c.Request.Context(), input)
	if err != nil {
		e.handleServiceError(c, "USER-REGISTER", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (e *Env) Login(c *gin.Context) {
	var input users.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	resp, err := e.Users.Login(c.Request.Context(), input)
	if err != nil {
		e.handleServiceError(c, "USER-LOGIN", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the profile of the authenticated user.
func (e *Env) Me(c *gin.Context) {
	user, ok := c.MustGet(ctxUser).(*models.User)
	if !ok {
		e.internalError(c, "USER-ME", errors.New("auth middleware did not set user"))
		return
	}
	c.JSON(http.StatusOK, users.ProfileOf(user))
}

func (e *Env) UpdateMe(c *gin.Context) {
	var input users.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	profile, err := e.Users.UpdateProfile(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		e.handleServiceError(c, "USER-UPDATE", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (e *Env) ChangePassword(c *gin.Context) {
	var input users.ChangePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	err := e.Users.ChangePassword(c.Request.Context(), currentUserID(c), input)
	if errors.Is(err, users.ErrInvalidCredentials) {
		// The session is still valid, so this must not look like a 401.
		respondError(c, http.StatusBadRequest, "Current password is incorrect", nil)
		return
	}
	if err != nil {
		e.handleServiceError(c, "USER-PASSWORD", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
