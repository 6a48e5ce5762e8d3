package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/repository"
	"github.com/intentstack/intentstack/internal/tracing"
)

type UsersHandler struct {
	repositories *repository.Repositories
	cipher       interfaces.SecretCipher
}

func NewUsersHandler(repos *repository.Repositories, cipher interfaces.SecretCipher) *UsersHandler {
	return &UsersHandler{
		repositories: repos,
		cipher:       cipher,
	}
}

type createUserRequest struct {
	Email         string `json:"email" binding:"required,email"`
	EmailPassword string `json:"emailPassword" binding:"required"`
	ImapHost      string `json:"imapHost" binding:"required"`
	ImapPort      int    `json:"imapPort"`
	ImapTLS       *bool  `json:"imapTls"`
}

// Create registers a mailbox user; the IMAP password is encrypted
// before it touches the database
func (h *UsersHandler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "CreateUser", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request createUserRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		encrypted, err := h.cipher.Encrypt(request.EmailPassword)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encrypt password"})
			return
		}

		user := &models.User{
			Email:         request.Email,
			EmailPassword: encrypted,
			ImapHost:      request.ImapHost,
			ImapPort:      request.ImapPort,
			ImapTLS:       true,
			IsActive:      true,
		}
		if user.ImapPort == 0 {
			user.ImapPort = 993
		}
		if request.ImapTLS != nil {
			user.ImapTLS = *request.ImapTLS
		}

		created, err := h.repositories.UserRepository.Create(ctx, user)
		if err != nil {
			if errors.Is(err, repository.ErrUserExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

// List returns all active mailbox users
func (h *UsersHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ListUsers", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		users, err := h.repositories.UserRepository.ListActive(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}
