package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/internal/enum"
	er "github.com/intentstack/intentstack/internal/errors"
	"github.com/intentstack/intentstack/internal/repository"
	"github.com/intentstack/intentstack/internal/tracing"
	"github.com/intentstack/intentstack/services/pipeline"
)

type EmailsHandler struct {
	repositories *repository.Repositories
	processor    *pipeline.Processor
}

func NewEmailsHandler(repos *repository.Repositories, processor *pipeline.Processor) *EmailsHandler {
	return &EmailsHandler{
		repositories: repos,
		processor:    processor,
	}
}

// List returns a user's processed emails, optionally filtered by status
func (h *EmailsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ListEmails", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
			return
		}
		tracing.TagUser(span, userID)

		status := enum.DecodeProcessingStatus(c.Query("status"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		emails, total, err := h.repositories.ProcessedEmailRepository.ListByUser(ctx, userID, status, limit, offset)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"emails": emails,
			"total":  total,
		})
	}
}

// Get returns a single processed email with its full audit trail
func (h *EmailsHandler) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "GetEmail", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)
		tracing.TagEntity(span, c.Param("id"))

		email, err := h.repositories.ProcessedEmailRepository.GetByID(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, repository.ErrEmailNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, email)
	}
}

// Reprocess pushes a non-processed email through the workflow again
func (h *EmailsHandler) Reprocess() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ReprocessEmail", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)
		tracing.TagEntity(span, c.Param("id"))

		err := h.processor.Reprocess(ctx, c.Param("id"))
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrEmailNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
			case errors.Is(err, er.ErrAlreadyProcessed):
				c.JSON(http.StatusBadRequest, gin.H{"error": "email is already processed"})
			default:
				tracing.TraceErr(span, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "reprocessed"})
	}
}
