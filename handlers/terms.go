package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"camping-admin/middleware"
	"camping-admin/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TermsHandler struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewTermsHandler(db *sql.DB, logger *zap.Logger) *TermsHandler {
	return &TermsHandler{
		db:     db,
		logger: logger,
	}
}

func (h *TermsHandler) GetSections(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "GetTermsSections")
	defer span.End()

	rows, err := h.db.QueryContext(ctx, "SELECT id, title, content, position, updated_at FROM terms_sections ORDER BY position, id")
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to fetch terms sections", zap.String("trace_id", middleware.GetTraceID(ctx)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer rows.Close()

	sections := []models.TermsSection{}
	for rows.Next() {
		var s models.TermsSection
		if err := rows.Scan(&s.ID, &s.Title, &s.Content, &s.Position, &s.UpdatedAt); err != nil {
			span.RecordError(err)
			h.logger.Error("Failed to scan terms section", zap.Error(err))
			continue
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to iterate terms sections", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	span.SetAttributes(attribute.Int("terms.count", len(sections)))
	c.JSON(http.StatusOK, sections)
}

// CreateSection appends a section after the existing ones.
func (h *TermsHandler) CreateSection(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "CreateTermsSection")
	defer span.End()

	var req models.TermsSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Judul dan konten wajib diisi!"})
		return
	}

	var s models.TermsSection
	err := h.db.QueryRowContext(ctx,
		`INSERT INTO terms_sections (title, content, position)
		VALUES ($1, $2, (SELECT COUNT(*) + 1 FROM terms_sections))
		RETURNING id, title, content, position, updated_at`,
		req.Title, req.Content,
	).Scan(&s.ID, &s.Title, &s.Content, &s.Position, &s.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to create terms section", zap.String("trace_id", middleware.GetTraceID(ctx)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Terms section created", zap.Int("section_id", s.ID))
	c.JSON(http.StatusCreated, s)
}

func (h *TermsHandler) UpdateSection(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "UpdateTermsSection")
	defer span.End()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section id"})
		return
	}
	span.SetAttributes(attribute.Int("terms.id", id))

	var req models.TermsSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Judul dan konten wajib diisi!"})
		return
	}

	var s models.TermsSection
	err = h.db.QueryRowContext(ctx,
		`UPDATE terms_sections SET title = $1, content = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 RETURNING id, title, content, position, updated_at`,
		req.Title, req.Content, id,
	).Scan(&s.ID, &s.Title, &s.Content, &s.Position, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
			return
		}
		span.RecordError(err)
		h.logger.Error("Failed to update terms section", zap.String("trace_id", middleware.GetTraceID(ctx)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Terms section updated", zap.Int("section_id", id))
	c.JSON(http.StatusOK, s)
}

func (h *TermsHandler) DeleteSection(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "DeleteTermsSection")
	defer span.End()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section id"})
		return
	}
	span.SetAttributes(attribute.Int("terms.id", id))

	result, err := h.db.ExecContext(ctx, "DELETE FROM terms_sections WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to delete terms section", zap.String("trace_id", middleware.GetTraceID(ctx)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
		return
	}

	h.logger.Info("Terms section deleted", zap.Int("section_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Section deleted successfully"})
}
