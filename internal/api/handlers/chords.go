package handlers

import (
	"context"
	"net/http"

	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/Conceptual-Machines/harmonix-api/internal/models"
	"github.com/gin-gonic/gin"
)

// ChordLookup resolves a chord name to its notes and diagram
type ChordLookup interface {
	Lookup(ctx context.Context, chordName string) (*models.ChordDiagram, error)
}

// ChordHandler serves chord diagram requests
type ChordHandler struct {
	chords ChordLookup
}

// NewChordHandler creates a chord handler backed by chords
func NewChordHandler(chords ChordLookup) *ChordHandler {
	return &ChordHandler{chords: chords}
}

// ChordDiagramRequest is the body of POST /api/chords/diagram
type ChordDiagramRequest struct {
	Chord string `json:"chord"`
}

// Diagram handles chord diagram requests
// POST /api/chords/diagram
func (h *ChordHandler) Diagram(c *gin.Context) {
	var req ChordDiagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, detailKey, "invalid request body")
		return
	}

	result, err := h.chords.Lookup(c.Request.Context(), req.Chord)
	if err != nil {
		respondError(c, detailKey, err)
		return
	}

	fields := logger.WithContext(c)
	fields["chord"] = result.Chord
	fields["notes"] = result.Notes
	logger.Info("Chord diagram rendered", fields)

	c.JSON(http.StatusOK, result)
}
