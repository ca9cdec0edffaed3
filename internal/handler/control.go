package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatguard/internal/service"
	"chatguard/internal/word_filter"
)

type ControlHandler interface {
	GetSettings(c *gin.Context)
	UpdateSettings(c *gin.Context)
	ListWords(c *gin.Context)
	AddWord(c *gin.Context)
	RemoveWord(c *gin.Context)
	GetStats(c *gin.Context)
	ListTopics(c *gin.Context)
	ToggleTopic(c *gin.Context)
}

type controlHandler struct {
	control *service.ControlService
	logger  *zap.Logger
}

func NewControlHandler(control *service.ControlService, logger *zap.Logger) ControlHandler {
	return &controlHandler{control: control, logger: logger}
}

// SettingsResponse represents the current moderation settings.
type SettingsResponse struct {
	Profanity   bool   `json:"profanity"`
	Advertising bool   `json:"advertising"`
	Semantic    bool   `json:"semantic"`
	Model       string `json:"model"`
}

// GetSettings handles GET /api/settings.
func (h *controlHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, SettingsResponse{
		Profanity:   h.control.ProfanityEnabled(),
		Advertising: h.control.AdvertisingEnabled(),
		Semantic:    h.control.SemanticEnabled(),
		Model:       h.control.Model(),
	})
}

// UpdateSettingsRequest represents a settings update. Absent fields are
// left untouched.
type UpdateSettingsRequest struct {
	Profanity   *bool   `json:"profanity,omitempty"`
	Advertising *bool   `json:"advertising,omitempty"`
	Semantic    *bool   `json:"semantic,omitempty"`
	Model       *string `json:"model,omitempty"`
}

// UpdateSettings handles POST /api/settings.
func (h *controlHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind settings request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Profanity != nil && *req.Profanity != h.control.ProfanityEnabled() {
		h.control.ToggleProfanity()
	}
	if req.Advertising != nil && *req.Advertising != h.control.AdvertisingEnabled() {
		h.control.ToggleAdvertising()
	}
	if req.Semantic != nil && *req.Semantic != h.control.SemanticEnabled() {
		h.control.ToggleSemantic()
	}
	if req.Model != nil {
		if err := h.control.SetModel(*req.Model); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "available": h.control.AvailableModels()})
			return
		}
	}

	h.GetSettings(c)
}

// ListWords handles GET /api/words.
func (h *controlHandler) ListWords(c *gin.Context) {
	response := make(map[string][]string, len(word_filter.Categories))
	for _, cat := range word_filter.Categories {
		response[string(cat)] = h.control.Words(cat)
	}
	c.JSON(http.StatusOK, response)
}

type wordRequest struct {
	Category string `json:"category" binding:"required"`
	Word     string `json:"word" binding:"required"`
}

// AddWord handles POST /api/words.
func (h *controlHandler) AddWord(c *gin.Context) {
	h.mutateWord(c, h.control.AddWord)
}

// RemoveWord handles DELETE /api/words.
func (h *controlHandler) RemoveWord(c *gin.Context) {
	h.mutateWord(c, h.control.RemoveWord)
}

func (h *controlHandler) mutateWord(c *gin.Context, op func(word_filter.Category, string) error) {
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, ok := word_filter.ParseCategory(req.Category)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + req.Category})
		return
	}

	if err := op(cat, req.Word); err != nil {
		if errors.Is(err, service.ErrEmptyWord) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Word mutation failed", zap.String("category", req.Category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update word list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": string(cat), "words": h.control.Words(cat)})
}

// GetStats handles GET /api/stats.
func (h *controlHandler) GetStats(c *gin.Context) {
	stats, err := h.control.Stats()
	if err != nil {
		h.logger.Error("Failed to load statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type topicResponse struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
}

// ListTopics handles GET /api/topics.
func (h *controlHandler) ListTopics(c *gin.Context) {
	topics := h.control.Topics()
	response := make([]topicResponse, 0, len(topics))
	for _, t := range topics {
		response = append(response, topicResponse{Name: t.Name, Priority: t.Priority, Enabled: t.Enabled})
	}
	c.JSON(http.StatusOK, response)
}

type toggleTopicRequest struct {
	Name    string `json:"name" binding:"required"`
	Enabled *bool  `json:"enabled" binding:"required"`
}

// ToggleTopic handles POST /api/topics/toggle.
func (h *controlHandler) ToggleTopic(c *gin.Context) {
	var req toggleTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.control.ToggleTopic(req.Name, *req.Enabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown topic: " + req.Name})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": req.Name, "enabled": *req.Enabled})
}
