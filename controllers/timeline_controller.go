package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/projecthub/backend/config"
	"github.com/projecthub/backend/models"
	"github.com/projecthub/backend/services"
	"github.com/projecthub/backend/ws"
)

const timelineCacheKey = "timeline:active"

// TimelineCache is set from routes so listing goes through Redis.
var TimelineCache *services.Cache

type TimelineEventInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventDate   string `json:"event_date" binding:"required"` // YYYY-MM-DD
}

func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// GET /timeline — active milestones, everyone, event_date ascending.
func GetTimeline(c *gin.Context) {
	var events []models.TimelineEvent
	if TimelineCache.Get(c.Request.Context(), timelineCacheKey, &events) {
		c.JSON(http.StatusOK, gin.H{"events": events})
		return
	}

	if err := config.DB.Where("is_active = ?", true).
		Order("event_date ASC").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timeline events"})
		return
	}

	TimelineCache.Set(c.Request.Context(), timelineCacheKey, events)
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GET /admin/timeline — all milestones, active or not.
func GetAllTimelineEvents(c *gin.Context) {
	var events []models.TimelineEvent
	if err := config.DB.Order("event_date ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timeline events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// POST /admin/timeline
func CreateTimelineEvent(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input TimelineEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventDate, err := parseEventDate(input.EventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event date"})
		return
	}

	event := models.TimelineEvent{
		Title:       input.Title,
		Description: input.Description,
		EventDate:   eventDate,
		IsActive:    true,
		CreatedBy:   userID,
	}
	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create timeline event"})
		return
	}

	TimelineCache.Invalidate(c.Request.Context(), timelineCacheKey)
	ws.BroadcastTimelineChanged()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Timeline event created successfully!",
		"event":   event,
	})
}

type TimelineEventUpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
	IsActive    *bool   `json:"is_active"`
}

// PUT /admin/timeline/:id
func UpdateTimelineEvent(c *gin.Context) {
	var event models.TimelineEvent
	if err := config.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Timeline event not found"})
		return
	}

	var input TimelineEventUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.EventDate != nil {
		eventDate, err := parseEventDate(*input.EventDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event date"})
			return
		}
		event.EventDate = eventDate
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update timeline event"})
		return
	}

	TimelineCache.Invalidate(c.Request.Context(), timelineCacheKey)
	ws.BroadcastTimelineChanged()

	c.JSON(http.StatusOK, gin.H{
		"message": "Timeline event updated successfully!",
		"event":   event,
	})
}

// DELETE /admin/timeline/:id
func DeleteTimelineEvent(c *gin.Context) {
	res := config.DB.Delete(&models.TimelineEvent{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete timeline event"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Timeline event not found"})
		return
	}

	TimelineCache.Invalidate(c.Request.Context(), timelineCacheKey)
	ws.BroadcastTimelineChanged()

	c.JSON(http.StatusOK, gin.H{"message": "Timeline event deleted successfully!"})
}
