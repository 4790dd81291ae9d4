package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/projecthub/backend/models"
	"github.com/projecthub/backend/services"
	"github.com/projecthub/backend/ws"
)

type SubmissionController struct {
	Svc *services.SubmissionService
}

func NewSubmissionController(svc *services.SubmissionService) *SubmissionController {
	return &SubmissionController{Svc: svc}
}

// POST /student/teams/:id/submissions (multipart form)
// Fields: type, title, description?, url?, file?
func (sc *SubmissionController) Submit(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	db := c.MustGet("db").(*gorm.DB)
	if !isTeamMember(db, teamID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this team"})
		return
	}

	input := services.SubmissionInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Type:        models.SubmissionType(c.PostForm("type")),
		URL:         c.PostForm("url"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read attached file"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read attached file"})
			return
		}
		input.FileName = fileHeader.Filename
		input.FileSize = fileHeader.Size
		input.FileData = data
	}

	sub, err := sc.Svc.Submit(c.Request.Context(), teamID, userID, &input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit. Please try again.", "details": err.Error()})
		return
	}

	ws.BroadcastSubmissionListChanged(teamID.String())

	c.JSON(http.StatusOK, gin.H{
		"message":    "Submission successful",
		"submission": sub,
	})
}

// GET /teams/:id/submissions
func (sc *SubmissionController) ListTeamSubmissions(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	subs, err := sc.Svc.TeamSubmissions(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func isTeamMember(db *gorm.DB, teamID, userID uuid.UUID) bool {
	var count int64
	db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count)
	return count > 0
}
