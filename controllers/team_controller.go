package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/projecthub/backend/models"
)

type CreateTeamInput struct {
	Name string `json:"name" binding:"required"`
}

// POST /student/teams
func CreateTeam(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	var input CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team name is required"})
		return
	}

	// One team per leader: an existing leadership blocks a second team.
	var count int64
	db.Model(&models.TeamMember{}).
		Where("user_id = ? AND role = ?", userID, models.TeamRoleLeader).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You already lead a team"})
		return
	}

	var team models.Team
	err = db.Transaction(func(tx *gorm.DB) error {
		team = models.Team{
			Name:      input.Name,
			CreatorID: userID,
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		leader := models.TeamMember{
			TeamID: team.ID,
			UserID: userID,
			Role:   models.TeamRoleLeader,
		}
		return tx.Create(&leader).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team created successfully!",
		"team":    team,
	})
}

// GET /student/my-team — the team the caller leads, with the name roster.
func GetMyTeam(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var membership models.TeamMember
	if err := db.Where("user_id = ? AND role = ?", userID, models.TeamRoleLeader).
		First(&membership).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"team": nil})
		return
	}

	var team models.Team
	if err := db.First(&team, "id = ?", membership.TeamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	var names []models.TeamMemberName
	db.Where("team_id = ?", team.ID).Order("created_at ASC").Find(&names)

	c.JSON(http.StatusOK, gin.H{
		"team":         team,
		"member_names": names,
	})
}

type JoinTeamInput struct {
	TeamID string `json:"team_id" binding:"required"`
}

// POST /student/teams/join
func JoinTeam(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	var input JoinTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team ID is required"})
		return
	}

	teamID, err := uuid.Parse(input.TeamID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found. Please check the team ID and try again."})
		return
	}

	var existing models.TeamMember
	if err := db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are already a member of this team."})
		return
	}

	var memberCount int64
	db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&memberCount)
	if memberCount >= models.MaxTeamSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team is full."})
		return
	}

	member := models.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   models.TeamRoleMember,
	}
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Joined team successfully!",
		"team":    team,
	})
}

// GET /teams/:id/members — memberships with profile info attached.
func GetTeamMembers(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	teamID := c.Param("id")

	var members []models.TeamMember
	if err := db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, name, email, role")
	}).Where("team_id = ?", teamID).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

type AddMemberNameInput struct {
	MemberName string `json:"member_name" binding:"required"`
}

// POST /student/teams/:id/member-names
func AddMemberName(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	if !isTeamLeader(db, c.GetString("user_id"), teamID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team leader can manage members"})
		return
	}

	var input AddMemberNameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Member name is required"})
		return
	}

	// Roster cap: the leader plus up to three named members.
	var count int64
	db.Model(&models.TeamMemberName{}).Where("team_id = ?", teamID).Count(&count)
	if count >= models.MaxTeamSize-1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team is full."})
		return
	}

	name := models.TeamMemberName{
		TeamID:     teamID,
		MemberName: input.MemberName,
	}
	if err := db.Create(&name).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add team member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team member added successfully!",
		"member":  name,
	})
}

// DELETE /student/teams/:id/member-names/:memberId
func RemoveMemberName(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	if !isTeamLeader(db, c.GetString("user_id"), teamID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team leader can manage members"})
		return
	}

	res := db.Where("id = ? AND team_id = ?", c.Param("memberId"), teamID).
		Delete(&models.TeamMemberName{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove team member"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team member removed successfully!"})
}

// GET /mentor/teams — teams assigned to the calling mentor; admins see all.
func GetMentorTeams(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Team{}).Order("created_at DESC")
	if c.GetString("role") == string(models.RoleMentor) {
		query = query.Where("mentor_id = ?", c.GetString("user_id"))
	}

	var teams []models.Team
	if err := query.Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func isTeamLeader(db *gorm.DB, userID string, teamID uuid.UUID) bool {
	var count int64
	db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND role = ?", teamID, userID, models.TeamRoleLeader).
		Count(&count)
	return count > 0
}
