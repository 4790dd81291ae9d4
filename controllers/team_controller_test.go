package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/projecthub/backend/config"
	"github.com/projecthub/backend/middleware"
	"github.com/projecthub/backend/models"
)

func setupTeamTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Team{}, &models.TeamMember{}, &models.TeamMemberName{},
	))
	config.DB = db

	r := gin.New()
	r.Use(middleware.DBMiddleware(db))
	return r
}

func asUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Set("role", "student")
		c.Next()
	}
}

func teamPost(t *testing.T, r *gin.Engine, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestCreateTeamOnePerLeader(t *testing.T) {
	r := setupTeamTest(t)
	leader := uuid.New()
	r.POST("/teams", asUser(leader), CreateTeam)

	w, body := teamPost(t, r, "/teams", gin.H{"name": "Team Rocket"})
	require.Equal(t, http.StatusCreated, w.Code)
	team := body["team"].(map[string]interface{})
	assert.Equal(t, "Team Rocket", team["name"])

	// The creator is registered as leader.
	var member models.TeamMember
	require.NoError(t, config.DB.Where("user_id = ?", leader).First(&member).Error)
	assert.Equal(t, models.TeamRoleLeader, member.Role)

	// A second team for the same leader is rejected.
	w, body = teamPost(t, r, "/teams", gin.H{"name": "Team Plasma"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "You already lead a team", body["error"])
}

func TestJoinTeamChecks(t *testing.T) {
	r := setupTeamTest(t)
	leader := uuid.New()
	joiner := uuid.New()
	r.POST("/teams", asUser(leader), CreateTeam)
	r.POST("/join", asUser(joiner), JoinTeam)

	w, body := teamPost(t, r, "/teams", gin.H{"name": "Team Rocket"})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := body["team"].(map[string]interface{})["id"].(string)

	// Unknown team id.
	w, body = teamPost(t, r, "/join", gin.H{"team_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Successful join.
	w, _ = teamPost(t, r, "/join", gin.H{"team_id": teamID})
	require.Equal(t, http.StatusOK, w.Code)

	// Joining twice is rejected.
	w, body = teamPost(t, r, "/join", gin.H{"team_id": teamID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "already a member")
}

func TestJoinTeamFullTeamRejected(t *testing.T) {
	r := setupTeamTest(t)
	leader := uuid.New()
	r.POST("/teams", asUser(leader), CreateTeam)

	w, body := teamPost(t, r, "/teams", gin.H{"name": "Full House"})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := body["team"].(map[string]interface{})["id"].(string)

	// Fill the remaining three seats.
	for i := 0; i < models.MaxTeamSize-1; i++ {
		member := uuid.New()
		path := "/join" + uuid.NewString()
		r.POST(path, asUser(member), JoinTeam)
		w, _ := teamPost(t, r, path, gin.H{"team_id": teamID})
		require.Equal(t, http.StatusOK, w.Code)
	}

	late := uuid.New()
	r.POST("/late", asUser(late), JoinTeam)
	w, body = teamPost(t, r, "/late", gin.H{"team_id": teamID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Team is full.", body["error"])
}

func TestMemberNameRosterCap(t *testing.T) {
	r := setupTeamTest(t)
	leader := uuid.New()
	r.POST("/teams", asUser(leader), CreateTeam)

	w, body := teamPost(t, r, "/teams", gin.H{"name": "Roster"})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := body["team"].(map[string]interface{})["id"].(string)

	r.POST("/teams/:id/member-names", asUser(leader), AddMemberName)
	for _, name := range []string{"Bob", "Carol", "Dave"} {
		w, _ := teamPost(t, r, "/teams/"+teamID+"/member-names", gin.H{"member_name": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body = teamPost(t, r, "/teams/"+teamID+"/member-names", gin.H{"member_name": "Eve"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Team is full.", body["error"])
}

func TestAddMemberNameRequiresLeader(t *testing.T) {
	r := setupTeamTest(t)
	leader := uuid.New()
	outsider := uuid.New()
	r.POST("/teams", asUser(leader), CreateTeam)

	w, body := teamPost(t, r, "/teams", gin.H{"name": "Locked"})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := body["team"].(map[string]interface{})["id"].(string)

	r.POST("/outsider/:id/member-names", asUser(outsider), AddMemberName)
	w, body = teamPost(t, r, "/outsider/"+teamID+"/member-names", gin.H{"member_name": "Mallory"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, body["error"], "team leader")
}
