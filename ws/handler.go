package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/projecthub/backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dev only; restrict origins in production
	},
}

// sendJSON queues a message on the client's send channel; writePump is the
// only goroutine that touches the conn.
func sendJSON(client *Client, data interface{}) {
	msg, err := json.Marshal(data)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	select {
	case client.Send <- msg:
	default:
	}
}

// HandleTeamWebSocket streams submission status updates for one team.
func HandleTeamWebSocket(c *gin.Context) {
	teamID := c.Param("id")
	token := c.Query("token")

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	client := H.Register(teamID, conn)

	log.Printf("Team WS connected: teamID=%s, userID=%s\n", teamID, claims.UserID)
	sendJSON(client, gin.H{"type": "connected", "message": "Connected to team " + teamID})
}

// HandleGlobalWebSocket streams timeline change signals to any session.
func HandleGlobalWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	client := H.RegisterGlobal(conn)

	log.Printf("Global WS connected: userID=%s\n", claims.UserID)
	sendJSON(client, gin.H{"type": "connected", "message": "Connected to global updates"})
}
