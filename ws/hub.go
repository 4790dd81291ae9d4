package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	TeamClients   map[string]map[*websocket.Conn]*Client // keyed by team id
	GlobalClients map[*websocket.Conn]*Client
	Mutex         sync.RWMutex
}

var H = Hub{
	TeamClients:   make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// SubmissionStatusUpdate reports upload progress for one team deliverable.
type SubmissionStatusUpdate struct {
	TeamID   string `json:"team_id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

func (h *Hub) Register(teamID string, conn *websocket.Conn) *Client {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.TeamClients[teamID]; !ok {
		h.TeamClients[teamID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.TeamClients[teamID][conn] = client

	go h.readPump(teamID, conn)
	go h.writePump(client)
	return client
}

func (h *Hub) RegisterGlobal(conn *websocket.Conn) *Client {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.GlobalClients[conn] = client

	go h.readGlobalPump(conn)
	go h.writePump(client)
	return client
}

func (h *Hub) Broadcast(teamID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.TeamClients[teamID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

func (h *Hub) BroadcastGlobal(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// SendSubmissionStatus pushes an upload progress update to a team's room.
func SendSubmissionStatus(teamID, subType, status string, progress int, errorMsg string) {
	update := SubmissionStatusUpdate{
		TeamID:   teamID,
		Type:     subType,
		Status:   status,
		Progress: progress,
		Error:    errorMsg,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(teamID, data)
}

// BroadcastSubmissionListChanged tells a team's dashboards to refetch.
func BroadcastSubmissionListChanged(teamID string) {
	data := []byte(`{"type": "submission_list_changed", "team_id": "` + teamID + `"}`)
	H.Broadcast(teamID, data)
}

// BroadcastTimelineChanged tells every connected client to refetch milestones.
func BroadcastTimelineChanged() {
	data := []byte(`{"type": "timeline_changed"}`)
	H.BroadcastGlobal(data)
}

func (h *Hub) Unregister(teamID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.TeamClients[teamID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.TeamClients, teamID)
		}
	}
}

func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

// GetStats reports connection counts for the health endpoint.
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	teamConns := 0
	for _, clients := range h.TeamClients {
		teamConns += len(clients)
	}
	return map[string]int{
		"team_rooms":         len(h.TeamClients),
		"team_connections":   teamConns,
		"global_connections": len(h.GlobalClients),
	}
}

func (h *Hub) readPump(teamID string, conn *websocket.Conn) {
	defer h.Unregister(teamID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) readGlobalPump(conn *websocket.Conn) {
	defer h.UnregisterGlobal(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(client *Client) {
	conn := client.Conn
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
