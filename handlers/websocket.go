package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool

var liveClients = cmap.New[SendSocketFunc]()

type MarkEvent struct {
	StudentID uint64 `json:"student_id"`
	Name      string `json:"name"`
	Time      string `json:"time"`
}

// BroadcastMark pushes a committed mark to every connected live view.
func BroadcastMark(id uint64, name string) {
	event := MarkEvent{
		StudentID: id,
		Name:      name,
		Time:      time.Now().Format("15:04:05"),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	for item := range liveClients.IterBuffered() {
		if !item.Val(data) {
			liveClients.Remove(item.Key)
		}
	}
}

// LiveFeed upgrades to a websocket that receives one JSON event per mark.
func LiveFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Broadcasts arrive from several goroutines at once (the scan loop and
	// gin handlers); the connection allows only one writer, so every write
	// and the connected flag go through writeMutex.
	writeMutex := sync.Mutex{}
	isConnected := true
	id := uuid.NewString()
	send := SendSocketFunc(func(data []byte) bool {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		if !isConnected {
			return false
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	})
	liveClients.Set(id, send)
	defer liveClients.Remove(id)
	// Main read cycle
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			writeMutex.Lock()
			isConnected = false
			writeMutex.Unlock()
			break
		}
		if string(message) == "ping" {
			writeMutex.Lock()
			conn.WriteMessage(mt, []byte("pong"))
			writeMutex.Unlock()
		}
	}
}
