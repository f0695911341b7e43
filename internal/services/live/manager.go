// Package live рассылает события расписания подключённым клиентам.
package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventShiftCreated = "shift_created"
	EventShiftUpdated = "shift_updated"
	EventShiftDeleted = "shift_deleted"
	EventPTODecided   = "pto_decided"
)

type Manager struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	m := &Manager{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	go m.Run()
	return m
}

func (m *Manager) Register(client *Client) {
	m.register <- client
}

func (m *Manager) Unregister(client *Client) {
	m.unregister <- client
}

func (m *Manager) Broadcast(message []byte) {
	m.broadcast <- message
}

// PublishEvent сериализует событие и рассылает его всем клиентам.
func (m *Manager) PublishEvent(eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type":      eventType,
		"data":      payload,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal live event %s: %v", eventType, err)
		return
	}
	m.Broadcast(data)
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			m.mu.Unlock()
		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.Send)
			}
			m.mu.Unlock()
		case message := <-m.broadcast:
			m.mu.Lock()
			for client := range m.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(m.clients, client)
				}
			}
			m.mu.Unlock()
		}
	}
}

// ReadPump вычитывает входящие сообщения до разрыва соединения.
// Клиенты ничего не присылают, но читать надо, чтобы ловить close-фреймы.
func (m *Manager) ReadPump(client *Client) {
	defer func() {
		m.Unregister(client)
		client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (m *Manager) WritePump(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
