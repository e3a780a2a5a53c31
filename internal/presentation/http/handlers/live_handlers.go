package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/GrooveMedia/groove-menu-go/internal/application/container"
	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// topicHub fans one store subscription out to every connected client
// of a topic. The store subscription exists only while clients do, so
// the listener registry sees exactly one handle per topic.
type topicHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
	active  bool
}

// LiveHandlers serves the WebSocket push endpoints that replace
// client-side store listeners.
type LiveHandlers struct {
	container *container.Container

	mu   sync.Mutex
	hubs map[string]*topicHub
}

func NewLiveHandlers(c *container.Container) *LiveHandlers {
	return &LiveHandlers{
		container: c,
		hubs:      make(map[string]*topicHub),
	}
}

func (h *LiveHandlers) hub(topic string) *topicHub {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hubs[topic] == nil {
		h.hubs[topic] = &topicHub{clients: make(map[*websocket.Conn]*sync.Mutex)}
	}
	return h.hubs[topic]
}

// broadcast sends a payload to every client of a topic, dropping
// connections that fail to write.
func (h *LiveHandlers) broadcast(topic string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.container.Logger.HTTP().Error("Failed to encode push payload", "topic", topic, "error", err)
		return
	}

	hub := h.hub(topic)
	hub.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(hub.clients))
	for conn, writeMu := range hub.clients {
		conns[conn] = writeMu
	}
	hub.mu.Unlock()

	for conn, writeMu := range conns {
		writeMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, raw)
		writeMu.Unlock()
		if err != nil {
			h.detach(topic, conn)
		}
	}
}

// attach registers a client and starts the topic's store subscription
// on the first client.
func (h *LiveHandlers) attach(topic string, conn *websocket.Conn, subscribe func(context.Context) error) error {
	hub := h.hub(topic)

	hub.mu.Lock()
	hub.clients[conn] = &sync.Mutex{}
	needsSubscription := !hub.active
	if needsSubscription {
		hub.active = true
	}
	hub.mu.Unlock()

	if !needsSubscription {
		return nil
	}

	// The subscription outlives the request, it ends when the
	// registry cancels it.
	if err := subscribe(context.Background()); err != nil {
		hub.mu.Lock()
		hub.active = false
		delete(hub.clients, conn)
		hub.mu.Unlock()
		return err
	}
	return nil
}

// detach drops a client and tears the store subscription down when
// the last client leaves.
func (h *LiveHandlers) detach(topic string, conn *websocket.Conn) {
	hub := h.hub(topic)

	hub.mu.Lock()
	delete(hub.clients, conn)
	lastClient := len(hub.clients) == 0 && hub.active
	if lastClient {
		hub.active = false
	}
	hub.mu.Unlock()

	conn.Close()
	if lastClient {
		h.container.Registry.Remove(topic)
		h.container.Logger.Listeners().Debug("Last client left, listener removed", "topic", topic)
	}
}

// serve upgrades the connection and blocks reading until the client
// goes away.
func (h *LiveHandlers) serve(c *gin.Context, topic string, subscribe func(context.Context) error) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.container.Logger.HTTP().Error("WebSocket upgrade failed", "topic", topic, "error", err)
		return
	}

	if err := h.attach(topic, conn, subscribe); err != nil {
		h.container.Logger.HTTP().Error("Subscription failed", "topic", topic, "error", err)
		conn.Close()
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.detach(topic, conn)
}

func pushPayload(data any, err error) any {
	if err != nil {
		return gin.H{"error": err.Error()}
	}
	return gin.H{"data": data}
}

// BusinessInfo handles GET /ws/business
func (h *LiveHandlers) BusinessInfo(c *gin.Context) {
	topic := fmt.Sprintf("business-info-%s", h.container.BusinessID)
	h.serve(c, topic, func(ctx context.Context) error {
		return h.container.BusinessService.SubscribeToBusinessInfo(ctx, func(info *menu.BusinessInfo, err error) {
			h.broadcast(topic, pushPayload(info, err))
		})
	})
}

// Menus handles GET /ws/menus
func (h *LiveHandlers) Menus(c *gin.Context) {
	topic := fmt.Sprintf("menus-%s", h.container.BusinessID)
	h.serve(c, topic, func(ctx context.Context) error {
		return h.container.MenuService.SubscribeToMenus(ctx, func(menus []*menu.MenuSummary, err error) {
			h.broadcast(topic, pushPayload(menus, err))
		})
	})
}

// Announcements handles GET /ws/announcements
func (h *LiveHandlers) Announcements(c *gin.Context) {
	topic := fmt.Sprintf("announcements-%s", h.container.BusinessID)
	h.serve(c, topic, func(ctx context.Context) error {
		return h.container.AnnouncementService.SubscribeToAnnouncements(ctx, func(list []*menu.Announcement, err error) {
			h.broadcast(topic, pushPayload(list, err))
		})
	})
}
