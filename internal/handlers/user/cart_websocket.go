package user

import (
	"net/http"
	"time"

	"cedra_storefront/internal/middleware"
	"cedra_storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// origines filtrées en amont par le middleware CORS
		return true
	},
}

type cartMessage struct {
	Type string `json:"type"`
	models.CartView
}

// CartWebSocket GET /api/cart/ws : pousse le panier à jour à chaque modification
func (h *CartHandler) CartWebSocket(c *gin.Context) {
	if h.notifier == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Synchronisation temps réel indisponible", "code": "unavailable"})
		return
	}
	userID := c.GetString(middleware.ContextUserID)
	ctx := c.Request.Context()
	log := h.log.WithField("user_id", userID)

	events, unsubscribe, err := h.notifier.Subscribe(ctx, userID)
	if err != nil {
		log.WithError(err).Error("❌ Abonnement panier impossible")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Synchronisation temps réel indisponible", "code": "unavailable"})
		return
	}
	defer unsubscribe()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("❌ Erreur upgrade WebSocket")
		return
	}
	defer conn.Close()

	// lecture en tâche de fond : détecte la fermeture côté client
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(kind string) bool {
		current, err := h.carts.Get(ctx, userID)
		if err != nil {
			log.WithError(err).Warn("⚠️ Lecture panier impossible")
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(cartMessage{Type: kind, CartView: models.NewCartView(current)}); err != nil {
			log.WithError(err).Debug("❌ Erreur envoi WebSocket")
			return false
		}
		return true
	}

	if !send("connected") {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-events:
			if !ok || !send("cart_updated") {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}
