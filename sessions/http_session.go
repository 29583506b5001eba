package sessions

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/Desarso/flightai/media"
	"github.com/Desarso/flightai/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ImagePayload encodes img for JSON clients; nil stays nil.
func ImagePayload(img *media.Image) *models.ImagePayload {
	if img == nil {
		return nil
	}
	return &models.ImagePayload{
		MimeType:  img.MimeType,
		Data:      base64.StdEncoding.EncodeToString(img.Data),
		SourceURL: img.SourceURL,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the chat API for session on r.
func RegisterRoutes(r gin.IRouter, session *Session) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "session_id": session.ID})
	})

	r.POST("/chat", func(c *gin.Context) {
		var req models.Chat_Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		history, img, err := session.Submit(c.Request.Context(), req.Message)
		if err != nil {
			var agentErr *AgentError
			if errors.As(err, &agentErr) && !agentErr.Fatal {
				c.JSON(http.StatusBadRequest, gin.H{"error": agentErr.Message})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.Chat_Response{History: history, Image: ImagePayload(img)})
	})

	r.POST("/clear", func(c *gin.Context) {
		session.Clear()
		c.JSON(http.StatusOK, gin.H{"history": []models.Message{}})
	})

	r.GET("/history", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"history": session.History()})
	})

	r.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			session.Logger.WithError(err).Warn("WebSocket upgrade failed")
			return
		}
		NewWebSocketSession(conn, session).Serve(c.Request.Context())
	})
}

// NewRouter returns a gin engine with recovery, request logging and the
// chat routes.
func NewRouter(session *Session) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(session))
	RegisterRoutes(router, session)
	return router
}

func requestLogger(session *Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		session.Logger.WithField("transport", "http").Debugf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
