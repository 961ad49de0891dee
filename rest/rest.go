// Package rest is the operator API: session login, global settings, and
// per-chat statistics. Players never touch it; the chat transport is the
// only player-facing surface.
package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/game"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

const sessionHeader = "X-Admin-Session"
const sessionTTL = 12 * time.Hour

type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server exposes the admin endpoints over gin.
type Server struct {
	store      game.Store
	adminToken string
	sessions   cmap.ConcurrentMap
}

func NewServer(store game.Store, adminToken string) *Server {
	return &Server{
		store:      store,
		adminToken: adminToken,
		sessions:   cmap.New(),
	}
}

// Run blocks serving the API on the given port.
func (s *Server) Run(portNo uint) error {
	r := gin.Default()

	r.POST("/admin/login", s.login)
	r.GET("/internal/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin", s.requireSession)
	admin.GET("/settings/start-cash", s.getStartCash)
	admin.PUT("/settings/start-cash", s.updateStartCash)
	admin.GET("/chats/:vkID/stats", s.chatStats)

	restLogger.Info().Msg(fmt.Sprintf("Admin API listening on :%d", portNo))
	return r.Run(fmt.Sprintf(":%d", portNo))
}

type loginRequest struct {
	Token string `json:"token"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: "Invalid login payload"})
		return
	}
	if req.Token != s.adminToken {
		c.JSON(http.StatusUnauthorized, appError{Code: http.StatusUnauthorized, Message: "Wrong token"})
		return
	}

	session := uuid.NewString()
	s.sessions.Set(session, time.Now().Add(sessionTTL))
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (s *Server) requireSession(c *gin.Context) {
	session := c.GetHeader(sessionHeader)
	if session == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, appError{Code: http.StatusUnauthorized, Message: "Missing session"})
		return
	}
	v, ok := s.sessions.Get(session)
	if !ok || time.Now().After(v.(time.Time)) {
		s.sessions.Remove(session)
		c.AbortWithStatusJSON(http.StatusUnauthorized, appError{Code: http.StatusUnauthorized, Message: "Session expired"})
		return
	}
	c.Next()
}

func (s *Server) ready(c *gin.Context) {
	if _, err := s.store.GetGlobalSettings(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, appError{Code: http.StatusServiceUnavailable, Message: "Store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) getStartCash(c *gin.Context) {
	settings, err := s.store.GetGlobalSettings(c.Request.Context())
	if err != nil {
		restLogger.Error().Msgf("Could not read settings: %s", err)
		c.JSON(http.StatusInternalServerError, appError{Code: http.StatusInternalServerError, Message: "Could not read settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"startCash": settings.StartCash})
}

type startCashRequest struct {
	StartCash int64 `json:"startCash"`
}

func (s *Server) updateStartCash(c *gin.Context) {
	var req startCashRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: "Invalid payload"})
		return
	}
	if req.StartCash <= 0 {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: "startCash must be positive"})
		return
	}
	if err := s.store.SetStartCash(c.Request.Context(), req.StartCash); err != nil {
		restLogger.Error().Msgf("Could not update settings: %s", err)
		c.JSON(http.StatusInternalServerError, appError{Code: http.StatusInternalServerError, Message: "Could not update settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"startCash": req.StartCash})
}

func (s *Server) chatStats(c *gin.Context) {
	vkID, err := strconv.ParseInt(c.Param("vkID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: "Invalid chat id"})
		return
	}
	chat, err := s.store.GetChatByVKID(c.Request.Context(), vkID)
	if err != nil {
		c.JSON(http.StatusNotFound, appError{Code: http.StatusNotFound, Message: "Chat not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"gamesPlayed": chat.GamesPlayed,
		"casinoCash":  chat.CasinoCash,
	})
}
