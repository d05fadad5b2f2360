package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ransomsim/internal/middleware"
	"ransomsim/internal/models"
	"ransomsim/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router      *mux.Router
	logger      *logrus.Logger
	chatService service.ChatService
	cfg         *models.Config
	server      *http.Server
}

func NewServer(cfg *models.Config, chatService service.ChatService, logger *logrus.Logger) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		logger:      logger,
		chatService: chatService,
		cfg:         cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger))

	// Health check
	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)

	// Metrics
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	// Victim-facing chat
	chat := s.router.PathPrefix("/chat/{conversationID}").Subrouter()
	chat.HandleFunc("/messages", s.handleSubmitMessage()).Methods(http.MethodPost)
	chat.HandleFunc("/messages", s.handleGetMessages()).Methods(http.MethodGet)
	chat.HandleFunc("/presence", s.handleGetPresence()).Methods(http.MethodGet)
	chat.HandleFunc("/events", s.handleEvents()).Methods(http.MethodGet)

	// Operator admin
	admin := s.router.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/conversations", s.handleCreateConversation()).Methods(http.MethodPost)
	admin.HandleFunc("/conversations", s.handleListConversations()).Methods(http.MethodGet)
	admin.HandleFunc("/conversations/{conversationID}", s.handleGetConversation()).Methods(http.MethodGet)
	admin.HandleFunc("/conversations/{conversationID}", s.handleUpdateConversation()).Methods(http.MethodPatch)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
