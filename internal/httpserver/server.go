package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/auth"
	"github.com/LEOK66/Modo-sub000/internal/blob"
	"github.com/LEOK66/Modo-sub000/internal/chat"
	"github.com/LEOK66/Modo-sub000/internal/config"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/LEOK66/Modo-sub000/internal/profiles"
	"github.com/LEOK66/Modo-sub000/internal/reports"
	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/storage/memory"
	"github.com/LEOK66/Modo-sub000/internal/storage/postgres"
	"github.com/LEOK66/Modo-sub000/internal/tasks"
	"github.com/LEOK66/Modo-sub000/internal/tools"
)

// Server wires storage, the assistant runtime and all HTTP handlers.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage selects Memory or Postgres based on DATABASE_URL.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Connecting to PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("PostgreSQL connection failed: %v", err)
		log.Println("Falling back to in-memory storage")
		s.storage = memory.New()
		return
	}
	log.Println("PostgreSQL connected")
	s.storage = pgStorage
}

func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth
	authService := auth.NewService(s.config, s.storage)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)
	authHandlers := auth.NewHandlers(authService)
	s.mux.HandleFunc("POST /v1/auth/dev", authHandlers.HandleDevAuth)

	// Profiles
	profilesHandlers := profiles.NewHandlers(profiles.NewService(s.storage))
	s.mux.HandleFunc("GET /v1/profiles", profilesHandlers.HandleList)
	s.mux.HandleFunc("POST /v1/profiles", profilesHandlers.HandleCreate)
	s.mux.HandleFunc("PATCH /v1/profiles/{id}", profilesHandlers.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/profiles/{id}", profilesHandlers.HandleDelete)

	// Tasks
	tasksService := tasks.NewService(s.getTasksStorage(), s.storage)
	tasksHandlers := tasks.NewHandlers(tasksService)
	s.mux.HandleFunc("POST /v1/tasks", tasksHandlers.HandleCreateTasks)
	s.mux.HandleFunc("GET /v1/tasks", tasksHandlers.HandleListTasks)
	s.mux.HandleFunc("PATCH /v1/tasks/{id}", tasksHandlers.HandleUpdateTask)
	s.mux.HandleFunc("DELETE /v1/tasks/{id}", tasksHandlers.HandleDeleteTask)

	// Plans
	plansService := plans.NewService(s.getPlansStorage(), s.storage)
	plansHandlers := plans.NewHandlers(plansService)
	s.mux.HandleFunc("GET /v1/plans", plansHandlers.HandleListPlans)
	s.mux.HandleFunc("GET /v1/plans/{id}", plansHandlers.HandleGetPlan)

	// Assistant runtime: one registry and bus shared by every exchange.
	registry := assistant.NewRegistry()
	bus := assistant.NewBus()
	tools.RegisterAll(registry, bus, tasksService, plansService)

	provider := ai.NewProviderFromConfig(s.config)
	chatService := chat.NewService(
		s.getChatStorage(),
		s.storage,
		provider,
		registry,
		bus,
		chat.Options{
			HistoryLimit: s.config.ChatHistoryLimit,
			MaxToolCalls: s.config.AIMaxToolCalls,
			MaxTokens:    s.config.AIMaxOutputTokens,
			Timeout:      time.Duration(s.config.AITimeoutSeconds) * time.Second,
		},
	)
	chatHandlers := chat.NewHandlers(chatService)
	s.mux.HandleFunc("POST /v1/chat/messages", chatHandlers.HandleSendMessage)
	s.mux.HandleFunc("GET /v1/chat/messages", chatHandlers.HandleListMessages)

	// Plan exports (PDF, optionally uploaded to S3)
	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Printf("Blob storage init failed: %v", err)
		log.Println("Plan exports will be served inline")
		blobStore = nil
		blobMode = config.BlobModeLocal
	}
	log.Printf("Blob storage mode: %s", blobMode)
	reportsHandlers := reports.NewHandlers(
		reports.NewService(s.getPlansStorage(), blobStore, s.config.Blob.S3.PresignTTLSeconds))
	s.mux.HandleFunc("GET /v1/plans/{id}/export", reportsHandlers.HandleExportPlan)
}

func (s *Server) getChatStorage() storage.ChatStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetChatStorage()
	case *postgres.PostgresStorage:
		return st.GetChatStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getTasksStorage() storage.TasksStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetTasksStorage()
	case *postgres.PostgresStorage:
		return st.GetTasksStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getPlansStorage() storage.PlansStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetPlansStorage()
	case *postgres.PostgresStorage:
		return st.GetPlansStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the fully assembled middleware chain, outermost first:
// CORS -> Rate Limit -> Auth -> Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		handler = s.authMiddleware.RequireAuth(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	handler := s.Handler()

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Chat API: http://localhost%s/v1/chat/messages\n", addr)

	return http.ListenAndServe(addr, handler)
}

func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
