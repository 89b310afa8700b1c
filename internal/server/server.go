package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"newsboard/internal/auth"
	"newsboard/internal/db"
	"newsboard/internal/logger"
	"newsboard/internal/metrics"
	"newsboard/internal/middleware"
	"newsboard/internal/models"
)

const (
	maxBodyBytes   = 1 << 20
	publishTimeout = 5 * time.Second

	msgServerError   = "Server error"
	msgInvalidLogin  = "Invalid password"
	msgUnauthorized  = "Unauthorized: Incorrect password"
	msgInvalidBody   = "Invalid request body"
	msgInvalidSince  = "Invalid time format"
	msgDBUnavailable = "DB unavailable"
)

// Store описывает операции хранилища, нужные обработчикам.
// ListRecent при отсутствии строк возвращает пустой срез, а не nil,
// чтобы GET /api/news отдавал [] вместо null.
type Store interface {
	Ping(ctx context.Context) error
	ListRecent(ctx context.Context, limit int) ([]models.NewsItem, error)
	InsertNews(ctx context.Context, n models.NewNews) (models.NewsItem, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// Notifier получает уведомление о каждой сохранённой новости.
type Notifier interface {
	NewsCreated(ctx context.Context, item models.NewsItem) error
}

// Server хранит зависимости HTTP-обработчиков.
type Server struct {
	store    Store
	gate     *auth.Gate
	notifier Notifier
	metrics  *metrics.Metrics
}

// NewServer создаёт новый экземпляр Server. notifier может быть nil.
func NewServer(store Store, gate *auth.Gate, notifier Notifier, m *metrics.Metrics) *Server {
	return &Server{
		store:    store,
		gate:     gate,
		notifier: notifier,
		metrics:  m,
	}
}

// Routes собирает маршруты и оборачивает их в middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/news", s.GetNews)
	mux.HandleFunc("POST /api/news", s.CreateNews)
	mux.HandleFunc("GET /api/news/count", s.GetNewNewsCount)
	mux.HandleFunc("POST /api/login", s.Login)
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(s.metrics)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.CORS(handler)
	return handler
}

// HealthCheck отвечает 200 OK, если база доступна, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, msgDBUnavailable, http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// GetNews возвращает JSON-массив из не более чем 20 последних новостей.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListRecent(r.Context(), db.RecentLimit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Login проверяет пароль администратора из тела запроса.
// Сессия не создаётся: ответ лишь подтверждает, что пароль верен.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if !s.gate.CheckLogin(req.Password) {
		s.metrics.AuthFailures.WithLabelValues(string(auth.KindLogin)).Inc()
		writeError(w, http.StatusUnauthorized, msgInvalidLogin)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true})
}

// CreateNews сохраняет новость. Пароль из заголовка проверяется до чтения тела,
// поэтому неавторизованный запрос никогда не доходит до базы.
func (s *Server) CreateNews(w http.ResponseWriter, r *http.Request) {
	if !s.gate.CheckHeader(r) {
		s.metrics.AuthFailures.WithLabelValues(string(auth.KindHeader)).Inc()
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var in models.NewsInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	n, err := in.ToNewNews()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.store.InsertNews(r.Context(), n)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.metrics.NewsCreated.Inc()

	log := logger.Log.WithFields(logger.Fields{
		"news_id":    item.ID,
		"request_id": middleware.RequestIDFromContext(r.Context()),
	})
	log.Info("News created")

	if s.notifier != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
		defer cancel()
		if err := s.notifier.NewsCreated(ctx, item); err != nil {
			log.WithError(err).Warn("Failed to publish news event")
		}
	}

	writeJSON(w, http.StatusOK, item)
}

// GetNewNewsCount возвращает JSON {"count": N} с количеством новостей,
// созданных после времени since в параметре запроса.
func (s *Server) GetNewNewsCount(w http.ResponseWriter, r *http.Request) {
	since, err := time.Parse(time.RFC3339, r.URL.Query().Get("since"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidSince)
		return
	}

	count, err := s.store.CountSince(r.Context(), since)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.CountResponse{Count: count})
}

// serverError пишет подробности в лог, а клиенту отдаёт только общий текст.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Log.WithError(err).WithFields(logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": middleware.RequestIDFromContext(r.Context()),
	}).Error("Storage operation failed")
	writeError(w, http.StatusInternalServerError, msgServerError)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
