package demo

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhubert/chatmodal/internal/backend"
	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/logger"
)

// Route names an endpoint for failure injection.
type Route string

const (
	RouteHistory Route = "history"
	RouteList    Route = "list"
	RouteDelete  Route = "delete"
	RouteSend    Route = "send"
)

const (
	defaultPageSize = 10
	titleWidth      = 40
)

type conversation struct {
	id        int64
	userID    int
	sessionID string
	title     string
	// messages are stored oldest first.
	messages []backend.Message
	updated  time.Time
}

// Server is the fake backend.
type Server struct {
	mu            sync.Mutex
	scenario      *Scenario
	conversations map[string]*conversation
	nextConvID    int64
	nextMsgID     int64
	replyIdx      int
	failures      map[Route]int
	latency       time.Duration
	now           func() time.Time
	log           *slog.Logger
}

// NewServer returns a Server seeded from scenario.
func NewServer(scenario *Scenario) (*Server, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		scenario:      scenario,
		conversations: make(map[string]*conversation),
		failures:      make(map[Route]int),
		latency:       scenario.Latency,
		now:           time.Now,
		log:           logger.WithComponent("demo"),
	}
	s.seed()
	return s, nil
}

func (s *Server) seed() {
	now := s.now()
	for _, sc := range s.scenario.Conversations {
		start := now.Add(-sc.Age)
		c := s.newConversationLocked(s.scenario.UserID, sc.SessionID, sc.Title)
		for i, turn := range sc.Turns {
			s.appendLocked(c, turn.Speaker, turn.Text, start.Add(time.Duration(i)*time.Minute))
		}
	}
}

// Handler returns the HTTP routes:
//
//	GET    /historial/{sessionID}?pagina=N&cantidad=M
//	GET    /conversaciones/{userID}
//	DELETE /conversaciones/{conversationID}
//	POST   /chat
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.log.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.delay)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/historial/{sessionID}", s.handleHistory)
	r.Route("/conversaciones", func(r chi.Router) {
		r.Get("/{userID}", s.handleList)
		r.Delete("/{conversationID}", s.handleDelete)
	})
	r.Post("/chat", s.handleSend)
	return r
}

// FailNext makes the next n requests to route answer 500.
func (s *Server) FailNext(route Route, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] += n
}

// SetLatency changes the artificial delay of every response.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Conversations returns userID's conversations, most recently active first.
func (s *Server) Conversations(userID int) []backend.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(userID)
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		d := s.latency
		s.mu.Unlock()
		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) takeFailure(route Route) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[route] > 0 {
		s.failures[route]--
		return true
	}
	return false
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.takeFailure(RouteHistory) {
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	page := queryInt(r, "pagina", 1)
	size := queryInt(r, "cantidad", defaultPageSize)

	s.mu.Lock()
	var all []backend.Message
	if c, ok := s.conversations[sessionID]; ok {
		all = c.messages
	}
	resp := paginate(all, page, size)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// paginate slices msgs (oldest first) into newest-first pages.
func paginate(msgs []backend.Message, page, size int) backend.HistoryResponse {
	total := len(msgs)
	totalPages := (total + size - 1) / size

	out := []backend.Message{}
	// Page p covers the newest-first positions [(p-1)*size, p*size).
	for i := (page - 1) * size; i < page*size && i < total; i++ {
		out = append(out, msgs[total-1-i])
	}
	return backend.HistoryResponse{
		Mensajes: out,
		Paginacion: &backend.Pagination{
			PaginaActual:   page,
			TotalPaginas:   totalPages,
			TieneSiguiente: page < totalPages,
			TieneAnterior:  page > 1,
			Cantidad:       size,
		},
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.takeFailure(RouteList) {
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return
	}
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	list := s.listLocked(userID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, backend.ConversationsResponse{Conversaciones: list})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.takeFailure(RouteDelete) {
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid conversation id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, c := range s.conversations {
		if c.id == id {
			delete(s.conversations, sid)
			s.log.Info("conversation deleted", "conversationID", id, "sessionID", sid)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "conversation not found", http.StatusNotFound)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if s.takeFailure(RouteSend) {
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return
	}
	var req backend.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.IDSesion == "" {
		http.Error(w, "id_sesion is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	c, ok := s.conversations[req.IDSesion]
	if !ok {
		title := chat.Preview(req.Mensaje, titleWidth)
		if title == "" {
			title = "Nueva conversación"
		}
		c = s.newConversationLocked(req.IDUsuario, req.IDSesion, title)
	}
	now := s.now()
	s.appendLocked(c, backend.SpeakerHuman, req.Mensaje, now)
	reply := s.replyLocked(req.Mensaje)
	s.appendLocked(c, backend.SpeakerAI, reply, now)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, backend.SendResponse{Output: reply})
}

func (s *Server) replyLocked(msg string) string {
	replies := s.scenario.Replies
	if len(replies) == 0 {
		return "Recibido: " + msg
	}
	reply := replies[s.replyIdx%len(replies)]
	s.replyIdx++
	return reply
}

func (s *Server) newConversationLocked(userID int, sessionID, title string) *conversation {
	s.nextConvID++
	c := &conversation{
		id:        s.nextConvID,
		userID:    userID,
		sessionID: sessionID,
		title:     title,
		updated:   s.now(),
	}
	s.conversations[sessionID] = c
	return c
}

func (s *Server) appendLocked(c *conversation, speaker backend.Speaker, text string, at time.Time) {
	s.nextMsgID++
	c.messages = append(c.messages, backend.Message{
		ID:       s.nextMsgID,
		IDSesion: c.sessionID,
		Mensaje:  backend.MessageBody{Tipo: speaker, Contenido: text},
		Creado:   at.UTC().Format(time.RFC3339),
	})
	c.updated = at
}

func (s *Server) listLocked(userID int) []backend.Conversation {
	var convs []*conversation
	for _, c := range s.conversations {
		if c.userID == userID {
			convs = append(convs, c)
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		if !convs[i].updated.Equal(convs[j].updated) {
			return convs[i].updated.After(convs[j].updated)
		}
		return convs[i].id > convs[j].id
	})
	out := make([]backend.Conversation, len(convs))
	for i, c := range convs {
		out[i] = backend.Conversation{ID: c.id, IDSesion: c.sessionID, Titulo: c.title}
	}
	return out
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
