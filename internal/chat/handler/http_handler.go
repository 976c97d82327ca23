package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"campusbingo/internal/chat/service"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/notice"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type startConversationResponse struct {
	Room    *dbmysql.ChatRoom `json:"room"`
	Created bool              `json:"created"`
	Notice  string            `json:"notice,omitempty"`
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

type sendMessageResponse struct {
	Message *dbmysql.Message `json:"message"`
}

type unreadBadgeResponse struct {
	TotalUnread int64 `json:"total_unread"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
}

// bodyLimit rejects oversized message bodies at the edge, counting the same way MessageLog does.
type bodyLimit struct {
	validate  *validator.Validate
	maxLength int
}

func newBodyLimit(cfg *config.Config) bodyLimit {
	return bodyLimit{
		validate:  validator.New(),
		maxLength: cfg.Chat.MaxMessageLength,
	}
}

// check applies the cap to the trimmed body; blank bodies are the service's call.
func (b bodyLimit) check(body string) error {
	if b.maxLength <= 0 {
		return nil
	}
	if err := b.validate.Var(strings.TrimSpace(body), fmt.Sprintf("max=%d", b.maxLength)); err != nil {
		return fmt.Errorf("%d characters allowed: %w", b.maxLength, common.ErrMessageTooLong)
	}
	return nil
}

// requestBytes bounds a JSON request carrying a body at the cap: up to 6 bytes per escaped character plus envelope.
func (b bodyLimit) requestBytes() int64 {
	if b.maxLength <= 0 {
		return 1 << 20
	}
	return int64(b.maxLength)*6 + 1024
}

// HTTPHandler serves the chat API under /api/v1.
type HTTPHandler struct {
	chat    service.ChatService
	notices *notice.Translator
	tokens  *common.TokenManager
	limit   bodyLimit
	log     *slog.Logger
}

func NewHTTPHandler(
	chat service.ChatService,
	notices *notice.Translator,
	tokens *common.TokenManager,
	cfg *config.Config,
	log *slog.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		chat:    chat,
		notices: notices,
		tokens:  tokens,
		limit:   newBodyLimit(cfg),
		log:     log,
	}
}

// Router builds the mux router with logging on every route and auth on everything but health.
func (h *HTTPHandler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(common.LoggingMiddleware(h.log))

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.health).Methods(http.MethodGet)

	secured := api.NewRoute().Subrouter()
	secured.Use(common.AuthMiddleware(h.tokens))
	secured.HandleFunc("/listings/{listingId}/conversations", h.startConversation).Methods(http.MethodPost)
	secured.HandleFunc("/rooms/{roomId}", h.openRoom).Methods(http.MethodGet)
	secured.HandleFunc("/rooms/{roomId}/messages", h.sendMessage).Methods(http.MethodPost)
	secured.HandleFunc("/inbox", h.listInbox).Methods(http.MethodGet)
	secured.HandleFunc("/inbox/unread", h.unreadBadge).Methods(http.MethodGet)

	return router
}

func (h *HTTPHandler) startConversation(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.ParseUint(mux.Vars(r)["listingId"], 10, 64)
	if err != nil || listingID == 0 {
		h.writeError(w, r, fmt.Errorf("listing id: %w", common.ErrInvalidInput))
		return
	}

	user := common.PrincipalFromContext(r.Context())
	room, created, err := h.chat.StartOrResumeConversation(r.Context(), listingID, user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := startConversationResponse{Room: room, Created: created}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		name := h.chat.DisplayName(r.Context(), room.SellerID)
		resp.Notice = h.notices.ChatStarted(r.Header.Get("Accept-Language"), name)
	}
	writeJSON(w, status, resp)
}

func (h *HTTPHandler) openRoom(w http.ResponseWriter, r *http.Request) {
	user := common.PrincipalFromContext(r.Context())
	view, err := h.chat.OpenRoom(r.Context(), mux.Vars(r)["roomId"], user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limit.requestBytes())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:  "request body too large",
				Notice: h.notices.MessageTooLong(r.Header.Get("Accept-Language"), h.limit.maxLength),
			})
			return
		}
		h.writeError(w, r, fmt.Errorf("request body: %w", common.ErrInvalidInput))
		return
	}
	if err := h.limit.check(req.Body); err != nil {
		h.writeError(w, r, err)
		return
	}

	user := common.PrincipalFromContext(r.Context())
	msg, err := h.chat.SendMessage(r.Context(), mux.Vars(r)["roomId"], user, req.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sendMessageResponse{Message: msg})
}

func (h *HTTPHandler) listInbox(w http.ResponseWriter, r *http.Request) {
	inbox, err := h.chat.ListInbox(r.Context(), common.PrincipalFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inbox)
}

func (h *HTTPHandler) unreadBadge(w http.ResponseWriter, r *http.Request) {
	total, err := h.chat.GetGlobalUnreadBadge(r.Context(), common.PrincipalFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadBadgeResponse{TotalUnread: total})
}

func (h *HTTPHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("chat request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:  common.PublicMessage(err),
		Notice: h.notices.ForError(r.Header.Get("Accept-Language"), err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
