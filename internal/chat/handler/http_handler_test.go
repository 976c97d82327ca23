package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campusbingo/internal/chat/handler/mocks"
	"campusbingo/internal/chat/service"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/notice"
)

var alex = common.Principal{UserID: 1, Handle: "alex"}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", Issuer: "campus-bingo"},
		Chat: config.ChatConfig{MaxMessageLength: 10, DefaultLocale: "en"},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type httpFixture struct {
	svc    *mocks.MockChatService
	router http.Handler
	token  string
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	cfg := testConfig()

	tokens := common.NewTokenManager(cfg)
	token, err := tokens.GenerateToken(alex.UserID, alex.Handle, time.Hour)
	require.NoError(t, err)

	notices, err := notice.NewTranslator(cfg)
	require.NoError(t, err)

	svc := mocks.NewMockChatService(ctrl)
	h := NewHTTPHandler(svc, notices, tokens, cfg, discardLogger())
	return &httpFixture{svc: svc, router: h.Router(), token: token}
}

func (f *httpFixture) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+f.token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHTTPHandler_Health(t *testing.T) {
	f := newHTTPFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHTTPHandler_RequiresToken(t *testing.T) {
	f := newHTTPFixture(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/inbox", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestHTTPHandler_StartConversation(t *testing.T) {
	room := &dbmysql.ChatRoom{ID: "room-1", ListingID: 10, BuyerID: 1, SellerID: 2}

	tests := []struct {
		name           string
		path           string
		lang           string
		mockSetup      func(svc *mocks.MockChatService)
		expectedStatus int
		expectedNotice string
		expectedError  string
	}{
		{
			name: "new room",
			path: "/api/v1/listings/10/conversations",
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().StartOrResumeConversation(gomock.Any(), uint64(10), alex).Return(room, true, nil)
				svc.EXPECT().DisplayName(gomock.Any(), uint64(2)).Return("Jane Doe")
			},
			expectedStatus: http.StatusCreated,
			expectedNotice: "Chat started with Jane Doe!",
		},
		{
			name: "existing room",
			path: "/api/v1/listings/10/conversations",
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().StartOrResumeConversation(gomock.Any(), uint64(10), alex).Return(room, false, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "own listing in spanish",
			path: "/api/v1/listings/10/conversations",
			lang: "es",
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().StartOrResumeConversation(gomock.Any(), uint64(10), alex).
					Return(nil, false, fmt.Errorf("listing 10: %w", common.ErrSelfChat))
			},
			expectedStatus: http.StatusConflict,
			expectedNotice: "No puedes enviarte mensajes en tu propio anuncio.",
			expectedError:  "listing 10: cannot start a chat on your own listing",
		},
		{
			name: "inactive listing",
			path: "/api/v1/listings/10/conversations",
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().StartOrResumeConversation(gomock.Any(), uint64(10), alex).
					Return(nil, false, common.ErrListingUnavailable)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "not found",
		},
		{
			name:           "bad listing id",
			path:           "/api/v1/listings/abc/conversations",
			mockSetup:      func(svc *mocks.MockChatService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "listing id: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHTTPFixture(t)
			tt.mockSetup(f.svc)

			rec := f.do(http.MethodPost, tt.path, "", map[string]string{"Accept-Language": tt.lang})
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				resp := decodeError(t, rec)
				assert.Equal(t, tt.expectedError, resp.Error)
				assert.Equal(t, tt.expectedNotice, resp.Notice)
				return
			}

			var resp startConversationResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "room-1", resp.Room.ID)
			assert.Equal(t, tt.expectedStatus == http.StatusCreated, resp.Created)
			assert.Equal(t, tt.expectedNotice, resp.Notice)
		})
	}
}

func TestHTTPHandler_OpenRoomHidesForeignRooms(t *testing.T) {
	f := newHTTPFixture(t)

	f.svc.EXPECT().OpenRoom(gomock.Any(), "room-foreign", alex).Return(nil, common.ErrAccessDenied)
	f.svc.EXPECT().OpenRoom(gomock.Any(), "room-missing", alex).
		Return(nil, fmt.Errorf("room room-missing: %w", common.ErrNotFound))

	denied := f.do(http.MethodGet, "/api/v1/rooms/room-foreign", "", nil)
	missing := f.do(http.MethodGet, "/api/v1/rooms/room-missing", "", nil)

	assert.Equal(t, http.StatusNotFound, denied.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, missing.Body.String(), denied.Body.String())
}

func TestHTTPHandler_OpenRoom(t *testing.T) {
	f := newHTTPFixture(t)

	view := &service.RoomView{
		Room:        &dbmysql.ChatRoom{ID: "room-1", BuyerID: 1, SellerID: 2},
		Role:        dbmysql.RoleBuyer,
		Counterpart: service.Participant{UserID: 2, Handle: "jdoe", Name: "Jane Doe"},
		Messages: []*dbmysql.Message{
			{ID: 1, RoomID: "room-1", SenderID: 1, Body: "Is this available?"},
			{ID: 2, RoomID: "room-1", SenderID: 2, Body: "Yes!", IsRead: true},
		},
	}
	f.svc.EXPECT().OpenRoom(gomock.Any(), "room-1", alex).Return(view, nil)

	rec := f.do(http.MethodGet, "/api/v1/rooms/room-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got service.RoomView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Jane Doe", got.Counterpart.Name)
	require.Len(t, got.Messages, 2)
	assert.True(t, got.Messages[1].IsRead)
}

func TestHTTPHandler_SendMessage(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(svc *mocks.MockChatService)
		expectedStatus int
		expectedNotice string
	}{
		{
			name: "sent",
			body: `{"body":"Yes!"}`,
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().SendMessage(gomock.Any(), "room-1", alex, "Yes!").
					Return(&dbmysql.Message{ID: 2, RoomID: "room-1", SenderID: 1, Body: "Yes!"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "blank body",
			body: `{"body":"   "}`,
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().SendMessage(gomock.Any(), "room-1", alex, "   ").Return(nil, common.ErrEmptyMessage)
			},
			expectedStatus: http.StatusBadRequest,
			expectedNotice: "Cannot send an empty message.",
		},
		{
			name:           "too long",
			body:           `{"body":"this is more than ten characters"}`,
			mockSetup:      func(svc *mocks.MockChatService) {},
			expectedStatus: http.StatusBadRequest,
			expectedNotice: "Message is too long (max 10 characters).",
		},
		{
			name: "padding does not count toward the cap",
			body: `{"body":"   0123456789   "}`,
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().SendMessage(gomock.Any(), "room-1", alex, "   0123456789   ").
					Return(&dbmysql.Message{ID: 2, RoomID: "room-1", SenderID: 1, Body: "0123456789"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "oversized request is cut off",
			body:           `{"body":"` + strings.Repeat("a", 4096) + `"}`,
			mockSetup:      func(svc *mocks.MockChatService) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedNotice: "Message is too long (max 10 characters).",
		},
		{
			name:           "malformed json",
			body:           `{"body":`,
			mockSetup:      func(svc *mocks.MockChatService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			body: `{"body":"hi"}`,
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().SendMessage(gomock.Any(), "room-1", alex, "hi").Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHTTPFixture(t)
			tt.mockSetup(f.svc)

			rec := f.do(http.MethodPost, "/api/v1/rooms/room-1/messages", tt.body, nil)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp sendMessageResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, uint64(2), resp.Message.ID)
				return
			}
			resp := decodeError(t, rec)
			assert.Equal(t, tt.expectedNotice, resp.Notice)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal error", resp.Error)
			}
		})
	}
}

func TestHTTPHandler_Inbox(t *testing.T) {
	f := newHTTPFixture(t)

	f.svc.EXPECT().ListInbox(gomock.Any(), alex).Return(&service.Inbox{
		Conversations: []service.ConversationSummary{
			{Room: &dbmysql.ChatRoom{ID: "room-1"}, UnreadCount: 2},
		},
		TotalUnread:      2,
		HasConversations: true,
	}, nil)
	f.svc.EXPECT().GetGlobalUnreadBadge(gomock.Any(), alex).Return(int64(2), nil)

	rec := f.do(http.MethodGet, "/api/v1/inbox", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox service.Inbox
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	assert.True(t, inbox.HasConversations)
	assert.Equal(t, int64(2), inbox.TotalUnread)

	rec = f.do(http.MethodGet, "/api/v1/inbox/unread", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_unread":2}`, rec.Body.String())
}
