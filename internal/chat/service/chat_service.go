//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../handler/mocks/mock_chat_service.go -package=mocks
package service

import (
	"context"
	"errors"
	"log/slog"

	"campusbingo/internal/common"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/listing"
	"campusbingo/internal/user"
)

// RoomView is everything a participant sees when entering a room.
type RoomView struct {
	Room        *dbmysql.ChatRoom       `json:"room"`
	Role        dbmysql.ParticipantRole `json:"role"`
	Counterpart Participant             `json:"counterpart"`
	Listing     *listing.Listing        `json:"listing,omitempty"`
	Messages    []*dbmysql.Message      `json:"messages"`
}

type Inbox struct {
	Conversations    []ConversationSummary `json:"conversations"`
	TotalUnread      int64                 `json:"total_unread"`
	HasConversations bool                  `json:"has_conversations"`
}

// ChatService is the surface exposed to the handler layer. Every call needs an authenticated principal.
type ChatService interface {
	StartOrResumeConversation(ctx context.Context, listingID uint64, currentUser common.Principal) (*dbmysql.ChatRoom, bool, error)
	OpenRoom(ctx context.Context, roomID string, currentUser common.Principal) (*RoomView, error)
	SendMessage(ctx context.Context, roomID string, currentUser common.Principal, text string) (*dbmysql.Message, error)
	ListInbox(ctx context.Context, currentUser common.Principal) (*Inbox, error)
	GetGlobalUnreadBadge(ctx context.Context, currentUser common.Principal) (int64, error)
	// DisplayName is the name shown for userID, or "" when unknown.
	DisplayName(ctx context.Context, userID uint64) string
}

type chatService struct {
	registry *Registry
	messages *MessageLog
	inbox    *InboxAggregator
	listings listing.Store
	users    user.UserRepository
	log      *slog.Logger
}

// Constructor used in DI/wire
func NewChatService(
	registry *Registry,
	messages *MessageLog,
	inbox *InboxAggregator,
	listings listing.Store,
	users user.UserRepository,
	log *slog.Logger,
) ChatService {
	return &chatService{
		registry: registry,
		messages: messages,
		inbox:    inbox,
		listings: listings,
		users:    users,
		log:      log,
	}
}

func (s *chatService) StartOrResumeConversation(ctx context.Context, listingID uint64, currentUser common.Principal) (*dbmysql.ChatRoom, bool, error) {
	if !currentUser.IsAuthenticated() {
		return nil, false, common.ErrUnauthenticated
	}

	return s.registry.GetOrCreateRoom(ctx, listingID, currentUser.UserID)
}

// OpenRoom marks the counterpart's messages read before listing them.
func (s *chatService) OpenRoom(ctx context.Context, roomID string, currentUser common.Principal) (*RoomView, error) {
	room, err := s.participantRoom(ctx, roomID, currentUser)
	if err != nil {
		return nil, err
	}

	if _, err := s.messages.MarkAllReadExcept(ctx, room.ID, currentUser.UserID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListMessages(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	view := &RoomView{
		Room:     room,
		Role:     room.RoleOf(currentUser.UserID),
		Messages: msgs,
	}

	counterpartID := room.Counterpart(currentUser.UserID)
	u, err := s.users.GetUserByID(ctx, counterpartID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	view.Counterpart = participantFrom(counterpartID, u)

	// A room outlives its listing's visibility; show it without listing details then.
	l, err := s.listings.GetListing(ctx, room.ListingID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	view.Listing = l

	return view, nil
}

func (s *chatService) SendMessage(ctx context.Context, roomID string, currentUser common.Principal, text string) (*dbmysql.Message, error) {
	room, err := s.participantRoom(ctx, roomID, currentUser)
	if err != nil {
		return nil, err
	}
	return s.messages.AppendMessage(ctx, room.ID, currentUser.UserID, text)
}

func (s *chatService) ListInbox(ctx context.Context, currentUser common.Principal) (*Inbox, error) {
	if !currentUser.IsAuthenticated() {
		return nil, common.ErrUnauthenticated
	}

	conversations, err := s.inbox.ListConversations(ctx, currentUser.UserID)
	if err != nil {
		return nil, err
	}
	return &Inbox{
		Conversations:    conversations,
		TotalUnread:      sumUnread(conversations),
		HasConversations: len(conversations) > 0,
	}, nil
}

func (s *chatService) GetGlobalUnreadBadge(ctx context.Context, currentUser common.Principal) (int64, error) {
	if !currentUser.IsAuthenticated() {
		return 0, common.ErrUnauthenticated
	}
	return s.inbox.TotalUnread(ctx, currentUser.UserID)
}

func (s *chatService) DisplayName(ctx context.Context, userID uint64) string {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Warn("failed to resolve display name", "user_id", userID, "error", err)
		}
		return ""
	}
	return u.FullName()
}

// participantRoom loads a room for a participant. Missing and foreign rooms look the same.
func (s *chatService) participantRoom(ctx context.Context, roomID string, currentUser common.Principal) (*dbmysql.ChatRoom, error) {
	if !currentUser.IsAuthenticated() {
		return nil, common.ErrUnauthenticated
	}

	room, err := s.registry.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room, err = AuthorizeRoomAccess(room, currentUser.UserID)
	if err != nil {
		s.log.Debug("room access denied", "room_id", roomID, "user_id", currentUser.UserID)
		return nil, err
	}
	return room, nil
}
