package service

import (
	"context"
	"log/slog"

	"campusbingo/internal/chat/repository"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/listing"
	"campusbingo/internal/user"

	"github.com/samber/lo"
)

// Participant is the other side of a room as shown to the viewer.
type Participant struct {
	UserID uint64 `json:"user_id"`
	Handle string `json:"handle,omitempty"`
	Name   string `json:"name,omitempty"`
}

type ConversationSummary struct {
	Room        *dbmysql.ChatRoom       `json:"room"`
	Role        dbmysql.ParticipantRole `json:"role"`
	Counterpart Participant             `json:"counterpart"`
	Listing     *listing.Listing        `json:"listing,omitempty"`
	LastMessage *dbmysql.Message        `json:"last_message,omitempty"`
	UnreadCount int64                   `json:"unread_count"`
}

// InboxAggregator builds a user's conversation list across both roles.
type InboxAggregator struct {
	repo     repository.ChatRepository
	messages *MessageLog
	listings listing.Store
	users    user.UserRepository
	log      *slog.Logger
}

func NewInboxAggregator(
	repo repository.ChatRepository,
	messages *MessageLog,
	listings listing.Store,
	users user.UserRepository,
	log *slog.Logger,
) *InboxAggregator {
	return &InboxAggregator{
		repo:     repo,
		messages: messages,
		listings: listings,
		users:    users,
		log:      log,
	}
}

// ListConversations returns every room userID is in, most recently active first.
func (a *InboxAggregator) ListConversations(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	rooms, err := a.repo.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []ConversationSummary{}, nil
	}

	roomIDs := lo.Map(rooms, func(r *dbmysql.ChatRoom, _ int) string { return r.ID })
	counts, err := a.messages.UnreadCounts(ctx, roomIDs, userID)
	if err != nil {
		return nil, err
	}

	listingIDs := lo.Uniq(lo.Map(rooms, func(r *dbmysql.ChatRoom, _ int) uint64 { return r.ListingID }))
	listings, err := a.listings.GetListings(ctx, listingIDs)
	if err != nil {
		return nil, err
	}

	counterpartIDs := lo.Uniq(lo.Map(rooms, func(r *dbmysql.ChatRoom, _ int) uint64 { return r.Counterpart(userID) }))
	users, err := a.users.GetUsersByIDs(ctx, counterpartIDs)
	if err != nil {
		return nil, err
	}

	lastMessages, err := a.repo.LastMessages(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(rooms))
	for _, room := range rooms {
		counterpartID := room.Counterpart(userID)
		summaries = append(summaries, ConversationSummary{
			Room:        room,
			Role:        room.RoleOf(userID),
			Counterpart: participantFrom(counterpartID, users[counterpartID]),
			Listing:     listings[room.ListingID],
			LastMessage: lastMessages[room.ID],
			UnreadCount: counts[room.ID],
		})
	}
	return summaries, nil
}

// TotalUnread sums the per-room unread counts of ListConversations. Nothing is cached.
func (a *InboxAggregator) TotalUnread(ctx context.Context, userID uint64) (int64, error) {
	rooms, err := a.repo.ListRoomsForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(rooms) == 0 {
		return 0, nil
	}

	roomIDs := lo.Map(rooms, func(r *dbmysql.ChatRoom, _ int) string { return r.ID })
	counts, err := a.messages.UnreadCounts(ctx, roomIDs, userID)
	if err != nil {
		return 0, err
	}
	return lo.Sum(lo.Values(counts)), nil
}

func sumUnread(conversations []ConversationSummary) int64 {
	return lo.SumBy(conversations, func(c ConversationSummary) int64 { return c.UnreadCount })
}

func participantFrom(userID uint64, u *dbmysql.User) Participant {
	p := Participant{UserID: userID}
	if u != nil {
		p.Handle = u.Handle
		p.Name = u.FullName()
	}
	return p
}
