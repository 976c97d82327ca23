package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusbingo/internal/chat/repository"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmysql"

	"github.com/samber/lo"
)

var nowUTC = func() time.Time {
	return time.Now().UTC()
}

// MessageLog is the ordered, append-only message store of each room plus its read state.
type MessageLog struct {
	repo      repository.ChatRepository
	maxLength int // in characters, after trimming; zero disables the cap
	log       *slog.Logger
}

func NewMessageLog(repo repository.ChatRepository, cfg *config.Config, log *slog.Logger) *MessageLog {
	return &MessageLog{
		repo:      repo,
		maxLength: cfg.Chat.MaxMessageLength,
		log:       log,
	}
}

// ListMessages returns the room's messages oldest first.
func (m *MessageLog) ListMessages(ctx context.Context, roomID string) ([]*dbmysql.Message, error) {
	return m.repo.ListMessages(ctx, roomID)
}

// AppendMessage stores a trimmed, non-empty body from a participant and bumps the room's
// updated_at in the same transaction. Bodies over the cap fail with common.ErrMessageTooLong.
func (m *MessageLog) AppendMessage(ctx context.Context, roomID string, senderID uint64, rawBody string) (*dbmysql.Message, error) {
	body := strings.TrimSpace(rawBody)
	if body == "" {
		return nil, common.ErrEmptyMessage
	}
	if m.maxLength > 0 && lo.RuneLength(body) > m.maxLength {
		return nil, fmt.Errorf("%d characters allowed: %w", m.maxLength, common.ErrMessageTooLong)
	}

	var msg *dbmysql.Message
	err := m.repo.WithinTransaction(ctx, func(tx repository.ChatRepository) error {
		room, err := tx.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if !room.IsParticipant(senderID) {
			return common.ErrAccessDenied
		}

		now := nowUTC()
		msg = &dbmysql.Message{
			RoomID:    room.ID,
			SenderID:  senderID,
			Body:      body,
			IsRead:    false,
			CreatedAt: now,
		}
		if err := tx.CreateMessage(ctx, msg); err != nil {
			return err
		}
		return tx.TouchRoom(ctx, room.ID, now)
	})
	if err != nil {
		return nil, err
	}

	m.log.Debug("message appended", "room_id", roomID, "message_id", msg.ID, "sender_id", senderID)
	return msg, nil
}

// MarkAllReadExcept flips every unread message not sent by readerID. Repeating it is a no-op.
func (m *MessageLog) MarkAllReadExcept(ctx context.Context, roomID string, readerID uint64) (int64, error) {
	n, err := m.repo.MarkRead(ctx, roomID, readerID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.log.Debug("messages marked read", "room_id", roomID, "reader_id", readerID, "count", n)
	}
	return n, nil
}

// UnreadCount is UnreadCounts for a single room.
func (m *MessageLog) UnreadCount(ctx context.Context, roomID string, forUserID uint64) (int64, error) {
	counts, err := m.UnreadCounts(ctx, []string{roomID}, forUserID)
	if err != nil {
		return 0, err
	}
	return counts[roomID], nil
}

// UnreadCounts is the one place unread messages are counted: unread and not sent by forUserID.
// The inbox and the global badge both read through it.
func (m *MessageLog) UnreadCounts(ctx context.Context, roomIDs []string, forUserID uint64) (map[string]int64, error) {
	counts, err := m.repo.CountUnread(ctx, roomIDs, forUserID)
	if err != nil {
		return nil, fmt.Errorf("unread counts for user %d: %w", forUserID, err)
	}
	return counts, nil
}
