//go:generate go run go.uber.org/mock/mockgen -source=chat_repository.go -destination=../service/mocks/mock_chat_repository.go -package=mocks
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusbingo/internal/common"
	"campusbingo/internal/dbmysql"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// ChatRepository stores rooms and their messages.
type ChatRepository interface {
	FindRoom(ctx context.Context, listingID, buyerID uint64) (*dbmysql.ChatRoom, error)
	GetRoom(ctx context.Context, roomID string) (*dbmysql.ChatRoom, error)
	// CreateRoom returns common.ErrConcurrentCreation when (listing, buyer) already has a room.
	CreateRoom(ctx context.Context, room *dbmysql.ChatRoom) error
	// TouchRoom moves updated_at forward to at; it never moves it back.
	TouchRoom(ctx context.Context, roomID string, at time.Time) error
	ListRoomsForUser(ctx context.Context, userID uint64) ([]*dbmysql.ChatRoom, error)

	CreateMessage(ctx context.Context, msg *dbmysql.Message) error
	ListMessages(ctx context.Context, roomID string) ([]*dbmysql.Message, error)
	// LastMessages returns the newest message of each room; empty rooms are absent.
	LastMessages(ctx context.Context, roomIDs []string) (map[string]*dbmysql.Message, error)
	MarkRead(ctx context.Context, roomID string, readerID uint64) (int64, error)
	CountUnread(ctx context.Context, roomIDs []string, forUserID uint64) (map[string]int64, error)

	// WithinTransaction runs fn against a repository bound to a single transaction.
	WithinTransaction(ctx context.Context, fn func(repo ChatRepository) error) error
}

type chatRepo struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewChatRepository(db *gorm.DB, log *slog.Logger) ChatRepository {
	return &chatRepo{
		db:  db,
		log: log,
	}
}

func (r *chatRepo) FindRoom(ctx context.Context, listingID, buyerID uint64) (*dbmysql.ChatRoom, error) {
	var room dbmysql.ChatRoom
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND buyer_id = ?", listingID, buyerID).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room for listing %d and buyer %d: %w", listingID, buyerID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *chatRepo) GetRoom(ctx context.Context, roomID string) (*dbmysql.ChatRoom, error) {
	var room dbmysql.ChatRoom
	err := r.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room %s: %w", roomID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func (r *chatRepo) CreateRoom(ctx context.Context, room *dbmysql.ChatRoom) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Debug("room insert lost the race", "listing_id", room.ListingID, "buyer_id", room.BuyerID)
			return fmt.Errorf("listing %d buyer %d: %w", room.ListingID, room.BuyerID, common.ErrConcurrentCreation)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *chatRepo) TouchRoom(ctx context.Context, roomID string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.ChatRoom{}).
		Where("id = ?", roomID).
		UpdateColumn("updated_at", gorm.Expr("GREATEST(updated_at, ?)", at)).Error
	if err != nil {
		return fmt.Errorf("failed to touch room: %w", err)
	}
	return nil
}

func (r *chatRepo) ListRoomsForUser(ctx context.Context, userID uint64) ([]*dbmysql.ChatRoom, error) {
	var rooms []*dbmysql.ChatRoom
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *chatRepo) CreateMessage(ctx context.Context, msg *dbmysql.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *chatRepo) ListMessages(ctx context.Context, roomID string) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *chatRepo) LastMessages(ctx context.Context, roomIDs []string) (map[string]*dbmysql.Message, error) {
	last := make(map[string]*dbmysql.Message, len(roomIDs))
	if len(roomIDs) == 0 {
		return last, nil
	}

	ranked := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Select("chat_messages.*, ROW_NUMBER() OVER (PARTITION BY room_id ORDER BY created_at DESC, id DESC) AS rn").
		Where("room_id IN ?", roomIDs)

	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Select("id, room_id, sender_id, body, is_read, created_at").
		Where("rn = ?", 1).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get last messages: %w", err)
	}

	for _, msg := range messages {
		last[msg.RoomID] = msg
	}
	return last, nil
}

func (r *chatRepo) MarkRead(ctx context.Context, roomID string, readerID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type unreadRow struct {
	RoomID string
	Unread int64
}

// CountUnread counts, per room, messages still unread that forUserID did not send.
// Every requested room is present in the result, with zero when nothing is unread.
func (r *chatRepo) CountUnread(ctx context.Context, roomIDs []string, forUserID uint64) (map[string]int64, error) {
	counts := make(map[string]int64, len(roomIDs))
	if len(roomIDs) == 0 {
		return counts, nil
	}
	for _, id := range roomIDs {
		counts[id] = 0
	}

	var rows []unreadRow
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Select("room_id, COUNT(*) AS unread").
		Where("room_id IN ? AND sender_id <> ? AND is_read = ?", roomIDs, forUserID, false).
		Group("room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	for _, row := range rows {
		counts[row.RoomID] = row.Unread
	}
	return counts, nil
}

func (r *chatRepo) WithinTransaction(ctx context.Context, fn func(repo ChatRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&chatRepo{db: tx, log: r.log})
	})
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
