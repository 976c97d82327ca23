package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campusbingo/internal/chat/repository"
	"campusbingo/internal/common"
	"campusbingo/internal/dbmysql"

	"github.com/google/uuid"
)

// memRepo is an in-memory ChatRepository with the same uniqueness and ordering rules as the MySQL one.
type memRepo struct {
	mu        sync.Mutex
	rooms     map[string]*dbmysql.ChatRoom
	messages  []*dbmysql.Message
	nextMsgID uint64

	// beforeCreate runs outside the lock, before the unique check.
	beforeCreate func()
}

func newMemRepo() *memRepo {
	return &memRepo{rooms: make(map[string]*dbmysql.ChatRoom)}
}

var _ repository.ChatRepository = (*memRepo)(nil)

func (r *memRepo) FindRoom(_ context.Context, listingID, buyerID uint64) (*dbmysql.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.ListingID == listingID && room.BuyerID == buyerID {
			c := *room
			return &c, nil
		}
	}
	return nil, fmt.Errorf("room for listing %d: %w", listingID, common.ErrNotFound)
}

func (r *memRepo) GetRoom(_ context.Context, roomID string) (*dbmysql.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, common.ErrNotFound)
	}
	c := *room
	return &c, nil
}

func (r *memRepo) CreateRoom(_ context.Context, room *dbmysql.ChatRoom) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rooms {
		if existing.ListingID == room.ListingID && existing.BuyerID == room.BuyerID {
			return fmt.Errorf("duplicate: %w", common.ErrConcurrentCreation)
		}
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := nowUTC()
	room.CreatedAt, room.UpdatedAt = now, now
	c := *room
	r.rooms[room.ID] = &c
	return nil
}

func (r *memRepo) TouchRoom(_ context.Context, roomID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// recency only moves forward, like GREATEST(updated_at, ?) in MySQL
	if room, ok := r.rooms[roomID]; ok && at.After(room.UpdatedAt) {
		room.UpdatedAt = at
	}
	return nil
}

func (r *memRepo) ListRoomsForUser(_ context.Context, userID uint64) ([]*dbmysql.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dbmysql.ChatRoom
	for _, room := range r.rooms {
		if room.BuyerID == userID || room.SellerID == userID {
			c := *room
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memRepo) CreateMessage(_ context.Context, msg *dbmysql.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMsgID++
	msg.ID = r.nextMsgID
	c := *msg
	r.messages = append(r.messages, &c)
	return nil
}

func (r *memRepo) ListMessages(_ context.Context, roomID string) ([]*dbmysql.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dbmysql.Message
	for _, m := range r.messages {
		if m.RoomID == roomID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memRepo) LastMessages(ctx context.Context, roomIDs []string) (map[string]*dbmysql.Message, error) {
	last := make(map[string]*dbmysql.Message, len(roomIDs))
	for _, id := range roomIDs {
		msgs, _ := r.ListMessages(ctx, id)
		if len(msgs) > 0 {
			last[id] = msgs[len(msgs)-1]
		}
	}
	return last, nil
}

func (r *memRepo) MarkRead(_ context.Context, roomID string, readerID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.RoomID == roomID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CountUnread(_ context.Context, roomIDs []string, forUserID uint64) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64, len(roomIDs))
	for _, id := range roomIDs {
		counts[id] = 0
	}
	for _, m := range r.messages {
		if _, ok := counts[m.RoomID]; ok && m.SenderID != forUserID && !m.IsRead {
			counts[m.RoomID]++
		}
	}
	return counts, nil
}

// WithinTransaction restores the previous state when fn fails.
func (r *memRepo) WithinTransaction(_ context.Context, fn func(repo repository.ChatRepository) error) error {
	r.mu.Lock()
	rooms := make(map[string]dbmysql.ChatRoom, len(r.rooms))
	for id, room := range r.rooms {
		rooms[id] = *room
	}
	msgCount := len(r.messages)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		for id, room := range rooms {
			c := room
			r.rooms[id] = &c
		}
		r.messages = r.messages[:msgCount]
		return err
	}
	return nil
}

func (r *memRepo) roomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

func (r *memRepo) messageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// stepClock advances one second per reading so recency ordering is deterministic.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}
