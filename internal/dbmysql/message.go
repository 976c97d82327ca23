package dbmysql

import (
	"time"
)

// Message is one entry of a room's append-only log. Only IsRead ever changes, and only from false to true.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    string    `gorm:"column:room_id;not null;size:36;index:idx_message_room_created,priority:1" json:"room_id"`
	SenderID  uint64    `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	IsRead    bool      `gorm:"column:is_read;not null" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_message_room_created,priority:2" json:"created_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}
