package dbmysql

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantRole string

const (
	RoleNone   ParticipantRole = ""
	RoleBuyer  ParticipantRole = "buyer"
	RoleSeller ParticipantRole = "seller"
)

// ChatRoom is the two-party thread between the buyer and the seller of one listing.
// At most one room exists per (listing, buyer); SellerID is copied from the listing at creation.
type ChatRoom struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ListingID uint64    `gorm:"column:listing_id;not null;uniqueIndex:idx_room_listing_buyer,priority:1" json:"listing_id"`
	BuyerID   uint64    `gorm:"column:buyer_id;not null;uniqueIndex:idx_room_listing_buyer,priority:2;index" json:"buyer_id"`
	SellerID  uint64    `gorm:"column:seller_id;not null;index" json:"seller_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index" json:"updated_at"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RoleOf reports which side of the room userID is on.
func (r *ChatRoom) RoleOf(userID uint64) ParticipantRole {
	switch userID {
	case r.BuyerID:
		return RoleBuyer
	case r.SellerID:
		return RoleSeller
	default:
		return RoleNone
	}
}

func (r *ChatRoom) IsParticipant(userID uint64) bool {
	return userID != 0 && r.RoleOf(userID) != RoleNone
}

// Counterpart returns the other participant as seen by userID.
func (r *ChatRoom) Counterpart(userID uint64) uint64 {
	if r.RoleOf(userID) == RoleBuyer {
		return r.SellerID
	}
	return r.BuyerID
}
