package service

import (
	"fmt"

	"campusbingo/internal/common"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/listing"
)

// AuthorizeRoomAccess lets only the buyer and the seller of a room through.
// Callers report the denial as not found so room ids cannot be probed.
func AuthorizeRoomAccess(room *dbmysql.ChatRoom, userID uint64) (*dbmysql.ChatRoom, error) {
	if room == nil || !room.IsParticipant(userID) {
		return nil, common.ErrAccessDenied
	}
	return room, nil
}

// AuthorizeChatInitiation rejects a seller contacting themselves.
func AuthorizeChatInitiation(l *listing.Listing, userID uint64) error {
	if l.SellerID == userID {
		return fmt.Errorf("listing %d: %w", l.ID, common.ErrSelfChat)
	}
	return nil
}
