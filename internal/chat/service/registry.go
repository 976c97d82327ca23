package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campusbingo/internal/chat/repository"
	"campusbingo/internal/common"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/listing"
)

// Registry owns chat rooms: one per (listing, buyer), created on first contact.
type Registry struct {
	repo     repository.ChatRepository
	listings listing.Store
	log      *slog.Logger
}

func NewRegistry(repo repository.ChatRepository, listings listing.Store, log *slog.Logger) *Registry {
	return &Registry{
		repo:     repo,
		listings: listings,
		log:      log,
	}
}

// GetOrCreateRoom returns the room for (listingID, buyerID), creating it when absent.
// The listing must be active and not the buyer's own, for new and existing rooms alike.
// created is true only for the call whose insert won.
func (r *Registry) GetOrCreateRoom(ctx context.Context, listingID, buyerID uint64) (*dbmysql.ChatRoom, bool, error) {
	l, err := r.availableListing(ctx, listingID)
	if err != nil {
		return nil, false, err
	}
	if err := AuthorizeChatInitiation(l, buyerID); err != nil {
		return nil, false, err
	}

	room, err := r.repo.FindRoom(ctx, l.ID, buyerID)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}
	return r.create(ctx, l, buyerID)
}

func (r *Registry) GetRoom(ctx context.Context, roomID string) (*dbmysql.ChatRoom, error) {
	if roomID == "" {
		return nil, fmt.Errorf("empty room id: %w", common.ErrNotFound)
	}
	return r.repo.GetRoom(ctx, roomID)
}

// Touch bumps the room's recency. SendMessage does this inside the append transaction;
// this entry point is for callers outside it.
func (r *Registry) Touch(ctx context.Context, roomID string) error {
	return r.repo.TouchRoom(ctx, roomID, nowUTC())
}

func (r *Registry) availableListing(ctx context.Context, listingID uint64) (*listing.Listing, error) {
	l, err := r.listings.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("listing %d: %w", listingID, common.ErrListingUnavailable)
		}
		return nil, err
	}
	if !l.IsActive {
		return nil, fmt.Errorf("listing %d inactive: %w", listingID, common.ErrListingUnavailable)
	}
	return l, nil
}

// create inserts the room for a listing GetOrCreateRoom has already vetted.
func (r *Registry) create(ctx context.Context, l *listing.Listing, buyerID uint64) (*dbmysql.ChatRoom, bool, error) {
	room := &dbmysql.ChatRoom{
		ListingID: l.ID,
		BuyerID:   buyerID,
		SellerID:  l.SellerID,
	}
	err := r.repo.CreateRoom(ctx, room)
	if err == nil {
		r.log.Info("chat room created", "room_id", room.ID, "listing_id", l.ID, "buyer_id", buyerID, "seller_id", l.SellerID)
		return room, true, nil
	}
	if !errors.Is(err, common.ErrConcurrentCreation) {
		return nil, false, err
	}

	// Another request inserted the pair first; its row is the room.
	winner, err := r.repo.FindRoom(ctx, l.ID, buyerID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-read room after conflict: %w", err)
	}
	return winner, false, nil
}
