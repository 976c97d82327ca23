//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../chat/service/mocks/mock_listing_store.go -package=mocks
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmysql"

	"gorm.io/gorm"
)

// Listing is the read model chat needs from the marketplace.
type Listing struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	SellerID   uint64 `json:"seller_id"`
	PriceCents int64  `json:"price_cents"`
	IsActive   bool   `json:"is_active"`
	IsSold     bool   `json:"is_sold"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Store reads listings. Unknown and soft-deleted listings are common.ErrNotFound.
type Store interface {
	GetListing(ctx context.Context, listingID uint64) (*Listing, error)
	// GetListings silently omits ids that do not resolve.
	GetListings(ctx context.Context, listingIDs []uint64) (map[uint64]*Listing, error)
}

type gormStore struct {
	db           *gorm.DB
	mediaBaseURL string
}

func NewStore(db *gorm.DB, cfg *config.Config) Store {
	return &gormStore{
		db:           db,
		mediaBaseURL: cfg.Server.MediaBaseURL,
	}
}

func (s *gormStore) GetListing(ctx context.Context, listingID uint64) (*Listing, error) {
	var row dbmysql.Listing
	err := s.db.WithContext(ctx).Where("id = ?", listingID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing %d: %w", listingID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	var images []dbmysql.ListingImage
	err = s.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("uploaded_at ASC").
		Order("id ASC").
		Limit(1).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get listing image: %w", err)
	}

	l := s.toListing(&row)
	if len(images) > 0 {
		l.ImageURL = s.imageURL(images[0].FileID)
	}
	return l, nil
}

func (s *gormStore) GetListings(ctx context.Context, listingIDs []uint64) (map[uint64]*Listing, error) {
	result := make(map[uint64]*Listing, len(listingIDs))
	if len(listingIDs) == 0 {
		return result, nil
	}

	var rows []dbmysql.Listing
	if err := s.db.WithContext(ctx).Where("id IN ?", listingIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	for i := range rows {
		result[rows[i].ID] = s.toListing(&rows[i])
	}

	var images []dbmysql.ListingImage
	err := s.db.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Order("listing_id ASC").
		Order("uploaded_at ASC").
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get listing images: %w", err)
	}
	for _, img := range images {
		if l, ok := result[img.ListingID]; ok && l.ImageURL == "" {
			l.ImageURL = s.imageURL(img.FileID)
		}
	}

	return result, nil
}

func (s *gormStore) toListing(row *dbmysql.Listing) *Listing {
	return &Listing{
		ID:         row.ID,
		Title:      row.Title,
		SellerID:   row.SellerID,
		PriceCents: row.PriceCents,
		IsActive:   row.IsActive,
		IsSold:     row.IsSold,
	}
}

// imageURL points at the media server, which streams the GridFS file.
func (s *gormStore) imageURL(fileID string) string {
	if s.mediaBaseURL == "" || fileID == "" {
		return ""
	}
	return strings.TrimSuffix(s.mediaBaseURL, "/") + "/" + fileID
}
