package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

// Listing is owned by the marketplace service; chat only reads it.
type Listing struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title      string         `gorm:"column:title;size:200;not null" json:"title"`
	SellerID   uint64         `gorm:"column:seller_id;not null;index" json:"seller_id"`
	PriceCents int64          `gorm:"column:price_cents" json:"price_cents"`
	IsActive   bool           `gorm:"column:is_active;not null" json:"is_active"`
	IsSold     bool           `gorm:"column:is_sold;not null" json:"is_sold"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingImage points at a GridFS file holding one listing photo.
type ListingImage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID  uint64    `gorm:"column:listing_id;not null;index" json:"listing_id"`
	FileID     string    `gorm:"column:file_id;size:24;uniqueIndex" json:"file_id"` // MongoDB ObjectID
	UploadedAt time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}
