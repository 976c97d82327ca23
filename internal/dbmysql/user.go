package dbmysql

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is owned by the accounts service; chat reads names for display.
type User struct {
	UserID      uint64         `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Handle      string         `gorm:"column:handle;uniqueIndex;size:50;not null" json:"handle"`
	FirstName   string         `gorm:"column:first_name;size:150" json:"first_name"`
	LastName    string         `gorm:"column:last_name;size:150" json:"last_name"`
	Email       string         `gorm:"column:email;size:255" json:"-"`
	CollegeName string         `gorm:"column:college_name;size:150" json:"college_name"`
	Status      string         `gorm:"column:status;type:enum('active','banned','deleted');default:'active'" json:"status"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName falls back to the handle when no name is on file.
func (u *User) FullName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Handle
}
