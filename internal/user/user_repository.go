//go:generate go run go.uber.org/mock/mockgen -source=user_repository.go -destination=../chat/service/mocks/mock_user_repository.go -package=mocks
package user

import (
	"context"
	"errors"
	"fmt"

	"campusbingo/internal/common"
	"campusbingo/internal/dbmysql"

	"gorm.io/gorm"
)

// UserRepository is a read-only view of the accounts table, used to put names on chat participants.
type UserRepository interface {
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
	// GetUsersByIDs omits ids with no row.
	GetUsersByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*dbmysql.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*dbmysql.User, error) {
	users := make(map[uint64]*dbmysql.User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}

	var rows []*dbmysql.User
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	for _, u := range rows {
		users[u.UserID] = u
	}
	return users, nil
}
