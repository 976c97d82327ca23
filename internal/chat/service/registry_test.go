package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campusbingo/internal/chat/service/mocks"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/listing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func chatConfig(maxLength int) *config.Config {
	return &config.Config{Chat: config.ChatConfig{MaxMessageLength: maxLength}}
}

func TestRegistry_GetOrCreateRoom(t *testing.T) {
	activeListing := &listing.Listing{ID: 10, Title: "Desk lamp", SellerID: 2, IsActive: true}
	existing := &dbmysql.ChatRoom{ID: "room-1", ListingID: 10, BuyerID: 1, SellerID: 2}

	tests := []struct {
		name          string
		buyerID       uint64
		mockSetup     func(repo *mocks.MockChatRepository, listings *mocks.MockStore)
		expectedRoom  string
		expectCreated bool
		expectedErr   error
	}{
		{
			name:    "existing room is returned",
			buyerID: 1,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				listings.EXPECT().GetListing(gomock.Any(), uint64(10)).Return(activeListing, nil)
				repo.EXPECT().FindRoom(gomock.Any(), uint64(10), uint64(1)).Return(existing, nil)
			},
			expectedRoom: "room-1",
		},
		{
			name:    "new room snapshots the seller",
			buyerID: 1,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				listings.EXPECT().GetListing(gomock.Any(), uint64(10)).Return(activeListing, nil)
				repo.EXPECT().FindRoom(gomock.Any(), uint64(10), uint64(1)).Return(nil, common.ErrNotFound)
				repo.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, room *dbmysql.ChatRoom) error {
						assert.Equal(t, uint64(10), room.ListingID)
						assert.Equal(t, uint64(1), room.BuyerID)
						assert.Equal(t, uint64(2), room.SellerID)
						room.ID = "room-new"
						return nil
					})
			},
			expectedRoom:  "room-new",
			expectCreated: true,
		},
		{
			name:    "seller on own listing touches no room",
			buyerID: 2,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				listings.EXPECT().GetListing(gomock.Any(), uint64(10)).Return(activeListing, nil)
			},
			expectedErr: common.ErrSelfChat,
		},
		{
			name:    "inactive listing blocks resume",
			buyerID: 1,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				listings.EXPECT().GetListing(gomock.Any(), uint64(10)).
					Return(&listing.Listing{ID: 10, SellerID: 2, IsActive: false}, nil)
			},
			expectedErr: common.ErrListingUnavailable,
		},
		{
			name:    "missing listing",
			buyerID: 1,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				listings.EXPECT().GetListing(gomock.Any(), uint64(10)).Return(nil, common.ErrNotFound)
			},
			expectedErr: common.ErrListingUnavailable,
		},
		{
			name:    "listing lookup failure",
			buyerID: 1,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				listings.EXPECT().GetListing(gomock.Any(), uint64(10)).Return(nil, assert.AnError)
			},
			expectedErr: assert.AnError,
		},
		{
			name:    "lost creation race returns the winner",
			buyerID: 1,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				gomock.InOrder(
					listings.EXPECT().GetListing(gomock.Any(), uint64(10)).Return(activeListing, nil),
					repo.EXPECT().FindRoom(gomock.Any(), uint64(10), uint64(1)).Return(nil, common.ErrNotFound),
					repo.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).Return(common.ErrConcurrentCreation),
					repo.EXPECT().FindRoom(gomock.Any(), uint64(10), uint64(1)).Return(existing, nil),
				)
			},
			expectedRoom: "room-1",
		},
		{
			name:    "room lookup failure",
			buyerID: 1,
			mockSetup: func(repo *mocks.MockChatRepository, listings *mocks.MockStore) {
				listings.EXPECT().GetListing(gomock.Any(), uint64(10)).Return(activeListing, nil)
				repo.EXPECT().FindRoom(gomock.Any(), uint64(10), uint64(1)).Return(nil, assert.AnError)
			},
			expectedErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockChatRepository(ctrl)
			listings := mocks.NewMockStore(ctrl)
			tt.mockSetup(repo, listings)

			registry := NewRegistry(repo, listings, discardLogger())
			room, created, err := registry.GetOrCreateRoom(context.Background(), 10, tt.buyerID)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, room)
				assert.False(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedRoom, room.ID)
			assert.Equal(t, tt.expectCreated, created)
		})
	}
}

func TestRegistry_RepeatedCallsReturnSameRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	listings := mocks.NewMockStore(ctrl)
	listings.EXPECT().GetListing(gomock.Any(), uint64(10)).
		Return(&listing.Listing{ID: 10, SellerID: 2, IsActive: true}, nil).
		Times(4)

	repo := newMemRepo()
	registry := NewRegistry(repo, listings, discardLogger())

	first, created, err := registry.GetOrCreateRoom(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.True(t, created)

	for i := 0; i < 3; i++ {
		again, created, err := registry.GetOrCreateRoom(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
	}
	assert.Equal(t, 1, repo.roomCount())
}

func TestRegistry_ConcurrentCreationConverges(t *testing.T) {
	const callers = 16

	ctrl := gomock.NewController(t)
	listings := mocks.NewMockStore(ctrl)
	listings.EXPECT().GetListing(gomock.Any(), uint64(10)).
		Return(&listing.Listing{ID: 10, SellerID: 2, IsActive: true}, nil).
		Times(callers)

	repo := newMemRepo()
	arrived := make(chan struct{}, callers)
	release := make(chan struct{})
	repo.beforeCreate = func() {
		arrived <- struct{}{}
		<-release
	}
	go func() {
		for i := 0; i < callers; i++ {
			<-arrived
		}
		close(release)
	}()

	registry := NewRegistry(repo, listings, discardLogger())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[string]bool)
		created int
		errs    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, isNew, err := registry.GetOrCreateRoom(context.Background(), 10, 1)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[room.ID] = true
			if isNew {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, repo.roomCount())
}

func TestRegistry_GetRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	registry := NewRegistry(repo, mocks.NewMockStore(ctrl), discardLogger())

	_, err := registry.GetRoom(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	repo.EXPECT().GetRoom(gomock.Any(), "room-1").Return(&dbmysql.ChatRoom{ID: "room-1"}, nil)
	room, err := registry.GetRoom(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", room.ID)
}

func TestRegistry_Touch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	registry := NewRegistry(repo, mocks.NewMockStore(ctrl), discardLogger())

	repo.EXPECT().TouchRoom(gomock.Any(), "room-1", gomock.Any()).Return(nil)
	assert.NoError(t, registry.Touch(context.Background(), "room-1"))
}
