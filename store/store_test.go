package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"collab-lab/domain"
	"collab-lab/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestStore_FindUser_FirstMatchIgnoringCase(t *testing.T) {
	req := require.New(t)
	s := New(nil, 0)

	first := &domain.User{Nickname: "Sam", DisplayName: "Sam One"}
	second := &domain.User{Nickname: "sam", DisplayName: "Sam Two"}
	s.AddUser(first)
	s.AddUser(second)

	// Duplicates stay stored, lookups resolve to the earliest entry
	found, ok := s.FindUser("SAM")
	req.True(ok)
	req.Same(first, found)
	req.Len(s.Users(), 2)
}

func TestStore_FindUser_Unknown(t *testing.T) {
	req := require.New(t)
	s := New(nil, 0)
	s.AddUser(&domain.User{Nickname: "alice"})

	_, ok := s.FindUser("bob")
	req.False(ok)
}

func TestStore_FindChannel_FirstMatchIgnoringCase(t *testing.T) {
	req := require.New(t)
	s := New(nil, 0)

	first := domain.NewChannel("General", "first", nil)
	second := domain.NewChannel("general", "second", nil)
	s.AddChannel(first)
	s.AddChannel(second)

	found, ok := s.FindChannel("gENERAL")
	req.True(ok)
	req.Same(first, found)
}

func TestStore_Snapshots_AreDetached(t *testing.T) {
	req := require.New(t)
	s := New(nil, 0)
	s.AddUser(&domain.User{Nickname: "alice"})

	users := s.Users()
	s.AddUser(&domain.User{Nickname: "bob"})

	req.Len(users, 1)
	req.Len(s.Users(), 2)
}

func TestStore_ConcurrentRegistrations(t *testing.T) {
	req := require.New(t)
	s := New(nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				s.AddUser(&domain.User{Nickname: fmt.Sprintf("user-%d", n)})
			} else {
				s.AddChannel(domain.NewChannel(fmt.Sprintf("channel-%d", n), "", nil))
			}
		}(i)
	}
	wg.Wait()

	req.Len(s.Users(), 50)
	req.Len(s.Channels(), 50)
}

func TestStore_RecentMessages_AppliesWindowProjection(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockIMessageRepository(ctrl)

	dest := domain.ChannelDestination("general")
	at := time.Now().UTC()
	// The repository hands messages back newest first
	repo.EXPECT().Recent(dest).Return([]domain.Message{
		{ID: uuid.New(), Contents: "third", CreatedAt: at.Add(2 * time.Minute)},
		{ID: uuid.New(), Contents: "second", CreatedAt: at.Add(1 * time.Minute)},
		{ID: uuid.New(), Contents: "first", CreatedAt: at},
	}, nil)

	s := New(repo, 2)
	messages, err := s.RecentMessages(dest)

	req.NoError(err)
	// Then the window keeps the latest two, reading oldest to newest
	req.Len(messages, 2)
	req.Equal("second", messages[0].Contents)
	req.Equal("third", messages[1].Contents)
}

func TestStore_AddMessage_DelegatesToRepository(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockIMessageRepository(ctrl)

	message := domain.Message{ID: uuid.New(), Contents: "hello"}
	repo.EXPECT().Store(message).Return(nil)

	s := New(repo, 0)
	req.NoError(s.AddMessage(message))
}

func TestStore_SearchMessages_DelegatesToRepository(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockIMessageRepository(ctrl)

	ctx := context.Background()
	expected := []domain.Message{{ID: uuid.New(), Contents: "found"}}
	repo.EXPECT().Search(ctx, "found", 5).Return(expected, uint64(1), nil)

	s := New(repo, 0)
	messages, total, err := s.SearchMessages(ctx, "found", 5)

	req.NoError(err)
	req.Equal(uint64(1), total)
	req.Equal(expected, messages)
}

func TestStore_Counts(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockIMessageRepository(ctrl)
	repo.EXPECT().Count().Return(uint64(7))

	s := New(repo, 0)
	s.AddUser(&domain.User{Nickname: "alice"})
	s.AddChannel(domain.NewChannel("general", "", nil))

	users, channels, messages := s.Counts()
	req.Equal(1, users)
	req.Equal(1, channels)
	req.Equal(uint64(7), messages)
}
