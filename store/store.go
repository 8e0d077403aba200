// Package store owns the shared in-memory state of the collaboration service.
package store

import (
	"context"
	"strings"
	"sync"

	"collab-lab/domain"
	"collab-lab/projection"
	"collab-lab/repositories"
)

// Store holds the three collections of the service. Users and channels are
// insertion-ordered slices guarded by a single RWMutex, readers iterate over
// snapshots so they never hold the lock while resolving. Messages delegate
// to the repository, which owns ordering and windowing at the key level.
//
// Nothing here survives a restart, which is the whole point of the lab.
type Store struct {
	mu       sync.RWMutex
	users    []*domain.User
	channels []*domain.Channel

	messages repositories.IMessageRepository
	window   int
}

func New(messages repositories.IMessageRepository, window int) *Store {
	if window <= 0 {
		window = repositories.DefaultWindow
	}
	return &Store{messages: messages, window: window}
}

// AddUser appends without any uniqueness check. Duplicates are allowed,
// lookups always resolve to the first match in insertion order.
func (s *Store) AddUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
}

func (s *Store) AddChannel(channel *domain.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = append(s.channels, channel)
}

// FindUser returns the first user whose nickname matches, ignoring case.
func (s *Store) FindUser(nickname string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Nickname, nickname) {
			return user, true
		}
	}
	return nil, false
}

// FindChannel returns the first channel whose name matches, ignoring case.
func (s *Store) FindChannel(name string) (*domain.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, channel := range s.channels {
		if strings.EqualFold(channel.Name, name) {
			return channel, true
		}
	}
	return nil, false
}

// Users returns a snapshot of the user list in insertion order.
func (s *Store) Users() []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*domain.User, len(s.users))
	copy(snapshot, s.users)
	return snapshot
}

// Channels returns a snapshot of the channel list in insertion order.
func (s *Store) Channels() []*domain.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*domain.Channel, len(s.channels))
	copy(snapshot, s.channels)
	return snapshot
}

func (s *Store) AddMessage(message domain.Message) error {
	return s.messages.Store(message)
}

// RecentMessages returns the most recent window of messages addressed to dest
// in chronological order, ready for rendering.
func (s *Store) RecentMessages(dest domain.Destination) ([]domain.Message, error) {
	recent, err := s.messages.Recent(dest)
	if err != nil {
		return nil, err
	}
	return projection.RecentWindow(recent, s.window), nil
}

func (s *Store) SearchMessages(ctx context.Context, text string, offset int) ([]domain.Message, uint64, error) {
	return s.messages.Search(ctx, text, offset)
}

// Counts reports collection sizes for monitoring.
func (s *Store) Counts() (users, channels int, messages uint64) {
	s.mu.RLock()
	users = len(s.users)
	channels = len(s.channels)
	s.mu.RUnlock()
	return users, channels, s.messages.Count()
}
