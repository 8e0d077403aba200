// Package services exposes the use cases of the collaboration service.
// Resolvers and workers talk to these interfaces, never to the store directly.
package services

import (
	"context"
	"log/slog"
	"sort"

	"collab-lab/domain"
	"collab-lab/store"

	"github.com/samber/lo"
)

type IQueryService interface {
	GetUser(nickname string) (*domain.User, bool)
	GetChannel(name string) (*domain.Channel, bool)
	GetChannels(nickname string) []*domain.Channel
	GetMessages(dest domain.Destination) ([]domain.Message, error)
	SearchMessages(ctx context.Context, text string, offset int) ([]domain.Message, uint64, error)
}

type QueryService struct {
	store *store.Store
	log   *slog.Logger
}

func NewQueryService(st *store.Store, log *slog.Logger) *QueryService {
	return &QueryService{store: st, log: log}
}

// GetUser resolves a nickname. Absence is a regular outcome, not an error.
func (s *QueryService) GetUser(nickname string) (*domain.User, bool) {
	return s.store.FindUser(nickname)
}

// GetChannel resolves a channel name. Absence is a regular outcome.
func (s *QueryService) GetChannel(name string) (*domain.Channel, bool) {
	return s.store.FindChannel(name)
}

// GetChannels lists every channel the user belongs to, sorted by name.
// An unknown user simply belongs to no channel.
func (s *QueryService) GetChannels(nickname string) []*domain.Channel {
	user, ok := s.store.FindUser(nickname)
	if !ok {
		return nil
	}
	channels := lo.Filter(s.store.Channels(), func(channel *domain.Channel, _ int) bool {
		return channel.HasMember(user.Nickname)
	})
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].Name < channels[j].Name
	})
	return channels
}

// GetMessages returns the recent window for a destination, oldest first.
func (s *QueryService) GetMessages(dest domain.Destination) ([]domain.Message, error) {
	return s.store.RecentMessages(dest)
}

// SearchMessages runs a full-text query over every stored message.
func (s *QueryService) SearchMessages(ctx context.Context, text string, offset int) ([]domain.Message, uint64, error) {
	messages, total, err := s.store.SearchMessages(ctx, text, offset)
	if err != nil {
		return nil, 0, err
	}
	s.log.Debug("Search executed", "text", text, "offset", offset, "total", total)
	return messages, total, nil
}
