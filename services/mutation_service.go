package services

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"collab-lab/domain"
	"collab-lab/errors"
	"collab-lab/moderation"
	"collab-lab/store"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMutationService interface {
	CreateChannel(name, description string, memberNicknames []string) *domain.Channel
	AddUserToChannel(channelName, nickname string) (*domain.Channel, bool)
	RemoveUserFromChannel(channelName, nickname string) (*domain.Channel, bool)
	PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (*domain.Message, error)
}

type MutationService struct {
	store      *store.Store
	queries    IQueryService
	moderator  *moderation.Moderator
	maxContent int
	clock      func() time.Time
	log        *slog.Logger
}

// NewMutationService wires the write-side use cases. The moderator may be nil
// when moderation is disabled, messages then pass through untouched.
func NewMutationService(st *store.Store, queries IQueryService, moderator *moderation.Moderator, maxContent int, log *slog.Logger) *MutationService {
	return &MutationService{
		store:      st,
		queries:    queries,
		moderator:  moderator,
		maxContent: maxContent,
		clock:      time.Now,
		log:        log,
	}
}

// CreateChannel registers a new channel. Member nicknames that do not resolve
// are silently dropped, creation itself never fails.
func (s *MutationService) CreateChannel(name, description string, memberNicknames []string) *domain.Channel {
	var members []*domain.User
	for _, nickname := range memberNicknames {
		user, ok := s.queries.GetUser(nickname)
		if !ok {
			s.log.Debug("Dropping unknown channel member", "channel", name, "nickname", nickname)
			continue
		}
		members = append(members, user)
	}
	channel := domain.NewChannel(name, description, members)
	s.store.AddChannel(channel)
	s.log.Info("Channel created", "name", name, "members", len(members))
	return channel
}

// AddUserToChannel joins a user to a channel. When either side does not
// resolve, nothing happens and the boolean is false.
func (s *MutationService) AddUserToChannel(channelName, nickname string) (*domain.Channel, bool) {
	channel, ok := s.store.FindChannel(channelName)
	if !ok {
		return nil, false
	}
	user, ok := s.queries.GetUser(nickname)
	if !ok {
		return nil, false
	}
	channel.AddMember(user)
	return channel, true
}

// RemoveUserFromChannel removes a user from a channel member list. The removal
// itself matches by nickname ignoring case, a no-op when the user was not a
// member. The boolean is false only when channel or user do not resolve.
func (s *MutationService) RemoveUserFromChannel(channelName, nickname string) (*domain.Channel, bool) {
	channel, ok := s.store.FindChannel(channelName)
	if !ok {
		return nil, false
	}
	user, ok := s.queries.GetUser(nickname)
	if !ok {
		return nil, false
	}
	channel.RemoveMember(user.Nickname)
	return channel, true
}

// PostMessage stores a message for the command's destination.
//
// A missing destination argument is a request shape problem and surfaces as an
// error. A sender or destination that does not resolve is a data problem and
// surfaces as an absent result, the message is simply not stored.
func (s *MutationService) PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (*domain.Message, error) {
	// 1. Reject malformed requests before touching the store
	if cmd.Channel == "" && cmd.User == "" {
		return nil, errors.ErrNoDestination
	}
	if s.maxContent > 0 && utf8.RuneCountInString(cmd.Contents) > s.maxContent {
		return nil, errors.ErrContentTooLarge
	}

	// 2. Resolve the sender and the destination entity
	sender, ok := s.queries.GetUser(cmd.Sender)
	if !ok {
		s.log.Debug("Dropping message from unknown sender", "sender", cmd.Sender)
		return nil, nil
	}
	dest, ok := cmd.Destination()
	if !ok {
		return nil, errors.ErrNoDestination
	}
	if !s.destinationExists(dest) {
		s.log.Debug("Dropping message to unknown destination", "destination", dest.String())
		return nil, nil
	}

	// 3. Censor the contents before anything is stored or indexed
	contents := cmd.Contents
	if s.moderator != nil {
		censored, found := s.moderator.Censor(contents)
		if len(found) > 0 {
			s.log.Warn("Censored message contents", "sender", sender.Nickname, "words", lo.Uniq(found))
		}
		contents = censored
	}

	// 4. Detect the language on the censored form shown to readers
	info := whatlanggo.Detect(contents)

	at := cmd.At
	if at.IsZero() {
		at = s.clock()
	}
	message := domain.Message{
		ID:          uuid.New(),
		Sender:      sender.Nickname,
		Destination: dest,
		Contents:    contents,
		Lang:        info.Lang.Iso6391(),
		CreatedAt:   at.UTC(),
	}

	// 5. Append to the log and mirror into the search index
	if err := s.store.AddMessage(message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *MutationService) destinationExists(dest domain.Destination) bool {
	switch dest.Kind {
	case domain.KindChannel:
		_, ok := s.queries.GetChannel(dest.Key)
		return ok
	case domain.KindUser:
		_, ok := s.queries.GetUser(dest.Key)
		return ok
	default:
		return false
	}
}
