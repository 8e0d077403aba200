// Package seed loads YAML fixtures into a fresh store at boot.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"collab-lab/domain"
	"collab-lab/services"
	"collab-lab/store"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

var validate = validator.New()

// File is the on-disk fixture layout. Messages are replayed through the
// mutation pipeline, so they are censored and indexed like live traffic.
type File struct {
	Users    []UserSeed    `yaml:"users" validate:"omitempty,dive"`
	Channels []ChannelSeed `yaml:"channels" validate:"omitempty,dive"`
	Messages []MessageSeed `yaml:"messages" validate:"omitempty,dive"`
}

type UserSeed struct {
	Nickname    string `yaml:"nickname" validate:"required"`
	DisplayName string `yaml:"display_name"`
	Status      string `yaml:"status"`
}

type ChannelSeed struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

type MessageSeed struct {
	Sender   string    `yaml:"sender" validate:"required"`
	Channel  string    `yaml:"channel"`
	User     string    `yaml:"user"`
	Contents string    `yaml:"contents" validate:"required"`
	At       time.Time `yaml:"at"`
}

// Load reads and validates a fixture file.
func Load(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	if err := validate.Struct(f); err != nil {
		return f, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return f, nil
}

// Apply replays the fixture against the store and the mutation pipeline.
// Users are inserted directly. Channels and messages go through the same
// use cases as API traffic, so unknown members are dropped and messages to
// unknown destinations are skipped with a warning.
func Apply(ctx context.Context, f File, st *store.Store, mutations services.IMutationService, log *slog.Logger) error {
	for _, u := range f.Users {
		status := domain.StatusOffline
		if u.Status != "" {
			parsed, err := domain.ParseStatus(u.Status)
			if err != nil {
				return fmt.Errorf("seed user %s: %w", u.Nickname, err)
			}
			status = parsed
		}
		st.AddUser(&domain.User{
			Nickname:    u.Nickname,
			DisplayName: u.DisplayName,
			Status:      status,
		})
	}

	for _, c := range f.Channels {
		mutations.CreateChannel(c.Name, c.Description, c.Members)
	}

	skipped := 0
	for _, m := range f.Messages {
		message, err := mutations.PostMessage(ctx, domain.PostMessageCommand{
			Sender:   m.Sender,
			Channel:  m.Channel,
			User:     m.User,
			Contents: m.Contents,
			At:       m.At,
		})
		if err != nil {
			return fmt.Errorf("seed message from %s: %w", m.Sender, err)
		}
		if message == nil {
			log.Warn("Skipping seed message, sender or destination unknown",
				"sender", m.Sender, "channel", m.Channel, "user", m.User)
			skipped++
		}
	}

	log.Info("✅ Seed applied",
		"users", len(f.Users),
		"channels", len(f.Channels),
		"messages", len(f.Messages)-skipped,
		"skipped", skipped)
	return nil
}
