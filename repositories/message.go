//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"collab-lab/domain"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// DefaultWindow is the number of messages returned per destination when no
// explicit limit is configured.
const DefaultWindow = 20

type IMessageRepository interface {
	Store(message domain.Message) error
	Recent(dest domain.Destination) ([]domain.Message, error)
	Search(ctx context.Context, text string, offset int) ([]domain.Message, uint64, error)
	Count() uint64
}

// MessageRepository keeps the append-only message log in BadgerDB and mirrors
// every entry into a Bluge index for full-text search. Both engines run in
// their in-memory modes, the whole log lives and dies with the process.
type MessageRepository struct {
	db            *badger.DB
	writer        *bluge.Writer
	log           *slog.Logger
	limitMessages *int
	searchLimit   int
	stored        atomic.Uint64
}

func NewMessageRepository(db *badger.DB, writer *bluge.Writer, log *slog.Logger, limitMessages *int, searchLimit int) *MessageRepository {
	return &MessageRepository{
		db:            db,
		writer:        writer,
		log:           log,
		limitMessages: limitMessages,
		searchLimit:   searchLimit,
	}
}

// messageRecord is the JSON shape persisted as the Badger value.
type messageRecord struct {
	ID       string `json:"id"`
	Sender   string `json:"sender"`
	DestKind string `json:"dest_kind"`
	DestKey  string `json:"dest_key"`
	Contents string `json:"contents"`
	Lang     string `json:"lang,omitempty"`
	At       int64  `json:"at"`
}

// Store persists a message under "msg:{kind}:{key}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
//
// The destination key is lowercased and escaped so case variants share one
// prefix and a key containing ':' cannot escape it.
func (m *MessageRepository) Store(message domain.Message) error {
	key := messageKey(message)
	value, err := json.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return err
	}
	if err := m.index(key, message); err != nil {
		return fmt.Errorf("index message: %w", err)
	}
	m.stored.Add(1)
	return nil
}

// Recent retrieves messages addressed to dest using a reverse prefix scan.
// Thanks to the padded timestamp in the key, messages come out newest first.
// It stops collecting once the configured limit is reached.
func (m *MessageRepository) Recent(dest domain.Destination) ([]domain.Message, error) {
	limit := DefaultWindow
	if m.limitMessages != nil {
		limit = *m.limitMessages
	}

	prefixStr := destinationPrefix(dest)
	prefix := []byte(prefixStr)
	var byteMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key of this destination,
		// then walk backwards through the prefix.
		seekKey := append([]byte(nil), prefix...)
		seekKey = append(seekKey, []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(byteMessages) >= limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", limit))
				break
			}
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(byteMessages))
	for _, b := range byteMessages {
		message, err := DecodeRecord(b)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// Search runs a match query over message contents and resolves every hit back
// through Badger, so results carry the full record and not the index view.
// The second return value is the total number of hits before paging.
func (m *MessageRepository) Search(ctx context.Context, text string, offset int) ([]domain.Message, uint64, error) {
	reader, err := m.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.log.Warn("Closing index reader", "error", err)
		}
	}()

	query := bluge.NewMatchQuery(text).SetField("contents")
	request := bluge.NewTopNSearch(m.searchLimit, query).
		SetFrom(offset).
		WithStandardAggregations()
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var keys []string
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				keys = append(keys, string(value))
			}
			return true
		})
		if visitErr != nil {
			return nil, 0, visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, 0, err
	}

	messages, err := m.lookupAll(keys)
	if err != nil {
		return nil, 0, err
	}
	return messages, iterator.Aggregations().Count(), nil
}

// Count reports how many messages this repository stored since startup.
func (m *MessageRepository) Count() uint64 {
	return m.stored.Load()
}

func (m *MessageRepository) lookupAll(keys []string) ([]domain.Message, error) {
	messages := make([]domain.Message, 0, len(keys))
	err := m.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(key))
			if err != nil {
				// An index hit without a log entry is a stale document,
				// skip it instead of failing the whole search.
				m.log.Warn("Indexed message missing from the log", "key", key, "error", err)
				continue
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			message, err := DecodeRecord(value)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (m *MessageRepository) index(key string, message domain.Message) error {
	doc := bluge.NewDocument(key).
		AddField(bluge.NewTextField("contents", message.Contents).StoreValue()).
		AddField(bluge.NewKeywordField("destination", message.Destination.String())).
		AddField(bluge.NewKeywordField("sender", strings.ToLower(message.Sender)))
	return m.writer.Update(doc.ID(), doc)
}

func messageKey(message domain.Message) string {
	return fmt.Sprintf("%s%019d:%s",
		destinationPrefix(message.Destination),
		message.CreatedAt.UnixNano(),
		message.ID,
	)
}

func destinationPrefix(dest domain.Destination) string {
	return fmt.Sprintf("msg:%s:%s:", dest.Kind, url.QueryEscape(strings.ToLower(dest.Key)))
}

func fromMessage(message domain.Message) messageRecord {
	return messageRecord{
		ID:       message.ID.String(),
		Sender:   message.Sender,
		DestKind: string(message.Destination.Kind),
		DestKey:  message.Destination.Key,
		Contents: message.Contents,
		Lang:     message.Lang,
		At:       message.CreatedAt.UnixNano(),
	}
}

// DecodeRecord turns a raw Badger value back into a domain message.
// Exported for the debug inspector, which reads the log directly.
func DecodeRecord(value []byte) (domain.Message, error) {
	var record messageRecord
	if err := json.Unmarshal(value, &record); err != nil {
		return domain.Message{}, err
	}
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:     parsedID,
		Sender: record.Sender,
		Destination: domain.Destination{
			Kind: domain.DestinationKind(record.DestKind),
			Key:  record.DestKey,
		},
		Contents:  record.Contents,
		Lang:      record.Lang,
		CreatedAt: time.Unix(0, record.At).UTC(),
	}, nil
}
