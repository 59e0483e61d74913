package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"chimchat/domain"
	apperrors "chimchat/errors"
)

const keyPrefix = "msg:"

// maxTimestamp is past every 19-digit padded nanosecond timestamp, so
// seeking here in a reverse iterator lands on the newest message.
const maxTimestamp = "9999999999999999999"

// MessageRepository persists chat messages in BadgerDB.
// Keys are formatted as "msg:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector
//     if two messages arrive at the same nanosecond.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

type diskMessage struct {
	ID      string `cbor:"id"`
	Author  string `cbor:"author"`
	Content string `cbor:"content"`
	At      int64  `cbor:"at"` // unix nanoseconds
}

// Store appends one message. The write is commutative with concurrent
// writers: ordering comes from the timestamp embedded in the key, not
// from the order in which transactions commit.
func (m MessageRepository) Store(msg domain.Message) error {
	key := fmt.Sprintf("%s%019d:%s", keyPrefix, msg.At.UnixNano(), msg.ID)
	value, err := cbor.Marshal(fromMessage(msg))
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// FetchRecent returns at most n of the latest messages in chronological
// order. It walks the key space backwards from the newest entry, then
// reverses the collected batch, so old history is never scanned.
func (m MessageRepository) FetchRecent(n int) ([]domain.Message, error) {
	if n <= 0 {
		return nil, nil
	}
	var values [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(keyPrefix)
		it.Seek([]byte(keyPrefix + maxTimestamp))
		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(values) == n {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", n))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				values = append(values, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}

	messages := make([]domain.Message, 0, len(values))
	// Newest-first on disk, chronological for callers.
	for i := len(values) - 1; i >= 0; i-- {
		var dm diskMessage
		if err := cbor.Unmarshal(values[i], &dm); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
		}
		msg, err := toMessage(dm)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func fromMessage(msg domain.Message) diskMessage {
	return diskMessage{
		ID:      msg.ID.String(),
		Author:  msg.Author,
		Content: msg.Content,
		At:      msg.At.UnixNano(),
	}
}

func toMessage(dm diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(dm.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:      parsedID,
		Author:  dm.Author,
		Content: dm.Content,
		At:      time.Unix(0, dm.At).UTC(),
	}, nil
}
