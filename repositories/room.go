//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"messenger/domain"
	"messenger/errors"

	"github.com/dgraph-io/badger/v4"
)

type IRoomRepository interface {
	Get(roomID domain.RoomID) (domain.Document, error)
	Put(roomID domain.RoomID, doc domain.Document) error
	Ensure(roomID domain.RoomID) error
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

// roomKey formats the storage key for one room document.
// One key holds the whole {people, messages} document, so a single
// badger transaction replaces it atomically and readers never observe
// a torn mix of old roster and new log.
func roomKey(roomID domain.RoomID) []byte {
	return []byte(fmt.Sprintf("room:%d", roomID))
}

// Get returns the current document for roomID. A room that has never
// been touched yields the empty document, never a "not found" error.
func (r RoomRepository) Get(roomID domain.RoomID) (domain.Document, error) {
	doc := domain.NewDocument()
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(roomID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return domain.Document{}, errors.NewStorageError("get", err)
	}
	return doc, nil
}

// Put replaces the stored document for roomID in one transaction.
func (r RoomRepository) Put(roomID domain.RoomID, doc domain.Document) error {
	bytes, err := json.Marshal(doc)
	if err != nil {
		return errors.NewStorageError("put", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(roomID), bytes)
	})
	if err != nil {
		return errors.NewStorageError("put", err)
	}
	return nil
}

// Ensure writes the empty document for roomID only if the key is
// absent. Re-ensuring an existing room is a no-op, so lazy creation
// on first join or post never clobbers accumulated state.
func (r RoomRepository) Ensure(roomID domain.RoomID) error {
	empty, err := json.Marshal(domain.NewDocument())
	if err != nil {
		return errors.NewStorageError("ensure", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(roomKey(roomID))
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		r.log.Debug("Creating empty room document", "room", int(roomID))
		return txn.Set(roomKey(roomID), empty)
	})
	if err != nil {
		return errors.NewStorageError("ensure", err)
	}
	return nil
}
