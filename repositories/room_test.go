package repositories

import (
	"log/slog"
	"testing"

	"messenger/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Get_Untouched_Room_Returns_Empty_Document(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t), slog.Default())

	doc, err := repository.Get(domain.RoomID(42))
	req.NoError(err)
	req.Empty(doc.People)
	req.Empty(doc.Messages)
}

func Test_Put_Then_Get_Round_Trip(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t), slog.Default())
	roomID := domain.RoomID(1)

	doc := domain.NewDocument()
	doc.AddPerson("alice")
	doc.AddPerson("bob")
	doc.AppendMessage(domain.Message{Author: "alice", Content: "hi", Timecode: 1000})
	doc.AppendMessage(domain.Message{Author: "bob", Content: "yo", Timecode: 2000})

	req.NoError(repository.Put(roomID, doc))

	fetched, err := repository.Get(roomID)
	req.NoError(err)
	// Content and order survive the round trip
	req.Equal(doc.People, fetched.People)
	req.Equal(doc.Messages, fetched.Messages)
}

func Test_Ensure_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t), slog.Default())
	roomID := domain.RoomID(7)

	// Given an ensured room with state
	req.NoError(repository.Ensure(roomID))
	doc, err := repository.Get(roomID)
	req.NoError(err)
	doc.AddPerson("clara")
	req.NoError(repository.Put(roomID, doc))

	// When the room is ensured again
	req.NoError(repository.Ensure(roomID))

	// Then the accumulated state is untouched
	fetched, err := repository.Get(roomID)
	req.NoError(err)
	req.Equal([]string{"clara"}, fetched.People)
}

func Test_Rooms_Are_Isolated(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t), slog.Default())

	docA := domain.NewDocument()
	docA.AddPerson("alice")
	req.NoError(repository.Put(domain.RoomID(1), docA))

	docB := domain.NewDocument()
	docB.AddPerson("bob")
	req.NoError(repository.Put(domain.RoomID(2), docB))

	fetchedA, err := repository.Get(domain.RoomID(1))
	req.NoError(err)
	req.Equal([]string{"alice"}, fetchedA.People)

	fetchedB, err := repository.Get(domain.RoomID(2))
	req.NoError(err)
	req.Equal([]string{"bob"}, fetchedB.People)
}
