//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"sync"

	"messenger/domain"
	"messenger/errors"
	"messenger/repositories"
)

type IChatService interface {
	Join(ctx context.Context, cmd domain.JoinCommand) error
	Post(ctx context.Context, cmd domain.PostCommand) error
	ListPeople(roomID domain.RoomID) ([]string, error)
	ListMessages(roomID domain.RoomID) ([]domain.Message, error)
}

// ChatService owns the store handle and serializes mutations per room.
// Every mutation is a get-entire-document, mutate-in-memory,
// put-entire-document sequence; without the per-room critical section
// two concurrent posts would race on the read-modify-write and one
// append would be lost.
type ChatService struct {
	repository repositories.IRoomRepository
	log        *slog.Logger
	now        func() int64

	mu    sync.Mutex
	locks map[domain.RoomID]*sync.Mutex
}

func NewChatService(repository repositories.IRoomRepository, log *slog.Logger) *ChatService {
	return &ChatService{
		repository: repository,
		log:        log,
		now:        domain.NowMillis,
		locks:      make(map[domain.RoomID]*sync.Mutex),
	}
}

// roomLock returns the mutex guarding mutations of one room,
// creating it on first use. Locks are per room, not global, so
// unrelated rooms never contend. They are retained for the process
// lifetime, which is bounded by the number of distinct rooms.
func (s *ChatService) roomLock(roomID domain.RoomID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[roomID] = lock
	}
	return lock
}

// Join adds cmd.Person to the room roster. Joining a room the person
// is already in is a no-op; the operation only fails on storage errors.
func (s *ChatService) Join(ctx context.Context, cmd domain.JoinCommand) error {
	lock := s.roomLock(cmd.RoomID())
	lock.Lock()
	defer lock.Unlock()

	if err := s.repository.Ensure(cmd.RoomID()); err != nil {
		return err
	}
	doc, err := s.repository.Get(cmd.RoomID())
	if err != nil {
		return err
	}
	if !doc.AddPerson(cmd.Person) {
		s.log.Debug("Person already in room", "room", cmd.Room, "person", cmd.Person)
		return nil
	}
	if err := s.repository.Put(cmd.RoomID(), doc); err != nil {
		return err
	}
	s.log.Info("Person joined room", "room", cmd.Room, "person", cmd.Person)
	return nil
}

// Post appends a message to the room log. Posting is gated on
// membership: a non-member gets ErrNotMember and the document is left
// untouched. A zero Timecode is stamped with the service clock;
// anything else is stored as given, stale or not.
func (s *ChatService) Post(ctx context.Context, cmd domain.PostCommand) error {
	lock := s.roomLock(cmd.RoomID())
	lock.Lock()
	defer lock.Unlock()

	if err := s.repository.Ensure(cmd.RoomID()); err != nil {
		return err
	}
	doc, err := s.repository.Get(cmd.RoomID())
	if err != nil {
		return err
	}
	if !doc.HasPerson(cmd.Author) {
		s.log.Warn("Post rejected, author not in room", "room", cmd.Room, "author", cmd.Author)
		return errors.ErrNotMember
	}

	timecode := cmd.Timecode
	if timecode == 0 {
		timecode = s.now()
	}
	doc.AppendMessage(domain.Message{
		Author:   cmd.Author,
		Content:  cmd.Content,
		Timecode: timecode,
	})
	return s.repository.Put(cmd.RoomID(), doc)
}

// ListPeople returns the roster in insertion order. Reads take a
// consistent snapshot from the store and do not block on an in-flight
// mutation: callers see the pre- or post-mutation document, never a
// torn one.
func (s *ChatService) ListPeople(roomID domain.RoomID) ([]string, error) {
	doc, err := s.repository.Get(roomID)
	if err != nil {
		return nil, err
	}
	return doc.People, nil
}

// ListMessages returns the log in insertion order.
func (s *ChatService) ListMessages(roomID domain.RoomID) ([]domain.Message, error) {
	doc, err := s.repository.Get(roomID)
	if err != nil {
		return nil, err
	}
	return doc.Messages, nil
}
