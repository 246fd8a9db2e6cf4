package domain

type Command interface {
	RoomID() RoomID
}

type JoinCommand struct {
	Room   int
	Person string
}

func (c JoinCommand) RoomID() RoomID {
	return RoomID(c.Room)
}

// PostCommand carries a message to append. A zero Timecode means the
// caller did not stamp the message and the service stamps it on arrival.
type PostCommand struct {
	Room     int
	Author   string
	Content  string
	Timecode int64
}

func (c PostCommand) RoomID() RoomID {
	return RoomID(c.Room)
}
