package main

import "time"

// Config defines the client-side environment variables.
type Config struct {
	ServerURL     string        `env:"CHAT_SERVER_URL,default=http://localhost:8080"`
	DefaultRoomID int           `env:"CHAT_ROOM_ID,default=1"`
	Nickname      string        `env:"CHAT_NICKNAME,required=true"`
	PollInterval  time.Duration `env:"POLL_INTERVAL,default=2s"`
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT,default=5s"`
	LogLevel      string        `env:"LOG_LEVEL,required=true"`
}
