package event

import (
	"time"

	"github.com/lotto-lab/backend/internal/model"
)

type ConnectedEvent struct {
	SocketID  string    `json:"socketId"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

func (ConnectedEvent) Op() string {
	return "connected"
}

type UserJoinedEvent model.UserPresence

func (UserJoinedEvent) Op() string {
	return "user:joined"
}

type UserLeftEvent model.UserPresence

func (UserLeftEvent) Op() string {
	return "user:left"
}

type SessionInfoEvent model.SessionInfo

func (SessionInfoEvent) Op() string {
	return "session:info"
}

type SessionAllEvent []model.SessionInfo

func (SessionAllEvent) Op() string {
	return "session:all"
}
