package event

import "github.com/lotto-lab/backend/internal/model"

type AuthSuccessEvent struct {
	User    model.User `json:"user"`
	IsAdmin bool       `json:"isAdmin"`
	Message string     `json:"message"`
}

func (AuthSuccessEvent) Op() string {
	return "auth:success"
}
