package event

import "github.com/lotto-lab/backend/internal/model"

type AdminStatsEvent model.AdminStats

func (AdminStatsEvent) Op() string {
	return "admin:stats"
}

type TicketsCreatedEvent struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	TicketsCreated int    `json:"ticketsCreated"`
}

func (TicketsCreatedEvent) Op() string {
	return "admin:tickets-created"
}

type DrawSuccessEvent struct {
	Success    bool             `json:"success"`
	DrawResult model.DrawResult `json:"drawResult"`
	Message    string           `json:"message"`
}

func (DrawSuccessEvent) Op() string {
	return "admin:draw-success"
}

type NewDrawResultEvent struct {
	DrawResult model.DrawResult `json:"drawResult"`
	Message    string           `json:"message"`
}

func (NewDrawResultEvent) Op() string {
	return "draw:new-result"
}

type LatestDrawResultEvent struct {
	DrawResult *model.DrawResult `json:"drawResult"`
}

func (LatestDrawResultEvent) Op() string {
	return "draw:latest-result"
}

type ResetSuccessEvent struct {
	Success        bool   `json:"success,omitempty"`
	Message        string `json:"message"`
	TicketsCreated int    `json:"ticketsCreated"`
}

func (ResetSuccessEvent) Op() string {
	return "admin:reset-success"
}
