package domain

import (
	"context"
	"time"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/xcontext"
)

type ConnectionDomain interface {
	Connect(context.Context, broadcast.Subscriber) *event.ConnectedEvent
	Disconnect(context.Context)
	GetInfo(context.Context) (*event.SessionInfoEvent, error)
	GetAll(context.Context) (event.SessionAllEvent, error)
}

type connectionDomain struct {
	registry session.Registry
	bus      broadcast.Bus
	verifier *common.SessionVerifier
}

func NewConnectionDomain(
	registry session.Registry,
	bus broadcast.Bus,
	verifier *common.SessionVerifier,
) *connectionDomain {
	return &connectionDomain{
		registry: registry,
		bus:      bus,
		verifier: verifier,
	}
}

// Connect opens an anonymous session for the connection of ctx and greets it.
func (d *connectionDomain) Connect(ctx context.Context, sub broadcast.Subscriber) *event.ConnectedEvent {
	connID := xcontext.ConnectionID(ctx)
	d.registry.Open(connID)
	d.bus.Subscribe(connID, sub)

	resp := &event.ConnectedEvent{
		SocketID:  connID,
		Timestamp: time.Now(),
		Message:   "Connected to Lotto Server",
	}
	reply(ctx, d.bus, resp)
	return resp
}

// Disconnect discards the session of the connection of ctx. Other clients are
// told when a logged in user leaves.
func (d *connectionDomain) Disconnect(ctx context.Context) {
	connID := xcontext.ConnectionID(ctx)
	d.bus.Unsubscribe(connID)

	s, ok := d.registry.Close(connID)
	if !ok || !s.IsAuthenticated() {
		return
	}

	d.bus.BroadcastExcept(ctx, connID, event.UserLeftEvent(s.Presence()))
}

func (d *connectionDomain) GetInfo(ctx context.Context) (*event.SessionInfoEvent, error) {
	s, ok := d.registry.Get(xcontext.ConnectionID(ctx))
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Connection is closed")
	}

	resp := event.SessionInfoEvent(s.Info(time.Now()))
	reply(ctx, d.bus, &resp)
	return &resp, nil
}

func (d *connectionDomain) GetAll(ctx context.Context) (event.SessionAllEvent, error) {
	if _, err := d.verifier.Verify(ctx, entity.AdminRoles...); err != nil {
		return nil, err
	}

	resp := event.SessionAllEvent(d.registry.Snapshot())
	reply(ctx, d.bus, resp)
	return resp, nil
}
