package gateway

import (
	"context"
	"time"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/prometheus"
	"github.com/lotto-lab/backend/pkg/router"
	"github.com/lotto-lab/backend/pkg/ws"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type HealthRequest struct{}

type HealthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}

// Gateway accepts websocket clients and dispatches their events.
type Gateway struct {
	registry session.Registry
	bus      broadcast.Bus
	domains  Domains
	routes   map[string]route
}

func New(registry session.Registry, bus broadcast.Bus, domains Domains) *Gateway {
	return &Gateway{
		registry: registry,
		bus:      bus,
		domains:  domains,
		routes:   newRoutes(domains),
	}
}

// Router registers the http surface of the gateway.
func (g *Gateway) Router(ctx context.Context) *router.Router {
	r := router.New(ctx)
	router.GET(r, "/health", g.Health)
	router.Handle(r, "/metrics", prometheus.NewHandler())
	router.Websocket(r, "/ws", g.ServeConn)
	return r
}

func (g *Gateway) Health(ctx context.Context, _ *HealthRequest) (*HealthResponse, error) {
	return &HealthResponse{Status: "ok", Connections: g.registry.Len()}, nil
}

// ServeConn runs a connection until the client goes away. Events of a
// connection are handled one at a time, in arrival order.
func (g *Gateway) ServeConn(ctx context.Context, conn *websocket.Conn) {
	client := ws.NewClient(conn, xcontext.Configs(ctx).Session.SendBuffer)
	defer client.Close()

	connID := uuid.NewString()
	ctx = xcontext.WithConnectionID(xcontext.Detach(ctx), connID)

	g.domains.Connection.Connect(ctx, client)
	defer g.domains.Connection.Disconnect(ctx)

	connections := common.PromGauges[common.ActiveConnections].WithLabelValues()
	connections.Inc()
	defer connections.Dec()

	xcontext.Logger(ctx).Debugf("Connection %s opened", connID)
	for msg := range client.R {
		g.dispatch(ctx, msg)
	}
	xcontext.Logger(ctx).Debugf("Connection %s closed", connID)
}

func (g *Gateway) dispatch(ctx context.Context, msg []byte) {
	connID := xcontext.ConnectionID(ctx)
	defer g.registry.Touch(connID)

	in, err := parseFrame(msg)
	if err != nil {
		g.bus.Send(ctx, connID, event.NewFailure(event.ErrorOp, errorx.New(errorx.BadRequest, "Invalid message")))
		return
	}

	r, ok := g.routes[in.Event]
	if !ok {
		common.PromCounters[common.EventTotal].WithLabelValues("unknown", "failure").Inc()
		g.bus.Send(ctx, connID, event.NewFailure(event.ErrorOp, errorx.New(errorx.BadRequest, "Unknown event")))
		return
	}

	start := time.Now()
	result := "success"
	if err := r.handle(ctx, in.Data); err != nil {
		result = "failure"
		g.bus.Send(ctx, connID, event.NewFailure(r.failureOp, err))
	}

	common.PromCounters[common.EventTotal].WithLabelValues(in.Event, result).Inc()
	common.PromHistograms[common.EventDurationSeconds].WithLabelValues(in.Event).Observe(time.Since(start).Seconds())

	xcontext.Logger(ctx).Debugf("Event %s of %s handled in %s", in.Event, connID, time.Since(start))
}
