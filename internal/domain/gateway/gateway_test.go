package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/credential"
	"github.com/lotto-lab/backend/pkg/sampling"
	"github.com/lotto-lab/backend/pkg/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, context.Context) {
	ctx := testutil.CreateFixtureDb()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	registry := session.NewRegistry()
	bus := broadcast.NewBus()
	verifier := common.NewSessionVerifier(registry)
	source := sampling.NewSeededSource(7)

	userRepo := repository.NewUserRepository()
	ticketRepo := repository.NewTicketRepository()
	purchaseRepo := repository.NewPurchaseRepository()
	prizeRepo := repository.NewPrizeRepository()

	g := New(registry, bus, Domains{
		Connection: domain.NewConnectionDomain(registry, bus, verifier),
		Auth:       domain.NewAuthDomain(userRepo, registry, bus, credential.NewBcryptVerifier(4)),
		Ticket:     domain.NewTicketDomain(ticketRepo, registry, bus, verifier),
		Purchase:   domain.NewPurchaseDomain(ticketRepo, userRepo, purchaseRepo, registry, bus, verifier),
		Draw:       domain.NewDrawDomain(ticketRepo, prizeRepo, bus, verifier, nil, source, node),
		Admin: domain.NewAdminDomain(userRepo, ticketRepo, purchaseRepo, prizeRepo,
			registry, bus, verifier, nil, source),
	})

	srv := httptest.NewServer(g.Router(ctx).Handler())
	t.Cleanup(srv.Close)
	return srv, ctx
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Equal(t, "connected", read(t, conn).Event)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, ev string, data any) {
	require.NoError(t, conn.WriteJSON(map[string]any{"event": ev, "data": data}))
}

func read(t *testing.T, conn *websocket.Conn) frame {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

// readUntil skips frames until one named ev arrives.
func readUntil(t *testing.T, conn *websocket.Conn, ev string) frame {
	for {
		if f := read(t, conn); f.Event == ev {
			return f
		}
	}
}

func login(t *testing.T, conn *websocket.Conn, username string) {
	send(t, conn, "login", map[string]any{"username": username, "password": testutil.Password})
	require.Equal(t, "auth:success", read(t, conn).Event)
}

func Test_Gateway_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	dial(t, srv)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Code int64          `json:"code"`
		Data HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Zero(t, body.Code)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, 1, body.Data.Connections)
}

func Test_Gateway_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	// Events of a connection run in order, so the first one is counted once
	// the reply of the second arrives.
	send(t, conn, "tickets:get-all", nil)
	send(t, conn, "tickets:get-all", nil)
	require.Equal(t, "tickets:list", read(t, conn).Event)
	require.Equal(t, "tickets:list", read(t, conn).Event)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `lotto_events_total{event="tickets:get-all",result="success"}`)
	require.Contains(t, string(body), "lotto_active_connections")
}

func Test_Gateway_UnknownEvent(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, "tickets:steal", nil)
	f := read(t, conn)
	require.Equal(t, "error", f.Event)
	require.JSONEq(t, `{"error":"Unknown event"}`, string(f.Data))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.Equal(t, "error", read(t, conn).Event)
}

func Test_Gateway_AuthFailures(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, "tickets:purchase", map[string]any{"ticketIds": []int{1}})
	f := read(t, conn)
	require.Equal(t, "auth:required", f.Event)

	send(t, conn, "auth:login", map[string]any{"username": "alice", "password": "wrong"})
	require.Equal(t, "auth:error", read(t, conn).Event)

	login(t, conn, "alice")

	send(t, conn, "admin:get-stats", nil)
	require.Equal(t, "auth:forbidden", read(t, conn).Event)

	send(t, conn, "register", map[string]any{
		"username": "alice",
		"email":    "new@lotto.local",
		"phone":    "0999999999",
		"password": "password",
		"wallet":   100,
	})
	f = read(t, conn)
	require.Equal(t, "auth:error", f.Event)
	require.JSONEq(t, `{"error":"Username is already taken"}`, string(f.Data))
}

func Test_Gateway_PurchaseFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := dial(t, srv)
	watcher := dial(t, srv)

	login(t, alice, "alice")
	require.Equal(t, "user:joined", read(t, watcher).Event)

	// Numbers sent as strings are accepted.
	send(t, alice, "tickets:select", map[string]any{"ticketId": "1"})
	f := read(t, alice)
	require.Equal(t, "tickets:selected", f.Event)
	require.JSONEq(t, `{"ticketId":1,"selectedTickets":[1]}`, string(f.Data))

	send(t, alice, "tickets:purchase", map[string]any{"ticketIds": []int{1}})
	f = read(t, alice)
	require.Equal(t, "purchase:success", f.Event)

	var success struct {
		TotalCost       float64 `json:"totalCost"`
		RemainingWallet float64 `json:"remainingWallet"`
	}
	require.NoError(t, json.Unmarshal(f.Data, &success))
	require.Equal(t, 80.0, success.TotalCost)
	require.Equal(t, 20.0, success.RemainingWallet)

	require.Equal(t, "tickets:updated", read(t, alice).Event)
	require.Equal(t, "tickets:user-list", read(t, alice).Event)
	require.Equal(t, "tickets:updated", read(t, watcher).Event)

	send(t, alice, "tickets:purchase", map[string]any{"ticketIds": []int{2}})
	f = read(t, alice)
	require.Equal(t, "purchase:error", f.Event)
	require.JSONEq(t, `{"error":"Insufficient wallet balance","required":80,"available":20}`, string(f.Data))

	alice.Close()
	require.Equal(t, "user:left", read(t, watcher).Event)
}

func Test_Gateway_Draw(t *testing.T) {
	srv, _ := newTestServer(t)
	admin := dial(t, srv)
	login(t, admin, "admin")

	send(t, admin, "admin:draw-prizes", map[string]any{
		"poolType": "sold",
		"rewards":  []any{1000, "500", 300.5, 200, 100},
	})
	f := read(t, admin)
	require.Equal(t, "admin:draw-error", f.Event)
	require.JSONEq(t, `{"error":"There is no sold ticket","code":"NO_SOLD_TICKETS"}`, string(f.Data))

	send(t, admin, "admin:draw-prizes", map[string]any{
		"poolType": "all",
		"rewards":  []any{1000, "500", 300.5, 200, 100},
	})
	f = read(t, admin)
	require.Equal(t, "admin:draw-success", f.Event)

	var success struct {
		DrawResult struct {
			Prizes []struct {
				Tier   int     `json:"tier"`
				Amount float64 `json:"amount"`
			} `json:"prizes"`
		} `json:"drawResult"`
	}
	require.NoError(t, json.Unmarshal(f.Data, &success))
	require.Len(t, success.DrawResult.Prizes, 5)
	require.Equal(t, 300.5, success.DrawResult.Prizes[2].Amount)

	require.Equal(t, "draw:new-result", read(t, admin).Event)

	send(t, admin, "draw:get-latest", nil)
	readUntil(t, admin, "draw:latest-result")
}
