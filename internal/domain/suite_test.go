package domain

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/credential"
	"github.com/lotto-lab/backend/pkg/sampling"
	"github.com/lotto-lab/backend/pkg/testutil"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// recorder is a subscriber keeping every frame it receives.
type recorder struct {
	mutex  sync.Mutex
	frames []frame
}

func (r *recorder) Write(msg []byte) error {
	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

func (r *recorder) ops() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	result := []string{}
	for _, f := range r.frames {
		result = append(result, f.Event)
	}

	return result
}

// last decodes the data of the latest frame named op into v.
func (r *recorder) last(t *testing.T, op string, v any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := len(r.frames) - 1; i >= 0; i-- {
		if r.frames[i].Event == op {
			require.NoError(t, json.Unmarshal(r.frames[i].Data, v))
			return
		}
	}

	require.Failf(t, "frame not found", "no %s frame", op)
}

func (r *recorder) reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.frames = nil
}

type suite struct {
	ctx context.Context

	registry session.Registry
	bus      broadcast.Bus
	redis    *testutil.MemoryRedisClient
	subs     map[string]*recorder

	userRepo     repository.UserRepository
	ticketRepo   repository.TicketRepository
	purchaseRepo repository.PurchaseRepository
	prizeRepo    repository.PrizeRepository

	connDomain     *connectionDomain
	authDomain     *authDomain
	ticketDomain   *ticketDomain
	purchaseDomain *purchaseDomain
	drawDomain     *drawDomain
	adminDomain    *adminDomain
}

func newSuite(t *testing.T) *suite {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	s := &suite{
		ctx:          testutil.CreateFixtureDb(),
		registry:     session.NewRegistry(),
		bus:          broadcast.NewBus(),
		redis:        testutil.NewMemoryRedisClient(),
		subs:         map[string]*recorder{},
		userRepo:     repository.NewUserRepository(),
		ticketRepo:   repository.NewTicketRepository(),
		purchaseRepo: repository.NewPurchaseRepository(),
		prizeRepo:    repository.NewPrizeRepository(),
	}

	verifier := common.NewSessionVerifier(s.registry)
	source := sampling.NewSeededSource(42)

	s.connDomain = NewConnectionDomain(s.registry, s.bus, verifier)
	s.authDomain = NewAuthDomain(s.userRepo, s.registry, s.bus, credential.NewBcryptVerifier(4))
	s.ticketDomain = NewTicketDomain(s.ticketRepo, s.registry, s.bus, verifier)
	s.purchaseDomain = NewPurchaseDomain(
		s.ticketRepo, s.userRepo, s.purchaseRepo, s.registry, s.bus, verifier)
	s.drawDomain = NewDrawDomain(s.ticketRepo, s.prizeRepo, s.bus, verifier, s.redis, source, node)
	s.adminDomain = NewAdminDomain(
		s.userRepo, s.ticketRepo, s.purchaseRepo, s.prizeRepo,
		s.registry, s.bus, verifier, s.redis, source)

	return s
}

// connect opens a connection and returns the context of its requests.
func (s *suite) connect(connID string) context.Context {
	ctx := xcontext.WithConnectionID(s.ctx, connID)
	s.subs[connID] = &recorder{}
	s.connDomain.Connect(ctx, s.subs[connID])
	return ctx
}

// login connects connID and logs it in as user.
func (s *suite) login(t *testing.T, connID string, user entity.User) context.Context {
	ctx := s.connect(connID)
	_, err := s.authDomain.Login(ctx, &model.LoginRequest{
		Username: user.Username,
		Password: testutil.Password,
	})
	require.NoError(t, err)

	s.subs[connID].reset()
	return ctx
}

func (s *suite) sub(connID string) *recorder {
	return s.subs[connID]
}

func (s *suite) ticket(t *testing.T, id int64) entity.Ticket {
	var ticket entity.Ticket
	require.NoError(t, xcontext.DB(s.ctx).First(&ticket, id).Error)
	return ticket
}

func (s *suite) user(t *testing.T, id int64) *entity.User {
	user, err := s.userRepo.GetByID(s.ctx, id)
	require.NoError(t, err)
	return user
}

// authenticate connects connID and binds it to user without a password
// check, for users created by testutil.SampleUser.
func (s *suite) authenticate(t *testing.T, connID string, user entity.User) context.Context {
	ctx := s.connect(connID)
	require.NoError(t, s.registry.Authenticate(connID, &user))
	return ctx
}

type contextWithUser struct {
	ctx  context.Context
	user entity.User
}
