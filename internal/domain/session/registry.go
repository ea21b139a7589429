package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/pkg/errorx"

	"github.com/puzpuzpuz/xsync"
	"github.com/shopspring/decimal"
)

type Registry interface {
	Open(connID string) *Session
	Get(connID string) (*Session, bool)
	Close(connID string) (*Session, bool)
	Range(fn func(*Session) bool)
	Len() int
	AuthenticatedLen() int
	Snapshot() []model.SessionInfo

	Authenticate(connID string, user *entity.User) error
	LogoutRole(role entity.Role) int
	Select(connID string, ticketID int64) ([]int64, error)
	Deselect(connID string, ticketID int64) ([]int64, error)
	ClearSelection(connID string)
	UpdateWallet(userID int64, wallet decimal.Decimal)
	Touch(connID string)
}

type registry struct {
	sessions *xsync.MapOf[string, *Session]

	// users indexes the connections of every authenticated user. A user may
	// be logged in from several connections at once.
	users *xsync.MapOf[string, *connSet]

	now func() time.Time
}

func NewRegistry() *registry {
	return &registry{
		sessions: xsync.NewMapOf[*Session](),
		users:    xsync.NewMapOf[*connSet](),
		now:      time.Now,
	}
}

// Open returns the session of connID, creating it if needed.
func (r *registry) Open(connID string) *Session {
	s, _ := r.sessions.LoadOrStore(connID, newSession(connID, r.now()))
	return s
}

func (r *registry) Get(connID string) (*Session, bool) {
	return r.sessions.Load(connID)
}

// Close removes the session of connID and returns it so the caller can
// announce the departure of its user.
func (r *registry) Close(connID string) (*Session, bool) {
	s, ok := r.sessions.LoadAndDelete(connID)
	if !ok {
		return nil, false
	}

	if s.IsAuthenticated() {
		r.unindex(s.UserID(), connID)
	}

	return s, true
}

func (r *registry) Range(fn func(*Session) bool) {
	r.sessions.Range(func(_ string, s *Session) bool {
		return fn(s)
	})
}

func (r *registry) Len() int {
	return r.sessions.Size()
}

func (r *registry) AuthenticatedLen() int {
	n := 0
	r.Range(func(s *Session) bool {
		if s.IsAuthenticated() {
			n++
		}
		return true
	})

	return n
}

func (r *registry) Snapshot() []model.SessionInfo {
	now := r.now()
	result := []model.SessionInfo{}
	r.Range(func(s *Session) bool {
		result = append(result, s.Info(now))
		return true
	})

	return result
}

// Authenticate binds user to the session. Authenticating an authenticated
// session replaces its identity.
func (r *registry) Authenticate(connID string, user *entity.User) error {
	s, ok := r.sessions.Load(connID)
	if !ok {
		return errorx.New(errorx.NotFound, "Connection is closed")
	}

	if s.IsAuthenticated() && s.UserID() != user.ID {
		r.unindex(s.UserID(), connID)
	}

	s.authenticate(user, r.now())
	r.index(user.ID, connID)
	return nil
}

// LogoutRole returns every session of the given role to anonymous, e.g. after
// the accounts behind them were deleted. The connections stay open.
func (r *registry) LogoutRole(role entity.Role) int {
	now := r.now()
	n := 0
	r.Range(func(s *Session) bool {
		if userID, ok := s.logout(role, now); ok {
			r.unindex(userID, s.ID())
			n++
		}
		return true
	})

	return n
}

func (r *registry) Select(connID string, ticketID int64) ([]int64, error) {
	s, err := r.authenticated(connID)
	if err != nil {
		return nil, err
	}

	return s.selectTicket(ticketID, r.now()), nil
}

func (r *registry) Deselect(connID string, ticketID int64) ([]int64, error) {
	s, err := r.authenticated(connID)
	if err != nil {
		return nil, err
	}

	return s.deselectTicket(ticketID, r.now()), nil
}

func (r *registry) ClearSelection(connID string) {
	if s, ok := r.sessions.Load(connID); ok {
		s.clearSelection(r.now())
	}
}

// UpdateWallet refreshes the cached wallet of every connection of userID.
func (r *registry) UpdateWallet(userID int64, wallet decimal.Decimal) {
	set, ok := r.users.Load(userKey(userID))
	if !ok {
		return
	}

	now := r.now()
	for _, connID := range set.list() {
		if s, ok := r.sessions.Load(connID); ok && s.UserID() == userID {
			s.updateWallet(wallet, now)
		}
	}
}

func (r *registry) Touch(connID string) {
	if s, ok := r.sessions.Load(connID); ok {
		s.touch(r.now())
	}
}

func (r *registry) authenticated(connID string) (*Session, error) {
	s, ok := r.sessions.Load(connID)
	if !ok || !s.IsAuthenticated() {
		return nil, errorx.New(errorx.Unauthenticated, "Please log in first")
	}

	return s, nil
}

func (r *registry) index(userID int64, connID string) {
	set, _ := r.users.LoadOrStore(userKey(userID), &connSet{conns: map[string]struct{}{}})
	set.add(connID)
}

func (r *registry) unindex(userID int64, connID string) {
	if set, ok := r.users.Load(userKey(userID)); ok {
		set.remove(connID)
	}
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

type connSet struct {
	mutex sync.Mutex
	conns map[string]struct{}
}

func (c *connSet) add(connID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.conns[connID] = struct{}{}
}

func (c *connSet) remove(connID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.conns, connID)
}

func (c *connSet) list() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	result := make([]string, 0, len(c.conns))
	for connID := range c.conns {
		result = append(result, connID)
	}

	return result
}
