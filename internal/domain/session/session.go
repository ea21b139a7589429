package session

import (
	"sync"
	"time"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Session is the state of one connection. It starts anonymous and becomes
// authenticated after a login or register. Only the Registry mutates it.
type Session struct {
	id          string
	connectedAt time.Time

	mutex         sync.RWMutex
	authenticated bool
	userID        int64
	username      string
	role          entity.Role
	wallet        decimal.Decimal
	selected      []int64
	lastActivity  time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:           id,
		connectedAt:  now,
		lastActivity: now,
		selected:     []int64{},
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) IsAuthenticated() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.authenticated
}

// UserID returns 0 while the session is anonymous.
func (s *Session) UserID() int64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.userID
}

func (s *Session) Username() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.username
}

func (s *Session) Role() entity.Role {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.role
}

func (s *Session) Wallet() decimal.Decimal {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.wallet
}

func (s *Session) SelectedTickets() []int64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return slices.Clone(s.selected)
}

func (s *Session) Presence() model.UserPresence {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return model.UserPresence{
		UserID:   s.userID,
		Username: s.username,
		Role:     string(s.role),
	}
}

func (s *Session) Info(now time.Time) model.SessionInfo {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	info := model.SessionInfo{
		SocketID:           s.id,
		IsAuthenticated:    s.authenticated,
		SelectedTickets:    slices.Clone(s.selected),
		LastActivity:       s.lastActivity,
		ConnectionTime:     s.connectedAt,
		ConnectionDuration: now.Sub(s.connectedAt).Milliseconds(),
	}

	if s.authenticated {
		userID, username, role, wallet := s.userID, s.username, string(s.role), s.wallet
		info.UserID = &userID
		info.Username = &username
		info.Role = &role
		info.Wallet = &wallet
	}

	return info
}

func (s *Session) authenticate(user *entity.User, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.authenticated = true
	s.userID = user.ID
	s.username = user.Username
	s.role = user.Role
	s.wallet = user.Wallet
	s.lastActivity = now
}

// logout returns the session to anonymous. It reports the user id it was bound
// to, or false when the session did not have the given role.
func (s *Session) logout(role entity.Role, now time.Time) (int64, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.authenticated || s.role != role {
		return 0, false
	}

	userID := s.userID
	s.authenticated = false
	s.userID = 0
	s.username = ""
	s.role = ""
	s.wallet = decimal.Zero
	s.selected = []int64{}
	s.lastActivity = now
	return userID, true
}

func (s *Session) selectTicket(ticketID int64, now time.Time) []int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !slices.Contains(s.selected, ticketID) {
		s.selected = append(s.selected, ticketID)
	}
	s.lastActivity = now
	return slices.Clone(s.selected)
}

func (s *Session) deselectTicket(ticketID int64, now time.Time) []int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if i := slices.Index(s.selected, ticketID); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	}
	s.lastActivity = now
	return slices.Clone(s.selected)
}

func (s *Session) clearSelection(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.selected = []int64{}
	s.lastActivity = now
}

func (s *Session) updateWallet(wallet decimal.Decimal, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.wallet = wallet
	s.lastActivity = now
}

func (s *Session) touch(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActivity = now
}
