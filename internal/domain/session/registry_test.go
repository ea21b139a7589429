package session

import (
	"sync"
	"testing"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/errorx"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var alice = &entity.User{
	Base:     entity.Base{ID: 3},
	Username: "alice",
	Role:     entity.MemberRole,
	Wallet:   decimal.NewFromInt(100),
}

func Test_registry_OpenIsIdempotent(t *testing.T) {
	r := NewRegistry()

	first := r.Open("conn1")
	second := r.Open("conn1")
	require.Same(t, first, second)
	require.Equal(t, 1, r.Len())
	require.Equal(t, 0, r.AuthenticatedLen())
	require.False(t, first.IsAuthenticated())
}

func Test_registry_SelectRequiresAuthentication(t *testing.T) {
	r := NewRegistry()
	r.Open("conn1")

	_, err := r.Select("conn1", 1)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))

	_, err = r.Deselect("conn1", 1)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))

	_, err = r.Select("unknown", 1)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))
}

func Test_registry_SelectIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Open("conn1")
	require.NoError(t, r.Authenticate("conn1", alice))

	testCases := []struct {
		name     string
		deselect bool
		ticketID int64
		want     []int64
	}{
		{name: "select", ticketID: 5, want: []int64{5}},
		{name: "select again", ticketID: 5, want: []int64{5}},
		{name: "select another", ticketID: 9, want: []int64{5, 9}},
		{name: "deselect absent", deselect: true, ticketID: 7, want: []int64{5, 9}},
		{name: "deselect", deselect: true, ticketID: 5, want: []int64{9}},
		{name: "deselect again", deselect: true, ticketID: 5, want: []int64{9}},
	}

	for _, tt := range testCases {
		var got []int64
		var err error
		if tt.deselect {
			got, err = r.Deselect("conn1", tt.ticketID)
		} else {
			got, err = r.Select("conn1", tt.ticketID)
		}

		require.NoError(t, err, tt.name)
		require.Equal(t, tt.want, got, tt.name)
	}

	s, _ := r.Get("conn1")
	require.Equal(t, []int64{9}, s.SelectedTickets())

	r.ClearSelection("conn1")
	require.Empty(t, s.SelectedTickets())
}

func Test_registry_AuthenticateAndClose(t *testing.T) {
	r := NewRegistry()
	r.Open("conn1")
	r.Open("conn2")
	r.Open("conn3")

	require.NoError(t, r.Authenticate("conn1", alice))
	require.NoError(t, r.Authenticate("conn2", alice))
	require.Equal(t, 2, r.AuthenticatedLen())

	r.UpdateWallet(alice.ID, decimal.NewFromInt(20))
	for _, connID := range []string{"conn1", "conn2"} {
		s, ok := r.Get(connID)
		require.True(t, ok)
		require.True(t, decimal.NewFromInt(20).Equal(s.Wallet()))
	}

	closed, ok := r.Close("conn1")
	require.True(t, ok)
	require.True(t, closed.IsAuthenticated())
	require.Equal(t, "alice", closed.Presence().Username)

	_, ok = r.Close("conn1")
	require.False(t, ok)

	_, ok = r.Get("conn1")
	require.False(t, ok)
	require.Equal(t, 2, r.Len())

	// The closed connection does not receive wallet updates anymore.
	r.UpdateWallet(alice.ID, decimal.NewFromInt(10))
	require.True(t, decimal.NewFromInt(20).Equal(closed.Wallet()))

	require.Error(t, r.Authenticate("conn1", alice))
}

func Test_registry_LogoutRole(t *testing.T) {
	r := NewRegistry()
	r.Open("conn1")
	r.Open("conn2")
	r.Open("conn3")

	admin := &entity.User{Base: entity.Base{ID: 2}, Username: "admin", Role: entity.AdminRole}
	require.NoError(t, r.Authenticate("conn1", alice))
	require.NoError(t, r.Authenticate("conn2", alice))
	require.NoError(t, r.Authenticate("conn3", admin))
	_, err := r.Select("conn1", 7)
	require.NoError(t, err)

	require.Equal(t, 2, r.LogoutRole(entity.MemberRole))
	require.Equal(t, 3, r.Len())
	require.Equal(t, 1, r.AuthenticatedLen())

	s, ok := r.Get("conn1")
	require.True(t, ok)
	require.False(t, s.IsAuthenticated())
	require.Zero(t, s.UserID())
	require.Empty(t, s.SelectedTickets())

	_, err = r.Select("conn1", 7)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))

	// Wallet updates no longer reach the logged out connections.
	r.UpdateWallet(alice.ID, decimal.NewFromInt(1))
	require.True(t, s.Wallet().IsZero())

	require.Zero(t, r.LogoutRole(entity.MemberRole))
}

func Test_registry_Snapshot(t *testing.T) {
	r := NewRegistry()
	r.Open("conn1")
	r.Open("conn2")
	require.NoError(t, r.Authenticate("conn2", alice))

	infos := r.Snapshot()
	require.Len(t, infos, 2)

	for _, info := range infos {
		switch info.SocketID {
		case "conn1":
			require.False(t, info.IsAuthenticated)
			require.Nil(t, info.UserID)
			require.Nil(t, info.Wallet)
		case "conn2":
			require.True(t, info.IsAuthenticated)
			require.Equal(t, alice.ID, *info.UserID)
			require.Equal(t, "member", *info.Role)
		default:
			t.Fatalf("unexpected session %s", info.SocketID)
		}
	}
}

func Test_registry_Concurrent(t *testing.T) {
	r := NewRegistry()

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Open("conn")
			_, _ = r.Select("conn", int64(i))
			r.Snapshot()
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, r.Len())
}
