package domain

import (
	"testing"

	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func Test_connectionDomain_Connect(t *testing.T) {
	s := newSuite(t)
	ctx := s.connect("conn1")

	require.Equal(t, []string{"connected"}, s.sub("conn1").ops())

	var connected struct {
		SocketID string `json:"socketId"`
		Message  string `json:"message"`
	}
	s.sub("conn1").last(t, "connected", &connected)
	require.Equal(t, "conn1", connected.SocketID)
	require.Equal(t, "Connected to Lotto Server", connected.Message)

	info, err := s.connDomain.GetInfo(ctx)
	require.NoError(t, err)
	require.False(t, info.IsAuthenticated)
	require.Nil(t, info.UserID)
	require.Equal(t, 1, s.registry.Len())
}

func Test_connectionDomain_JoinAndLeave(t *testing.T) {
	s := newSuite(t)
	s.connect("watcher")
	s.sub("watcher").reset()

	ctx := s.login(t, "alice", testutil.Member1)
	require.Equal(t, []string{"user:joined"}, s.sub("watcher").ops())

	var joined model.UserPresence
	s.sub("watcher").last(t, "user:joined", &joined)
	require.Equal(t, testutil.Member1.ID, joined.UserID)
	require.Equal(t, "alice", joined.Username)

	s.connDomain.Disconnect(ctx)
	require.Equal(t, []string{"user:joined", "user:left"}, s.sub("watcher").ops())
	require.Empty(t, s.sub("alice").ops())
	require.Equal(t, 1, s.registry.Len())

	// Anonymous connections leave silently.
	s.connDomain.Disconnect(ctx)
	anonymous := s.connect("anonymous")
	s.connDomain.Disconnect(anonymous)
	require.Len(t, s.sub("watcher").ops(), 2)
}

func Test_connectionDomain_GetAll(t *testing.T) {
	s := newSuite(t)
	memberCtx := s.login(t, "alice", testutil.Member1)
	adminCtx := s.login(t, "admin", testutil.Admin)
	s.connect("anonymous")

	_, err := s.connDomain.GetAll(memberCtx)
	require.Equal(t, errorx.PermissionDenied, errorx.CodeOf(err))

	all, err := s.connDomain.GetAll(adminCtx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"session:all"}, s.sub("admin").ops())

	info, err := s.connDomain.GetInfo(memberCtx)
	require.NoError(t, err)
	require.True(t, info.IsAuthenticated)
	require.Equal(t, testutil.Member1.ID, *info.UserID)
	require.True(t, testutil.Member1.Wallet.Equal(*info.Wallet))
}
