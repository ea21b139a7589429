package testutil

import (
	"testing"

	"github.com/lotto-lab/backend/internal/entity"

	"github.com/stretchr/testify/require"
)

func Test_SampleUser_DoesNotCollideWithFixtures(t *testing.T) {
	ctx := CreateFixtureDb()

	for i := 0; i < len(Users)+2; i++ {
		_, err := SampleUser(ctx, nil)
		require.NoError(t, err)
	}

	user, err := SampleUser(ctx, &entity.User{Username: "carol"})
	require.NoError(t, err)
	require.Equal(t, "carol", user.Username)
	require.Equal(t, entity.MemberRole, user.Role)
}

func Test_SampleTicket_DoesNotCollideWithFixtures(t *testing.T) {
	ctx := CreateFixtureDb()

	for i := 0; i < 3; i++ {
		ticket, err := SampleTicket(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, entity.TicketAvailable, ticket.Status)
	}
}
