package common

import (
	"context"

	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"golang.org/x/exp/slices"
)

// SessionVerifier checks the session of the requesting connection.
type SessionVerifier struct {
	registry session.Registry
}

func NewSessionVerifier(registry session.Registry) *SessionVerifier {
	return &SessionVerifier{registry: registry}
}

// Authenticated returns the session of the request if it is logged in.
func (verifier *SessionVerifier) Authenticated(ctx context.Context) (*session.Session, error) {
	s, ok := verifier.registry.Get(xcontext.ConnectionID(ctx))
	if !ok || !s.IsAuthenticated() {
		return nil, errorx.New(errorx.Unauthenticated, "Please log in first")
	}

	return s, nil
}

// Verify returns the session of the request if it is logged in with one of
// requiredRoles. Anonymous sessions are denied the same way.
func (verifier *SessionVerifier) Verify(ctx context.Context, requiredRoles ...entity.Role) (*session.Session, error) {
	s, ok := verifier.registry.Get(xcontext.ConnectionID(ctx))
	if !ok || !s.IsAuthenticated() || !slices.Contains(requiredRoles, s.Role()) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return s, nil
}
