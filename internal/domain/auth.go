package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/credential"
	"github.com/lotto-lab/backend/pkg/enum"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Login(context.Context, *model.LoginRequest) (*event.AuthSuccessEvent, error)
	Register(context.Context, *model.RegisterRequest) (*event.AuthSuccessEvent, error)
}

type authDomain struct {
	userRepo repository.UserRepository
	registry session.Registry
	bus      broadcast.Bus
	verifier credential.Verifier
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	registry session.Registry,
	bus broadcast.Bus,
	verifier credential.Verifier,
) *authDomain {
	return &authDomain{
		userRepo: userRepo,
		registry: registry,
		bus:      bus,
		verifier: verifier,
	}
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*event.AuthSuccessEvent, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errorx.New(errorx.BadRequest, "Username and password are required")
	}

	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Invalid username or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.verifier.Verify(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, credential.ErrMismatchedPassword) {
			xcontext.Logger(ctx).Warnf("Cannot verify password of user %d: %v", user.ID, err)
		}

		return nil, errorx.New(errorx.BadRequest, "Invalid username or password")
	}

	connID := xcontext.ConnectionID(ctx)
	if err := d.registry.Authenticate(connID, user); err != nil {
		return nil, err
	}

	resp := d.authSuccess(connID, user, "Logged in successfully")
	reply(ctx, d.bus, resp)

	s, ok := d.registry.Get(connID)
	if ok {
		d.bus.BroadcastExcept(ctx, connID, event.UserJoinedEvent(s.Presence()))
	}

	return resp, nil
}

func (d *authDomain) Register(ctx context.Context, req *model.RegisterRequest) (*event.AuthSuccessEvent, error) {
	if req.Username == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return nil, errorx.New(errorx.BadRequest, "Please fill in all required fields")
	}

	if req.Wallet == nil {
		return nil, errorx.New(errorx.BadRequest, "Initial wallet is required")
	}

	if req.Wallet.IsNegative() {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet amount")
	}

	if len(req.Password) < xcontext.Configs(ctx).Auth.MinPasswordLength {
		return nil, errorx.New(errorx.BadRequest, "Password is too short")
	}

	role := entity.MemberRole
	if req.Role != "" {
		var err error
		role, err = enum.ToEnum[entity.Role](req.Role)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid role %s", req.Role)
		}

		if slices.Contains(entity.AdminRoles, role) {
			return nil, errorx.New(errorx.BadRequest, "Cannot register an account with role %s", role)
		}
	}

	existing, err := d.userRepo.GetByIdentity(ctx, req.Username, req.Email, req.Phone)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get existing users: %v", err)
		return nil, errorx.Unknown
	}

	if err := checkDuplicatedIdentity(existing, req); err != nil {
		return nil, err
	}

	hash, err := d.verifier.Hash(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		PasswordHash: hash,
		Wallet:       money(*req.Wallet),
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, d.duplicatedIdentity(ctx, req)
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	connID := xcontext.ConnectionID(ctx)
	if err := d.registry.Authenticate(connID, user); err != nil {
		return nil, err
	}

	resp := d.authSuccess(connID, user, "Registered successfully")
	reply(ctx, d.bus, resp)
	return resp, nil
}

func (d *authDomain) authSuccess(connID string, user *entity.User, message string) *event.AuthSuccessEvent {
	u := model.ConvertUser(user)
	if s, ok := d.registry.Get(connID); ok {
		info := s.Info(time.Now())
		u.SessionInfo = &info
	}

	return &event.AuthSuccessEvent{
		User:    u,
		IsAdmin: slices.Contains(entity.AdminRoles, user.Role),
		Message: message,
	}
}

// duplicatedIdentity names the taken field after an insert hit a unique index,
// e.g. when another connection registered the same identity meanwhile.
func (d *authDomain) duplicatedIdentity(ctx context.Context, req *model.RegisterRequest) error {
	existing, err := d.userRepo.GetByIdentity(ctx, req.Username, req.Email, req.Phone)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get existing users: %v", err)
		return errorx.Unknown
	}

	if err := checkDuplicatedIdentity(existing, req); err != nil {
		return err
	}

	return errorx.New(errorx.AlreadyExists, "Account already exists")
}

// checkDuplicatedIdentity reports the first taken field, checking username,
// email then phone.
func checkDuplicatedIdentity(existing []entity.User, req *model.RegisterRequest) error {
	for _, u := range existing {
		if strings.EqualFold(u.Username, req.Username) {
			return errorx.New(errorx.AlreadyExists, "Username is already taken")
		}
	}

	for _, u := range existing {
		if strings.EqualFold(u.Email, req.Email) {
			return errorx.New(errorx.AlreadyExists, "Email is already taken")
		}
	}

	for _, u := range existing {
		if u.Phone == req.Phone {
			return errorx.New(errorx.AlreadyExists, "Phone number is already taken")
		}
	}

	return nil
}
