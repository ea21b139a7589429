package testutil

import (
	"context"
	"fmt"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/credential"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// CreateFixtureDb returns a context whose database holds an owner, an admin,
// two members and TicketCount available tickets priced TicketPrice.
func CreateFixtureDb() context.Context {
	ctx := MockContext()
	InsertUsers(ctx)
	InsertTickets(ctx, TicketCount)
	return ctx
}

const TicketCount = 120

var TicketPrice = decimal.NewFromInt(80)

var (
	Owner = entity.User{
		Base:     entity.Base{ID: 1},
		Username: "owner",
		Email:    "owner@lotto.local",
		Phone:    "0900000001",
		Role:     entity.OwnerRole,
		Wallet:   decimal.Zero,
	}

	Admin = entity.User{
		Base:     entity.Base{ID: 2},
		Username: "admin",
		Email:    "admin@lotto.local",
		Phone:    "0900000002",
		Role:     entity.AdminRole,
		Wallet:   decimal.Zero,
	}

	Member1 = entity.User{
		Base:     entity.Base{ID: 3},
		Username: "alice",
		Email:    "alice@lotto.local",
		Phone:    "0900000003",
		Role:     entity.MemberRole,
		Wallet:   decimal.NewFromInt(100),
	}

	Member2 = entity.User{
		Base:     entity.Base{ID: 4},
		Username: "bob",
		Email:    "bob@lotto.local",
		Phone:    "0900000004",
		Role:     entity.MemberRole,
		Wallet:   decimal.NewFromInt(50),
	}

	Users = []*entity.User{&Owner, &Admin, &Member1, &Member2}
)

// Password is the password of every fixture user.
const Password = "secret123"

func InsertUsers(ctx context.Context) {
	hash, err := credential.NewBcryptVerifier(bcrypt.MinCost).Hash(Password)
	if err != nil {
		panic(err)
	}

	for _, u := range Users {
		user := *u
		user.PasswordHash = hash
		if err := xcontext.DB(ctx).Create(&user).Error; err != nil {
			panic(err)
		}
	}
}

// InsertTickets inserts n available tickets numbered 000001..n. Ticket i has
// id i.
func InsertTickets(ctx context.Context, n int) {
	tickets := make([]entity.Ticket, 0, n)
	for i := 1; i <= n; i++ {
		tickets = append(tickets, entity.Ticket{
			Base:   entity.Base{ID: int64(i)},
			Number: fmt.Sprintf("%06d", i),
			Price:  TicketPrice,
			Status: entity.TicketAvailable,
		})
	}

	if err := xcontext.DB(ctx).CreateInBatches(tickets, 50).Error; err != nil {
		panic(err)
	}
}
