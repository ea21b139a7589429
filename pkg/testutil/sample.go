package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
)

var sampleCounter atomic.Int64

// SampleUser creates a member in database with unique identity fields. The
// sample user can be overwritten by non-zero fields of init.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	n := sampleCounter.Add(1)
	sample := &entity.User{
		Username: fmt.Sprintf("sample-%d", n),
		Email:    fmt.Sprintf("sample-%d@lotto.local", n),
		Phone:    fmt.Sprintf("08%08d", n),
		Role:     entity.MemberRole,
		Wallet:   decimal.NewFromInt(1000),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := xcontext.DB(ctx).Create(sample).Error; err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SampleTicket creates an available ticket priced TicketPrice. The sample
// ticket can be overwritten by non-zero fields of init.
func SampleTicket(ctx context.Context, init *entity.Ticket) (entity.Ticket, error) {
	n := sampleCounter.Add(1)
	sample := &entity.Ticket{
		Number: fmt.Sprintf("9%05d", n%100000),
		Price:  TicketPrice,
		Status: entity.TicketAvailable,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := xcontext.DB(ctx).Create(sample).Error; err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
