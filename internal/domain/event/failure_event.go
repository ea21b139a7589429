package event

import (
	"errors"

	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/pkg/errorx"

	"github.com/shopspring/decimal"
)

const (
	AuthRequiredOp  = "auth:required"
	AuthForbiddenOp = "auth:forbidden"
	AuthErrorOp     = "auth:error"
	PurchaseErrorOp = "purchase:error"
	DrawErrorOp     = "admin:draw-error"
	ErrorOp         = "error"
)

// FailureEvent reports a failed request to the requester only.
type FailureEvent struct {
	op string

	Error     string           `json:"error"`
	Code      string           `json:"code,omitempty"`
	Required  *decimal.Decimal `json:"required,omitempty"`
	Available *decimal.Decimal `json:"available,omitempty"`
}

func (e FailureEvent) Op() string {
	return e.op
}

// NewFailure converts err into the failure event of a request whose generic
// failure op is op. Authentication errors always use their own ops.
func NewFailure(op string, err error) FailureEvent {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	ev := FailureEvent{op: op, Error: errx.Message}
	switch errx.Code {
	case errorx.Unauthenticated:
		ev.op = AuthRequiredOp
	case errorx.PermissionDenied:
		ev.op = AuthForbiddenOp
	}

	if ev.op == DrawErrorOp {
		ev.Code = errx.Code.String()
	}

	if shortfall, ok := errx.Data.(model.FundsShortfall); ok {
		ev.Required = &shortfall.Required
		ev.Available = &shortfall.Available
	}

	return ev
}
