package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006

	// Inventory codes
	InventoryConflict Code = 200001
	InsufficientFunds Code = 200002

	// Draw codes
	NoSoldTickets           Code = 300001
	InsufficientTickets     Code = 300002
	InsufficientSoldTickets Code = 300003
)

var codeNames = map[Code]string{
	Unknown.Code:            "UNKNOWN",
	BadRequest:              "BAD_REQUEST",
	PermissionDenied:        "PERMISSION_DENIED",
	NotFound:                "NOT_FOUND",
	Unauthenticated:         "UNAUTHENTICATED",
	AlreadyExists:           "ALREADY_EXISTS",
	InventoryConflict:       "INVENTORY_CONFLICT",
	InsufficientFunds:       "INSUFFICIENT_FUNDS",
	NoSoldTickets:           "NO_SOLD_TICKETS",
	InsufficientTickets:     "INSUFFICIENT_TICKETS",
	InsufficientSoldTickets: "INSUFFICIENT_SOLD_TICKETS",
}

// String returns the wire name of the code, e.g. NO_SOLD_TICKETS.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return codeNames[Unknown.Code]
}
