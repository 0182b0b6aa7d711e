package aggregates

import (
	"fmt"

	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
)

// TxOwnership names the side that opens the transaction a write runs in.
type TxOwnership string

const (
	// TxOwnedByAggregate: the aggregate opens, retries and commits the transaction itself.
	TxOwnedByAggregate TxOwnership = "aggregate"
	// TxOwnedByCaller: the write joins a transaction the caller already holds.
	TxOwnedByCaller TxOwnership = "caller"
)

// Contract declares the write boundaries of an aggregate, one entry per write path.
type Contract struct {
	Name  string
	Owns  TxOwnership
	Joins TxOwnership
	Notes string
}

// Aggregate is implemented by every aggregate so its boundary can be checked at runtime.
type Aggregate interface {
	Contract() Contract
}

// CheckTx reports whether dbc satisfies ownership for a write named op.
// Both modes need an open transaction at the point of the write; they differ
// in who is at fault when it is missing.
func (c Contract) CheckTx(op string, ownership TxOwnership, dbc dbctx.Context) error {
	if dbc.Tx != nil {
		return nil
	}
	switch ownership {
	case TxOwnedByCaller:
		return NewError(CodeValidation, op, fmt.Sprintf("%s requires a caller transaction", c.Name), nil)
	case TxOwnedByAggregate:
		return NewError(CodeInvariantViolation, op, fmt.Sprintf("%s write ran outside its own transaction", c.Name), nil)
	default:
		return NewError(CodeInternal, op, fmt.Sprintf("%s: unknown tx ownership %q", c.Name, ownership), nil)
	}
}
