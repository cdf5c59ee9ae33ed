package v1

import (
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/cosmos/iavl"
)

type FuncNewItemFor func(LedgerKey) ILedgerItem

type IGettable interface {
	Get(LedgerKey) (ILedgerItem, xerrors.XError)
	Has(LedgerKey) (bool, xerrors.XError)
}

type ISettable interface {
	Set(LedgerKey, ILedgerItem) xerrors.XError
	Del(LedgerKey) xerrors.XError
	Snapshot() int
	RevertToSnapshot(int) xerrors.XError
}

type ICommittable interface {
	Commit() ([]byte, int64, xerrors.XError)
}

type IImitable interface {
	IGettable
	ISettable
}

type IMutable interface {
	IGettable
	ISettable
	ICommittable
	Version() int64
	GetReadOnlyTree(int64) (*iavl.ImmutableTree, xerrors.XError)
	Close() xerrors.XError
}

// IStateLedger is the ledger a controller owns.
// Get, Set and Del work on the uncommitted working state.
// ImitableLedgerAt opens a scratch view on a committed version.
type IStateLedger interface {
	IImitable
	ICommittable
	Version() int64
	ImitableLedgerAt(int64) (IImitable, xerrors.XError)
	Close() xerrors.XError
}

type ILedgerItem interface {
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type LedgerKey = []byte
