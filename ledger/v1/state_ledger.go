package v1

import (
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// StateLedger is the durable ledger of a controller.
// Controllers serialize access with their own lock.
type StateLedger struct {
	*MutableLedger
	logger tmlog.Logger
}

var _ IStateLedger = (*StateLedger)(nil)

func NewStateLedger(name, dbDir string, cacheSize int, newItem FuncNewItemFor, lg tmlog.Logger) (*StateLedger, xerrors.XError) {
	_ledger, xerr := NewMutableLedger(name, dbDir, cacheSize, newItem, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &StateLedger{
		MutableLedger: _ledger,
		logger:        lg.With("ledger", "StateLedger", "name", name),
	}, nil
}

func (ledger *StateLedger) Commit() ([]byte, int64, xerrors.XError) {
	hash, ver, xerr := ledger.MutableLedger.Commit()
	if xerr != nil {
		ledger.logger.Error("commit failed", "error", xerr.Error())
		return nil, 0, xerr
	}
	ledger.logger.Debug("committed", "version", ver, "hash", hash)
	return hash, ver, nil
}

// ImitableLedgerAt returns a scratch ledger on the committed version `height`.
// If `height` is 0, the latest committed version is used.
func (ledger *StateLedger) ImitableLedgerAt(height int64) (IImitable, xerrors.XError) {
	if height <= 0 {
		height = ledger.Version()
	}
	if height > ledger.Version() {
		return nil, xerrors.ErrLedger.Wrapf("version %d is not committed yet", height)
	}
	return NewMemLedgerAt(height, ledger.MutableLedger, ledger.logger)
}
