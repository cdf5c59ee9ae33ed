package v1

import (
	"bytes"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

// MutableLedger is a versioned iavl tree stored in goleveldb.
// Items are decoded on every Get, so a caller may modify the returned item freely
// and nothing changes until it is passed to Set.
type MutableLedger struct {
	db        dbm.DB
	tree      *iavl.MutableTree
	revisions *revisionList[[]byte]

	newItemFor FuncNewItemFor
	cacheSize  int

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ IMutable = (*MutableLedger)(nil)

func NewMutableLedger(name, dbDir string, cacheSize int, newItem FuncNewItemFor, lg tmlog.Logger) (*MutableLedger, xerrors.XError) {
	db, err := dbm.NewGoLevelDB(name, dbDir)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrap(xerrors.Wrap(err, "goleveldb open failed"))
	}

	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger(), iavl.SyncOption(true))
	if _, err := tree.LoadVersion(0); err != nil {
		_ = tree.Close()
		_ = db.Close()
		return nil, xerrors.ErrLedger.Wrap(xerrors.Wrap(err, "tree's LoadVersion failed"))
	}

	return &MutableLedger{
		db:         db,
		tree:       tree,
		revisions:  newRevisionList[[]byte](),
		newItemFor: newItem,
		cacheSize:  cacheSize,
		logger:     lg.With("ledger", "MutableLedger"),
	}, nil
}

func (ledger *MutableLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, err := ledger.tree.Get(key)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrap(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}

	item := ledger.newItemFor(key)
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerr
	}
	return item, nil
}

func (ledger *MutableLedger) Has(key LedgerKey) (bool, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, err := ledger.tree.Get(key)
	if err != nil {
		return false, xerrors.ErrLedger.Wrap(err)
	}
	return bz != nil, nil
}

func (ledger *MutableLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, err := ledger.tree.Get(key)
	if err != nil {
		return xerrors.ErrLedger.Wrap(err)
	}
	newVal, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}
	if bytes.Equal(oldVal, newVal) {
		return nil
	}

	if _, err := ledger.tree.Set(key, newVal); err != nil {
		return xerrors.ErrLedger.Wrap(err)
	}

	ledger.logger.Debug("set item to tree", "key", key, "oldVal", oldVal, "newVal", newVal)

	// a nil `oldVal` means the item is created and should be removed in reverting.
	ledger.revisions.set(key, oldVal)
	return nil
}

func (ledger *MutableLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, removed, err := ledger.tree.Remove(key)
	if err != nil {
		return xerrors.ErrLedger.Wrap(err)
	}
	ledger.logger.Debug("delete item from tree", "key", key, "value", oldVal, "removed", removed)

	if removed {
		ledger.revisions.set(key, oldVal)
	}
	return nil
}

func (ledger *MutableLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MutableLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if snap < 0 || snap > ledger.revisions.snapshot() {
		return xerrors.ErrLedger.Wrapf("invalid snapshot: %d", snap)
	}

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.val != nil {
			if _, err := ledger.tree.Set(kv.key, kv.val); err != nil {
				return xerrors.ErrLedger.Wrap(err)
			}
		} else if _, _, err := ledger.tree.Remove(kv.key); err != nil {
			return xerrors.ErrLedger.Wrap(err)
		}
	}
	ledger.revisions.revert(snap)

	ledger.logger.Debug("revert to snapshot", "snapshot", snap, "restored", len(restores))
	return nil
}

func (ledger *MutableLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.tree.SetCommitting()
	defer ledger.tree.UnsetCommitting()

	r1, r2, err := ledger.tree.SaveVersion()
	if err != nil {
		return r1, r2, xerrors.ErrCommit.Wrap(err)
	}

	ledger.logger.Debug("tree save version", "hash", r1, "version", r2)

	ledger.revisions.reset()
	return r1, r2, nil
}

func (ledger *MutableLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.tree.Version()
}

func (ledger *MutableLedger) GetReadOnlyTree(ver int64) (*iavl.ImmutableTree, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	tree, err := ledger.tree.GetImmutable(ver)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrap(err)
	}
	return tree, nil
}

func (ledger *MutableLedger) NewItemFor() FuncNewItemFor {
	return ledger.newItemFor
}

func (ledger *MutableLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.tree != nil {
		if err := ledger.tree.Close(); err != nil {
			return xerrors.ErrLedger.Wrap(err)
		}
	}
	ledger.tree = nil

	if ledger.db != nil {
		if err := ledger.db.Close(); err != nil {
			return xerrors.ErrLedger.Wrap(err)
		}
	}
	ledger.db = nil

	ledger.revisions.reset()

	return nil
}
