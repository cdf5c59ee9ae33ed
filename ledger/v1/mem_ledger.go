package v1

import (
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/cosmos/iavl"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

type memEntry struct {
	val []byte // nil means deleted
}

// MemLedger reads through to a committed version and keeps every write in memory.
// It cannot be committed.
type MemLedger struct {
	immuTree   *iavl.ImmutableTree
	items      map[string]*memEntry
	revisions  *revisionList[*memEntry]
	newItemFor FuncNewItemFor
	logger     tmlog.Logger
	mtx        sync.RWMutex
}

var _ IImitable = (*MemLedger)(nil)

func NewMemLedgerAt(ver int64, from *MutableLedger, lg tmlog.Logger) (*MemLedger, xerrors.XError) {
	var tree *iavl.ImmutableTree
	if ver > 0 {
		_tree, xerr := from.GetReadOnlyTree(ver)
		if xerr != nil {
			return nil, xerr
		}
		tree = _tree
	}

	return &MemLedger{
		immuTree:   tree,
		items:      make(map[string]*memEntry),
		revisions:  newRevisionList[*memEntry](),
		newItemFor: from.NewItemFor(),
		logger:     lg.With("ledger", "MemLedger"),
	}, nil
}

func (ledger *MemLedger) Version() int64 {
	if ledger.immuTree == nil {
		return 0
	}
	return ledger.immuTree.Version()
}

func (ledger *MemLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, xerr := ledger.get(key)
	if xerr != nil {
		return nil, xerr
	}
	item := ledger.newItemFor(key)
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerr
	}
	return item, nil
}

func (ledger *MemLedger) Has(key LedgerKey) (bool, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	_, xerr := ledger.get(key)
	if xerr == xerrors.ErrNotFoundResult {
		return false, nil
	} else if xerr != nil {
		return false, xerr
	}
	return true, nil
}

func (ledger *MemLedger) get(key LedgerKey) ([]byte, xerrors.XError) {
	if ent, ok := ledger.items[string(key)]; ok {
		if ent.val == nil {
			return nil, xerrors.ErrNotFoundResult
		}
		return ent.val, nil
	}

	if ledger.immuTree == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	bz, err := ledger.immuTree.Get(key)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrap(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	return bz, nil
}

func (ledger *MemLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	bz, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}

	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.put(key, &memEntry{val: bz})
	return nil
}

func (ledger *MemLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.put(key, &memEntry{})
	return nil
}

func (ledger *MemLedger) put(key LedgerKey, ent *memEntry) {
	// a nil previous entry means the key was not overlaid yet.
	ledger.revisions.set(key, ledger.items[string(key)])
	ledger.items[string(key)] = ent
}

func (ledger *MemLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MemLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if snap < 0 || snap > ledger.revisions.snapshot() {
		return xerrors.ErrLedger.Wrapf("invalid snapshot: %d", snap)
	}

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.val == nil {
			delete(ledger.items, string(kv.key))
		} else {
			ledger.items[string(kv.key)] = kv.val
		}
	}
	ledger.revisions.revert(snap)
	return nil
}
