package node

import (
	"sync"

	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types/bytes"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	tmdb "github.com/tendermint/tm-db"
)

const keyLastCommit = "lc"

// CommitInfo describes the last version committed by all ledgers together.
type CommitInfo struct {
	Version int64          `json:"version"`
	AppHash bytes.HexBytes `json:"appHash"`
	Time    int64          `json:"time"`
}

// MetaDB keeps the app level data which does not belong to any ledger.
type MetaDB struct {
	db         tmdb.DB
	lastCommit *CommitInfo

	mtx sync.RWMutex
}

func OpenMetaDB(name, dir string) (*MetaDB, xerrors.XError) {
	// The returned 'db' instance is safe in concurrent use.
	db, err := tmdb.NewDB(name, tmdb.GoLevelDBBackend, dir)
	if err != nil {
		return nil, xerrors.From(err)
	}

	var lastCommit *CommitInfo
	if v, err := db.Get([]byte(keyLastCommit)); err != nil {
		_ = db.Close()
		return nil, xerrors.From(err)
	} else if v != nil {
		lastCommit = &CommitInfo{}
		if err := jsonx.Unmarshal(v, lastCommit); err != nil {
			_ = db.Close()
			return nil, xerrors.From(err)
		}
	}

	return &MetaDB{
		db:         db,
		lastCommit: lastCommit,
	}, nil
}

func (stdb *MetaDB) Close() xerrors.XError {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	if err := stdb.db.Close(); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// LastCommit returns nil if nothing has been committed.
func (stdb *MetaDB) LastCommit() *CommitInfo {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	if stdb.lastCommit == nil {
		return nil
	}
	info := *stdb.lastCommit
	return &info
}

func (stdb *MetaDB) PutLastCommit(info *CommitInfo) xerrors.XError {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	bz, err := jsonx.Marshal(info)
	if err != nil {
		return xerrors.From(err)
	}
	if err := stdb.db.SetSync([]byte(keyLastCommit), bz); err != nil {
		return xerrors.From(err)
	}
	cpy := *info
	stdb.lastCommit = &cpy
	return nil
}
