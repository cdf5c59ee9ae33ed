package node

import (
	"sync"
	"time"

	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	"github.com/beatoz/beatoz-rwdpool/cmd/version"
	"github.com/beatoz/beatoz-rwdpool/ctrlers/rwdpool"
	"github.com/beatoz/beatoz-rwdpool/ctrlers/token"
	"github.com/beatoz/beatoz-rwdpool/metrics"
	"github.com/beatoz/beatoz-rwdpool/types/bytes"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"github.com/tendermint/tendermint/libs/log"
)

// PoolApp owns the token ledgers and the reward pool of one data directory.
type PoolApp struct {
	tokens      map[string]*token.TokenCtrler
	rewardToken *token.TokenCtrler
	stakeToken  *token.TokenCtrler
	poolCtrler  *rwdpool.PoolCtrler
	metaDB      *MetaDB

	registry   *prometheus.Registry
	rootConfig *cfg.Config

	logger log.Logger
	mtx    sync.Mutex
}

func NewPoolApp(config *cfg.Config, logger log.Logger) (*PoolApp, xerrors.XError) {
	if xerr := config.ValidateBasic(); xerr != nil {
		return nil, xerr
	}

	tokens := make(map[string]*token.TokenCtrler)
	openToken := func(name string) (*token.TokenCtrler, xerrors.XError) {
		if ctrler, ok := tokens[name]; ok {
			return ctrler, nil
		}
		ctrler, xerr := token.NewTokenCtrler(name, config.DBDir(), config.RewardPool.CacheSize, logger)
		if xerr != nil {
			return nil, xerr
		}
		tokens[name] = ctrler
		return ctrler, nil
	}
	closeTokens := func() {
		for _, ctrler := range tokens {
			_ = ctrler.Close()
		}
	}

	rewardToken, xerr := openToken(config.RewardPool.RewardToken)
	if xerr != nil {
		closeTokens()
		return nil, xerr
	}
	// the stake token may be the reward token itself.
	stakeToken, xerr := openToken(config.RewardPool.StakeToken)
	if xerr != nil {
		closeTokens()
		return nil, xerr
	}

	poolCtrler, xerr := rwdpool.NewPoolCtrler(config, rewardToken, stakeToken, logger)
	if xerr != nil {
		closeTokens()
		return nil, xerr
	}

	metaDB, xerr := OpenMetaDB("meta", config.DBDir())
	if xerr != nil {
		_ = poolCtrler.Close()
		closeTokens()
		return nil, xerr
	}
	if xerr := checkVersions(metaDB.LastCommit(), poolCtrler.Version(), rewardToken.Version(), stakeToken.Version()); xerr != nil {
		_ = metaDB.Close()
		_ = poolCtrler.Close()
		closeTokens()
		return nil, xerr
	}

	var registry *prometheus.Registry
	if config.RPC.MetricsEnabled {
		registry = prometheus.NewRegistry()
		poolCtrler.SetMetrics(metrics.NewPoolMetrics(registry))
	}

	logger.Info("reward pool app is created",
		"version", version.String(),
		"pool", poolCtrler.PoolAddress(),
		"rewardToken", rewardToken.Name(),
		"stakeToken", stakeToken.Name(),
		"height", poolCtrler.Version())

	return &PoolApp{
		tokens:      tokens,
		rewardToken: rewardToken,
		stakeToken:  stakeToken,
		poolCtrler:  poolCtrler,
		metaDB:      metaDB,
		registry:    registry,
		rootConfig:  config,
		logger:      logger,
	}, nil
}

func (app *PoolApp) Pool() *rwdpool.PoolCtrler {
	return app.poolCtrler
}

func (app *PoolApp) RewardToken() *token.TokenCtrler {
	return app.rewardToken
}

func (app *PoolApp) StakeToken() *token.TokenCtrler {
	return app.stakeToken
}

func (app *PoolApp) Token(name string) (*token.TokenCtrler, xerrors.XError) {
	ctrler, ok := app.tokens[name]
	if !ok {
		return nil, xerrors.ErrNotFoundToken.Wrapf("token: %s", name)
	}
	return ctrler, nil
}

// Registry returns nil if metrics are disabled.
func (app *PoolApp) Registry() *prometheus.Registry {
	return app.registry
}

func (app *PoolApp) Config() *cfg.Config {
	return app.rootConfig
}

// Commit saves every ledger as one new version and returns the hash of their hashes.
func (app *PoolApp) Commit() ([]byte, int64, xerrors.XError) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	var hashes []byte
	var versions []int64
	commit := func(name string, fn func() ([]byte, int64, xerrors.XError)) xerrors.XError {
		hash, ver, xerr := fn()
		if xerr != nil {
			return xerr
		}
		app.logger.Debug("PoolApp::Commit", "ledger", name, "height", ver, "hash", bytes.HexBytes(hash))
		hashes = append(hashes, hash...)
		versions = append(versions, ver)
		return nil
	}

	if xerr := commit(app.rewardToken.Name(), app.rewardToken.Commit); xerr != nil {
		return nil, 0, xerr
	}
	if app.stakeToken != app.rewardToken {
		if xerr := commit(app.stakeToken.Name(), app.stakeToken.Commit); xerr != nil {
			return nil, 0, xerr
		}
	}
	if xerr := commit("rwdpool", app.poolCtrler.Commit); xerr != nil {
		return nil, 0, xerr
	}

	for _, ver := range versions[1:] {
		if ver != versions[0] {
			return nil, 0, xerrors.ErrCommit.Wrapf("not same versions: %v", versions)
		}
	}

	appHash := tmhash.Sum(hashes)
	if xerr := app.metaDB.PutLastCommit(&CommitInfo{
		Version: versions[0],
		AppHash: appHash,
		Time:    time.Now().Unix(),
	}); xerr != nil {
		return nil, 0, xerrors.ErrCommit.Wrap(xerr)
	}

	app.logger.Info("PoolApp::Commit", "height", versions[0], "appHash", bytes.HexBytes(appHash))
	return appHash, versions[0], nil
}

// LastCommit returns nil if nothing has been committed.
func (app *PoolApp) LastCommit() *CommitInfo {
	return app.metaDB.LastCommit()
}

// checkVersions fails if a ledger has been committed without the others.
func checkVersions(last *CommitInfo, versions ...int64) xerrors.XError {
	expected := int64(0)
	if last != nil {
		expected = last.Version
	}
	for _, ver := range versions {
		if ver != expected {
			return xerrors.ErrCommit.Wrapf("ledgers are out of sync: last commit %d, ledger versions %v", expected, versions)
		}
	}
	return nil
}

func (app *PoolApp) Stop() xerrors.XError {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if xerr := app.poolCtrler.Close(); xerr != nil {
		return xerr
	}
	for _, ctrler := range app.tokens {
		if xerr := ctrler.Close(); xerr != nil {
			return xerr
		}
	}
	return app.metaDB.Close()
}
