package config

import (
	"path/filepath"

	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
)

const (
	DefaultDirName    = ".rwdpool"
	DefaultConfigDir  = "config"
	DefaultConfigFile = "config.toml"
	DefaultPoolName   = "rwdpool"
)

type Config struct {
	tmcfg.BaseConfig `mapstructure:",squash"`

	RewardPool *RewardPoolConfig `mapstructure:"reward_pool"`
	RPC        *RPCConfig        `mapstructure:"rpc"`
}

type RewardPoolConfig struct {
	// PoolAddress is the account holding staked and reward tokens.
	// If empty, an address is derived from DefaultPoolName.
	PoolAddress string `mapstructure:"pool_address"`
	// AdminAddress is the only account allowed to fund reward periods.
	// If empty, any account may fund.
	AdminAddress string `mapstructure:"admin_address"`
	RewardToken  string `mapstructure:"reward_token"`
	StakeToken   string `mapstructure:"stake_token"`
	CacheSize    int    `mapstructure:"cache_size"`
}

type RPCConfig struct {
	ListenAddress  string `mapstructure:"laddr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseConfig: tmcfg.DefaultBaseConfig(),
		RewardPool: DefaultRewardPoolConfig(),
		RPC:        DefaultRPCConfig(),
	}
}

func DefaultRewardPoolConfig() *RewardPoolConfig {
	return &RewardPoolConfig{
		RewardToken: "reward",
		StakeToken:  "stake",
		CacheSize:   10000,
	}
}

func DefaultRPCConfig() *RPCConfig {
	return &RPCConfig{
		ListenAddress:  "127.0.0.1:26680",
		MetricsEnabled: true,
	}
}

func (cfg *Config) SetRoot(root string) *Config {
	cfg.RootDir = root
	return cfg
}

func (cfg *Config) ConfigFile() string {
	return filepath.Join(cfg.RootDir, DefaultConfigDir, DefaultConfigFile)
}

func (cfg *Config) ValidateBasic() xerrors.XError {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return xerrors.From(err)
	}
	if cfg.RewardPool == nil || cfg.RPC == nil {
		return xerrors.NewOrdinary("missing config section")
	}
	if cfg.RewardPool.RewardToken == "" || cfg.RewardPool.StakeToken == "" {
		return xerrors.NewOrdinary("token names must not be empty")
	}
	if _, xerr := cfg.PoolAddress(); xerr != nil {
		return xerr
	}
	if _, xerr := cfg.AdminAddress(); xerr != nil {
		return xerr
	}
	return nil
}

func (cfg *Config) PoolAddress() (types.Address, xerrors.XError) {
	if cfg.RewardPool.PoolAddress == "" {
		return types.NewAddressForModule(DefaultPoolName), nil
	}
	return types.HexToAddress(cfg.RewardPool.PoolAddress)
}

// AdminAddress returns nil if funding is not restricted.
func (cfg *Config) AdminAddress() (types.Address, xerrors.XError) {
	if cfg.RewardPool.AdminAddress == "" {
		return nil, nil
	}
	return types.HexToAddress(cfg.RewardPool.AdminAddress)
}

// WriteConfigFile writes cfg as toml to path.
func WriteConfigFile(path string, cfg *Config) xerrors.XError {
	v := viper.New()
	v.SetConfigType("toml")
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", cfg.LogFormat)
	v.Set("db_dir", cfg.DBPath)
	v.Set("reward_pool.pool_address", cfg.RewardPool.PoolAddress)
	v.Set("reward_pool.admin_address", cfg.RewardPool.AdminAddress)
	v.Set("reward_pool.reward_token", cfg.RewardPool.RewardToken)
	v.Set("reward_pool.stake_token", cfg.RewardPool.StakeToken)
	v.Set("reward_pool.cache_size", cfg.RewardPool.CacheSize)
	v.Set("rpc.laddr", cfg.RPC.ListenAddress)
	v.Set("rpc.metrics_enabled", cfg.RPC.MetricsEnabled)
	if err := v.WriteConfigAs(path); err != nil {
		return xerrors.From(err)
	}
	return nil
}
