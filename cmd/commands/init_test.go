package commands

import (
	"os"
	"path/filepath"
	"testing"

	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

func TestInitFilesWith(t *testing.T) {
	logger = tmlog.NewNopLogger()

	admin := types.RandAddress()
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	config.RewardPool.AdminAddress = admin.String()
	config.RewardPool.RewardToken = "rwd"

	require.NoError(t, InitFilesWith(config))
	require.DirExists(t, config.DBDir())
	require.FileExists(t, config.ConfigFile())

	v := viper.New()
	v.SetConfigFile(config.ConfigFile())
	require.NoError(t, v.ReadInConfig())

	loaded := cfg.DefaultConfig()
	require.NoError(t, v.Unmarshal(loaded))
	require.Equal(t, admin.String(), loaded.RewardPool.AdminAddress)
	require.Equal(t, "rwd", loaded.RewardPool.RewardToken)
	require.Equal(t, "stake", loaded.RewardPool.StakeToken)
	require.Equal(t, config.RPC.ListenAddress, loaded.RPC.ListenAddress)

	// the existing config file is kept
	config.RewardPool.RewardToken = "other"
	require.NoError(t, InitFilesWith(config))

	v = viper.New()
	v.SetConfigFile(config.ConfigFile())
	require.NoError(t, v.ReadInConfig())
	require.Equal(t, "rwd", v.GetString("reward_pool.reward_token"))
}

func TestInitFilesWith_InvalidConfig(t *testing.T) {
	logger = tmlog.NewNopLogger()

	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	config.RewardPool.PoolAddress = "not-an-address"
	require.Error(t, InitFilesWith(config))

	_, err := os.Stat(filepath.Join(config.RootDir, cfg.DefaultConfigDir, cfg.DefaultConfigFile))
	require.True(t, os.IsNotExist(err))
}

func TestParseTime(t *testing.T) {
	sec, err := parseTime("1700000000")
	require.NoError(t, err)
	require.Equal(t, int64(1_700_000_000), sec)

	sec, err = parseTime("2023-11-14T22:13:20Z")
	require.NoError(t, err)
	require.Equal(t, int64(1_700_000_000), sec)

	_, err = parseTime("yesterday")
	require.Error(t, err)
}
