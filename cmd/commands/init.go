package commands

import (
	"fmt"
	"path/filepath"

	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var (
	initAdminAddr   string
	initPoolAddr    string
	initRewardToken string
	initStakeToken  string
)

func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the config file and the data directory",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&initAdminAddr,
		"admin",
		"",
		"the only account allowed to fund reward periods.\n"+
			"if it is empty, any account can fund reward periods.")
	cmd.Flags().StringVar(
		&initPoolAddr,
		"pool",
		"",
		"the account holding the staked and the reward tokens.\n"+
			"if it is empty, an address derived from the pool name is used.")
	cmd.Flags().StringVar(&initRewardToken, "reward_token", cfg.DefaultRewardPoolConfig().RewardToken, "the name of the reward token ledger")
	cmd.Flags().StringVar(&initStakeToken, "stake_token", cfg.DefaultRewardPoolConfig().StakeToken, "the name of the stake token ledger")
}

func initFiles(cmd *cobra.Command, args []string) error {
	rootConfig.RewardPool.AdminAddress = initAdminAddr
	rootConfig.RewardPool.PoolAddress = initPoolAddr
	rootConfig.RewardPool.RewardToken = initRewardToken
	rootConfig.RewardPool.StakeToken = initStakeToken
	return InitFilesWith(rootConfig)
}

// InitFilesWith writes the config file of `config` unless it exists and creates the data directory.
func InitFilesWith(config *cfg.Config) error {
	if xerr := config.ValidateBasic(); xerr != nil {
		return xerr
	}

	if err := tmos.EnsureDir(config.DBDir(), 0o700); err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Dir(config.ConfigFile()), 0o700); err != nil {
		return err
	}

	configFile := config.ConfigFile()
	if tmos.FileExists(configFile) {
		logger.Info("Found config file", "path", configFile)
	} else {
		if xerr := cfg.WriteConfigFile(configFile, config); xerr != nil {
			return xerr
		}
		logger.Info("Generated config file", "path", configFile)
	}

	poolAddr, _ := config.PoolAddress()
	fmt.Printf("pool address: %s\n", types.ChecksumAddress(poolAddr))
	return nil
}
