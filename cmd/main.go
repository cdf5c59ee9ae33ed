package main

import (
	"path/filepath"

	"github.com/beatoz/beatoz-rwdpool/cmd/commands"
	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	"github.com/beatoz/beatoz-rwdpool/libs"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.NewRunNodeCmd(),
		commands.NewTokenCmd(),
		commands.NewPeriodCmd(),
		commands.NewStakeCmd(),
		commands.NewRewardCmd(),
		commands.VersionCmd,
	)

	executor := cli.PrepareBaseCmd(commands.RootCmd, "RWDPOOL", filepath.Join(libs.GetHome(), cfg.DefaultDirName))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
