package commands

import (
	"fmt"

	"github.com/beatoz/beatoz-rwdpool/node"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

var showAllStakes bool

func NewStakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Manage stakes",
	}

	list := &cobra.Command{
		Use:   "list <owner>",
		Short: "List the stakes of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withApp(false, func(app *node.PoolApp) error {
				if showAllStakes {
					stakes, xerr := app.Pool().AllStakesOf(owner)
					if xerr != nil {
						return xerr
					}
					return printJSON(stakes)
				}
				stakes, xerr := app.Pool().OpenStakesOf(owner)
				if xerr != nil {
					return xerr
				}
				return printJSON(stakes)
			})
		},
	}
	list.Flags().BoolVarP(&showAllStakes, "all", "a", false, "include closed stakes")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "open <owner> <amount>",
			Short: "Transfer stake tokens to the pool and open a stake",
			Args:  cobra.ExactArgs(2),
			RunE: amountCmd(func(app *node.PoolApp, owner types.Address, amt *uint256.Int) error {
				id, xerr := app.Pool().OpenStake(owner, amt, now())
				if xerr != nil {
					return xerr
				}
				fmt.Printf("stake %d is opened\n", id)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "close <owner> <id>",
			Short: "Close a stake and return the stake tokens",
			Args:  cobra.ExactArgs(2),
			RunE: idCmd(func(app *node.PoolApp, owner types.Address, id uint64) error {
				if xerr := app.Pool().CloseStake(owner, id, now()); xerr != nil {
					return xerr
				}
				fmt.Printf("stake %d is closed\n", id)
				return nil
			}),
		},
		list,
		&cobra.Command{
			Use:   "deposit <owner> <amount>",
			Short: "Deposit stake tokens into the pool wallet",
			Args:  cobra.ExactArgs(2),
			RunE: amountCmd(func(app *node.PoolApp, owner types.Address, amt *uint256.Int) error {
				if xerr := app.Pool().Deposit(owner, amt); xerr != nil {
					return xerr
				}
				fmt.Printf("deposited %s\n", types.CoinsString(amt))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "withdraw <owner> <amount>",
			Short: "Withdraw free stake tokens from the pool wallet",
			Args:  cobra.ExactArgs(2),
			RunE: amountCmd(func(app *node.PoolApp, owner types.Address, amt *uint256.Int) error {
				if xerr := app.Pool().Withdraw(owner, amt); xerr != nil {
					return xerr
				}
				fmt.Printf("withdrew %s\n", types.CoinsString(amt))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "start <owner> <amount>",
			Short: "Open a stake from the pool wallet",
			Args:  cobra.ExactArgs(2),
			RunE: amountCmd(func(app *node.PoolApp, owner types.Address, amt *uint256.Int) error {
				id, xerr := app.Pool().StartStake(owner, amt, now())
				if xerr != nil {
					return xerr
				}
				fmt.Printf("stake %d is opened\n", id)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "end <owner> <id>",
			Short: "Close a stake into the pool wallet",
			Args:  cobra.ExactArgs(2),
			RunE: idCmd(func(app *node.PoolApp, owner types.Address, id uint64) error {
				if xerr := app.Pool().EndStake(owner, id, now()); xerr != nil {
					return xerr
				}
				fmt.Printf("stake %d is closed\n", id)
				return nil
			}),
		},
	)
	return cmd
}

func amountCmd(fn func(*node.PoolApp, types.Address, *uint256.Int) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		owner, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		amt, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withApp(true, func(app *node.PoolApp) error {
			return fn(app, owner, amt)
		})
	}
}

func idCmd(fn func(*node.PoolApp, types.Address, uint64) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		owner, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return withApp(true, func(app *node.PoolApp) error {
			return fn(app, owner, id)
		})
	}
}
