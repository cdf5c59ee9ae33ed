package commands

import (
	"fmt"

	"github.com/beatoz/beatoz-rwdpool/node"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/spf13/cobra"
)

func NewRewardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Query and claim rewards",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "claim <owner>",
			Short: "Claim all rewards accrued by the stakes of owner",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				return withApp(true, func(app *node.PoolApp) error {
					paid, xerr := app.Pool().ClaimReward(owner, now())
					if xerr != nil {
						return xerr
					}
					if paid.IsZero() {
						fmt.Println("nothing to claim")
						return nil
					}
					fmt.Printf("claimed %s\n", types.CoinsString(paid))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "claimable <owner>",
			Short: "Show the rewards claimable now",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				return withApp(false, func(app *node.PoolApp) error {
					amt, xerr := app.Pool().ClaimableReward(owner, now())
					if xerr != nil {
						return xerr
					}
					fmt.Println(types.CoinsString(amt))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "calc <owner> <id>",
			Short: "Show the reward projection of a stake",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				return withApp(false, func(app *node.PoolApp) error {
					proj, xerr := app.Pool().CalculateReward(owner, id, now())
					if xerr != nil {
						return xerr
					}
					return printJSON(proj)
				})
			},
		},
		&cobra.Command{
			Use:   "stats <owner>",
			Short: "Show the reward statistics of an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				return withApp(false, func(app *node.PoolApp) error {
					stats, xerr := app.Pool().RewardsStats(owner, now())
					if xerr != nil {
						return xerr
					}
					return printJSON(stats)
				})
			},
		},
		&cobra.Command{
			Use:   "balance",
			Short: "Show the unallocated reward balance of the pool",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(false, func(app *node.PoolApp) error {
					fmt.Println(types.CoinsString(app.Pool().RewardBalance()))
					return nil
				})
			},
		},
	)
	return cmd
}
