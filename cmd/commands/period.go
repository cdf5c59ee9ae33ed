package commands

import (
	"errors"
	"fmt"

	"github.com/beatoz/beatoz-rwdpool/libs"
	"github.com/beatoz/beatoz-rwdpool/node"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var skipConfirm bool

func NewPeriodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Manage reward periods",
	}

	create := &cobra.Command{
		Use:   "create <funder> <reward> <start> <end>",
		Short: "Fund a new reward period",
		Long: "Fund a new reward period with <reward> reward tokens of <funder>.\n" +
			"<start> and <end> are unix seconds or RFC3339 times.\n" +
			"The pool must be approved to spend <reward> of <funder>.",
		Args: cobra.ExactArgs(4),
		RunE: createPeriod,
	}
	create.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "list",
			Short: "List all reward periods",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(false, func(app *node.PoolApp) error {
					periods, xerr := app.Pool().Periods()
					if xerr != nil {
						return xerr
					}
					return printJSON(periods)
				})
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a reward period",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return withApp(false, func(app *node.PoolApp) error {
					p, xerr := app.Pool().Period(id)
					if xerr != nil {
						return xerr
					}
					return printJSON(p)
				})
			},
		},
		&cobra.Command{
			Use:   "current",
			Short: "Show the reward period in progress",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(false, func(app *node.PoolApp) error {
					id, ok := app.Pool().CurrentPeriodID(now())
					if !ok {
						fmt.Println("no reward period in progress")
						return nil
					}
					p, xerr := app.Pool().Period(id)
					if xerr != nil {
						return xerr
					}
					return printJSON(p)
				})
			},
		},
	)
	return cmd
}

func createPeriod(cmd *cobra.Command, args []string) error {
	funder, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	reward, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	start, err := parseTime(args[2])
	if err != nil {
		return err
	}
	end, err := parseTime(args[3])
	if err != nil {
		return err
	}

	if !skipConfirm {
		perDay := "0"
		if end > start {
			perDay = decimal.RequireFromString(types.CoinsString(reward)).
				Div(decimal.NewFromInt(end - start)).
				Mul(decimal.NewFromInt(24 * 60 * 60)).
				StringFixed(4)
		}
		prompt := fmt.Sprintf("Fund %s reward tokens over %d seconds (%s / day)?", types.CoinsString(reward), end-start, perDay)
		if !libs.Confirm(prompt) {
			return errors.New("not confirmed: use --yes to skip the confirmation")
		}
	}

	return withApp(true, func(app *node.PoolApp) error {
		id, xerr := app.Pool().CreatePeriod(funder, reward, start, end, now())
		if xerr != nil {
			return xerr
		}
		fmt.Printf("reward period %d is created\n", id)
		return nil
	})
}
