package commands

import (
	"fmt"

	"github.com/beatoz/beatoz-rwdpool/ctrlers/token"
	"github.com/beatoz/beatoz-rwdpool/node"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/spf13/cobra"
)

var tokenName string

// NewTokenCmd manages the local token ledgers.
// `mint` is an operator faucet for local networks.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the token ledgers",
	}
	cmd.PersistentFlags().StringVar(&tokenName, "token", "", "token ledger name (default: the reward token)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "mint <to> <amount>",
			Short: "Create tokens",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				to, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				amt, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return withApp(true, func(app *node.PoolApp) error {
					tok, err := selectToken(app)
					if err != nil {
						return err
					}
					if xerr := tok.Mint(to, amt); xerr != nil {
						return xerr
					}
					fmt.Printf("minted %s %s to %s\n", types.CoinsString(amt), tok.Name(), types.ChecksumAddress(to))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "balance <addr>",
			Short: "Show the balance of an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				addr, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				return withApp(false, func(app *node.PoolApp) error {
					tok, err := selectToken(app)
					if err != nil {
						return err
					}
					fmt.Printf("%s %s\n", types.CoinsString(tok.BalanceOf(addr)), tok.Name())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "approve <owner> <amount>",
			Short: "Allow the pool to spend tokens of owner",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				amt, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return withApp(true, func(app *node.PoolApp) error {
					tok, err := selectToken(app)
					if err != nil {
						return err
					}
					if xerr := tok.Approve(owner, app.Pool().PoolAddress(), amt); xerr != nil {
						return xerr
					}
					fmt.Printf("approved %s %s to the pool\n", types.CoinsString(amt), tok.Name())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "transfer <from> <to> <amount>",
			Short: "Transfer tokens",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				from, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				to, err := parseAddress(args[1])
				if err != nil {
					return err
				}
				amt, err := parseAmount(args[2])
				if err != nil {
					return err
				}
				return withApp(true, func(app *node.PoolApp) error {
					tok, err := selectToken(app)
					if err != nil {
						return err
					}
					if xerr := tok.Transfer(from, to, amt); xerr != nil {
						return xerr
					}
					fmt.Printf("transferred %s %s\n", types.CoinsString(amt), tok.Name())
					return nil
				})
			},
		},
	)
	return cmd
}

func selectToken(app *node.PoolApp) (*token.TokenCtrler, error) {
	if tokenName == "" {
		return app.RewardToken(), nil
	}
	tok, xerr := app.Token(tokenName)
	if xerr != nil {
		return nil, xerr
	}
	return tok, nil
}
