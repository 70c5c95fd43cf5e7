package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Gerencia as contas conectadas",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista as contas conhecidas",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.close()

		accounts, err := d.registry.List(cmd.Context())
		if err != nil {
			return err
		}

		printAccounts(cmd.OutOrStdout(), accounts)
		return nil
	},
}

var accountsDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Busca no backend as contas conectadas e atualiza a lista",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.close()

		result, err := d.registry.Discover(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Warning != nil {
			fmt.Fprintln(out, "Aviso:", result.Warning.Message)
		} else {
			fmt.Fprintf(out, "%d contas descobertas\n", result.Discovered)
		}

		printAccounts(out, result.Accounts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd, accountsDiscoverCmd)
}

func printAccounts(out io.Writer, accounts []domain.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(out, "Nenhuma conta cadastrada")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tFACEBOOK\tINSTAGRAM\tANÚNCIOS\tORIGEM")
	for _, acc := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			acc.ID, acc.Label, dash(acc.FacebookPageID), dash(acc.InstagramUserID), dash(acc.PrimaryAdAccountID()), acc.Source)
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
