package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Autentica no backend e salva a sessão",
	Long: `Autentica com email e senha e salva o token no arquivo de sessão.

A senha pode ser informada por --password ou pela variável DASHBOARD_PASSWORD.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Encerra a sessão salva",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.close()

		d.client.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Mostra o usuário da sessão atual",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email do usuário")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Senha do usuário")
	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("DASHBOARD_PASSWORD")
	}
	if password == "" {
		return errors.New("senha não informada")
	}

	d, err := loadDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	resp, err := d.client.Login(cmd.Context(), domain.LoginRequest{Email: loginEmail, Password: password})
	if err != nil {
		return fmt.Errorf("login falhou: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Autenticado como %s (%s)\n", resp.User.Email, resp.User.Role)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	d, err := loadDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	if !d.session.Authenticated(time.Now()) {
		return errors.New("nenhuma sessão ativa, execute dashctl login")
	}

	user, err := d.client.Me(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", user.Name, user.Email, user.Role)
	return nil
}
