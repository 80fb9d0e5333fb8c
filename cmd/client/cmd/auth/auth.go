// cmd/client/cmd/auth/auth.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"monthledger/cmd/client/cmd/types"
	"monthledger/internal/app/client"
)

var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление учетной записью",
	Long: `Команды аутентификации: регистрация, вход, выход и информация
о текущей сессии.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}
