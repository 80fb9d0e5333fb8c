// cmd/client/cmd/auth/logout.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long: `Завершение сессии. Сохраненные учетные данные, локальный кэш
и журнал отложенных операций стираются: на общем устройстве после
выхода не остается чужих данных.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if !app.Sessions.IsAuthenticated() {
			fmt.Println("Активной сессии нет")
			return nil
		}

		if err := app.Sessions.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}

		fmt.Println("✅ Выход выполнен, локальные данные очищены")
		return nil
	},
}
