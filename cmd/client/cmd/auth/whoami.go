// cmd/client/cmd/auth/whoami.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		id, ok := app.Sessions.Identity()
		if !ok {
			fmt.Println("Вы не вошли в систему. Выполните: monthledger auth login")
			return nil
		}

		fmt.Printf("Пользователь: %s (id %d)\n", id.DisplayName, id.ID)
		return nil
	},
}
