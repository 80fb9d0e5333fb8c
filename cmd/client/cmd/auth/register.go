// cmd/client/cmd/auth/register.go
package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"monthledger/internal/domain/user"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрироваться на сервере MonthLedger",
	Long: `Регистрация новой учетной записи.

После успешной регистрации сессия открывается сразу, повторный вход
не требуется.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Регистрация ===")
		fmt.Println()

		fmt.Print("Имя пользователя: ")
		var login string
		_, _ = fmt.Scanln(&login)

		fmt.Print("Пароль: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		fmt.Print("Повторите пароль: ")
		secretConfirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		if string(secret) != string(secretConfirm) {
			return fmt.Errorf("пароли не совпадают")
		}

		id, err := app.Sessions.Register(cmd.Context(), login, string(secret))
		if err != nil {
			if errors.Is(err, user.ErrDuplicate) {
				return fmt.Errorf("имя уже занято: %v", err)
			}
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		fmt.Println()
		fmt.Printf("✅ Регистрация выполнена. Добро пожаловать, %s!\n", id.DisplayName)
		return nil
	},
}
