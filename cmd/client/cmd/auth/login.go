// cmd/client/cmd/auth/login.go
package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему MonthLedger",
	Long: `Аутентификация на сервере MonthLedger.

После входа учетные данные сессии сохраняются локально, и последующие
команды не требуют повторного ввода пароля. Сразу после входа
воспроизводятся операции, накопленные в офлайне.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Вход в систему ===")
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

		id, err := app.Sessions.Login(cmd.Context(), login, string(secret))
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		fmt.Printf("✅ Вход выполнен. Добро пожаловать, %s!\n", id.DisplayName)

		// Доставляем накопленное в офлайне
		pending, err := app.Engine.PendingCount()
		if err == nil && pending > 0 {
			fmt.Printf("Воспроизведение отложенных операций (%d)...\n", pending)
			out, err := app.Engine.SyncPending(cmd.Context())
			switch {
			case err != nil:
				fmt.Printf("⚠️  Синхронизация не завершена: %v\n", err)
			case out.Failed > 0:
				fmt.Printf("⚠️  Подтверждено %d, отвергнуто %d операций\n", out.Replayed, out.Failed)
			default:
				fmt.Printf("✓ Синхронизировано операций: %d\n", out.Replayed)
			}
		}

		return nil
	},
}
