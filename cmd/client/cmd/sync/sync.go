// cmd/client/cmd/sync/sync.go
package sync

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"monthledger/cmd/client/cmd/types"
	"monthledger/internal/app/client"
	"monthledger/internal/app/client/engine"
)

var syncStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером",
	Long: `Воспроизведение отложенных операций на сервере в порядке их
постановки. Журнал очищается только если сервер подтвердил каждую
операцию; иначе он целиком остается до следующего прогона.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if syncStatus {
			return showStatus(app)
		}

		return runSync(cmd, app)
	},
}

func runSync(cmd *cobra.Command, app *client.App) error {
	if !app.Sessions.IsAuthenticated() {
		return fmt.Errorf("требуется аутентификация. Выполните: monthledger auth login")
	}

	pending, err := app.Engine.PendingCount()
	if err != nil {
		return fmt.Errorf("ошибка чтения журнала: %w", err)
	}

	if app.Engine.Status() == engine.StatusOffline {
		color.Yellow("⚠ Сервер недоступен; отложенных операций: %d", pending)
		return nil
	}

	if pending == 0 {
		fmt.Println("Отложенных операций нет")
		return nil
	}

	fmt.Printf("Воспроизведение отложенных операций (%d)...\n", pending)

	out, err := app.Engine.SyncPending(cmd.Context())
	switch {
	case err != nil:
		return fmt.Errorf("ошибка синхронизации: %w", err)
	case out.Failed > 0:
		color.Red("⚠ Подтверждено %d, отвергнуто %d операций; журнал сохранен", out.Replayed, out.Failed)
		return nil
	default:
		color.Green("✅ Синхронизировано операций: %d", out.Replayed)
		return nil
	}
}

func showStatus(app *client.App) error {
	fmt.Println("=== Статус синхронизации ===")

	pending, err := app.Engine.PendingCount()
	if err != nil {
		return fmt.Errorf("ошибка чтения журнала: %w", err)
	}

	status := app.Engine.Status()
	label := color.GreenString("%s", status)
	switch status {
	case engine.StatusOffline:
		label = color.YellowString("%s", status)
	case engine.StatusError:
		label = color.RedString("%s", status)
	case engine.StatusSyncing:
		label = color.CyanString("%s", status)
	}

	fmt.Printf("Состояние: %s\n", label)
	fmt.Printf("Отложенных операций: %d\n", pending)

	if id, ok := app.Sessions.Identity(); ok {
		fmt.Printf("Пользователь: %s (id %d)\n", id.DisplayName, id.ID)
	} else {
		fmt.Println("Пользователь: не аутентифицирован")
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус без синхронизации")
}
