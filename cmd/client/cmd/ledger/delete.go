// cmd/client/cmd/ledger/delete.go
package ledger

import (
	"fmt"

	"github.com/spf13/cobra"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Удалить запись",
	Long: `Удаление записи расчетного периода. Удаление отсутствующей
записи — успех: целевое состояние уже достигнуто.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		out, err := app.Engine.DeleteRecord(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка удаления записи: %w", err)
		}

		if out.Deferred {
			fmt.Printf("✓ Запись %s удалена локально; удаление на сервере отложено\n", args[0])
			return nil
		}

		fmt.Printf("✅ Запись %s удалена\n", args[0])
		return nil
	},
}
