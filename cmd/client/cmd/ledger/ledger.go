// cmd/client/cmd/ledger/ledger.go
package ledger

import (
	"fmt"

	"github.com/spf13/cobra"

	"monthledger/cmd/client/cmd/types"
	"monthledger/internal/app/client"
)

var LedgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Работа с помесячными записями",
	Long: `Команды для создания, просмотра и удаления помесячных записей.

Все изменения применяются локально немедленно. Если сервер недоступен,
операция откладывается и доставляется при восстановлении связи.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}
