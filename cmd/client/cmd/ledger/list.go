// cmd/client/cmd/ledger/list.go
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"monthledger/internal/app/client/engine"
	ldomain "monthledger/internal/domain/ledger"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список записей",
	Long: `Просмотр всех записей пользователя.

При доступном сервере список загружается с него и замещает локальный
кэш. В офлайне показывается последний сохраненный снимок.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		records, err := app.Engine.DownloadAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения списка записей: %w", err)
		}

		if app.Engine.Status() == engine.StatusOffline {
			color.Yellow("⚠ Сервер недоступен, показан локальный снимок")
		}

		switch listFormat {
		case "json":
			return printRecordsJSON(records)
		default:
			return printRecordsTable(records)
		}
	},
}

func printRecordsTable(records []ldomain.Record) error {
	if len(records) == 0 {
		fmt.Println("Записи не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Период\tНазвание\tМетка\tОбновлено\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t\n")

	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			rec.RecordID,
			truncate(rec.DisplayName, 30),
			rec.ColorTag,
			rec.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	w.Flush()
	fmt.Printf("\nВсего записей: %d\n", len(records))
	return nil
}

func printRecordsJSON(records []ldomain.Record) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "формат вывода (table, json)")
}
