// cmd/client/cmd/ledger/save.go
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"monthledger/internal/domain/ledger"
)

var (
	saveName    string
	saveColor   string
	saveConfig  string
	saveGrouped string
	saveRaw     string
)

var SaveCmd = &cobra.Command{
	Use:   "save <record-id>",
	Short: "Создать или заменить запись",
	Long: `Создание или полная замена записи расчетного периода.

Запись адресуется идентификатором периода, например 2026-08. Повторное
сохранение с тем же идентификатором заменяет запись целиком.

Поля config, grouped и raw принимают JSON напрямую или из файла
через @путь.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		rec := &ledger.Record{
			RecordID:    args[0],
			DisplayName: saveName,
			ColorTag:    saveColor,
		}

		if rec.Config, err = jsonArg(saveConfig); err != nil {
			return fmt.Errorf("поле config: %w", err)
		}
		if rec.GroupedPayload, err = jsonArg(saveGrouped); err != nil {
			return fmt.Errorf("поле grouped: %w", err)
		}
		if rec.RawPayload, err = jsonArg(saveRaw); err != nil {
			return fmt.Errorf("поле raw: %w", err)
		}

		out, err := app.Engine.UploadRecord(cmd.Context(), rec)
		if err != nil {
			return fmt.Errorf("ошибка сохранения записи: %w", err)
		}

		if out.Deferred {
			fmt.Printf("✓ Запись %s сохранена локально; будет доставлена на сервер при появлении связи\n", rec.RecordID)
			return nil
		}

		fmt.Printf("✅ Запись %s сохранена\n", rec.RecordID)
		return nil
	},
}

// jsonArg разбирает значение флага: пусто, JSON как есть или @файл
func jsonArg(value string) (json.RawMessage, error) {
	if value == "" {
		return nil, nil
	}

	data := []byte(value)
	if strings.HasPrefix(value, "@") {
		var err error
		data, err = os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения файла: %w", err)
		}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("значение не является корректным JSON")
	}
	return json.RawMessage(data), nil
}

func init() {
	SaveCmd.Flags().StringVarP(&saveName, "name", "n", "", "отображаемое имя записи")
	SaveCmd.Flags().StringVar(&saveColor, "color", "", "цветовая метка")
	SaveCmd.Flags().StringVar(&saveConfig, "conf", "", "конфигурация периода (JSON или @файл)")
	SaveCmd.Flags().StringVar(&saveGrouped, "grouped", "", "сгруппированные данные (JSON или @файл)")
	SaveCmd.Flags().StringVar(&saveRaw, "raw", "", "исходные данные (JSON или @файл)")
	_ = SaveCmd.MarkFlagRequired("name")
}
