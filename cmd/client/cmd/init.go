// cmd/client/cmd/init.go
package cmd

import (
	"monthledger/cmd/client/cmd/auth"
	"monthledger/cmd/client/cmd/ledger"
	"monthledger/cmd/client/cmd/sync"
)

func init() {
	// Команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)

	// Команды работы с записями
	rootCmd.AddCommand(ledger.LedgerCmd)
	ledger.LedgerCmd.AddCommand(ledger.SaveCmd)
	ledger.LedgerCmd.AddCommand(ledger.ListCmd)
	ledger.LedgerCmd.AddCommand(ledger.DeleteCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
