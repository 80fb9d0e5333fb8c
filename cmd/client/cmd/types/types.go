// Package types держит ключи контекста, разделяемые командами CLI.
package types

type ContextKey string

// ClientAppKey — собранное клиентское приложение в контексте команды
const ClientAppKey ContextKey = "client_app"
