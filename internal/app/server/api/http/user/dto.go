package user

import "monthledger/internal/domain/user"

type CredentialsRequest struct {
	Login  string `json:"login" doc:"Имя пользователя"`
	Secret string `json:"secret" doc:"Пароль"`
}

type registerInput struct {
	Body CredentialsRequest
}

type registerOutput struct {
	Body AuthResponse
}

type loginInput struct {
	Body CredentialsRequest
}

type loginOutput struct {
	Body AuthResponse
}

// AuthResponse — ответ register/login: токен сессии и владелец
type AuthResponse struct {
	Credential string        `json:"credential"`
	Identity   user.Identity `json:"identity"`
}

type sessionOutput struct {
	Body SessionResponse
}

type SessionResponse struct {
	Identity user.Identity `json:"identity"`
}
