package user

// User — учетная запись на стороне сервера
type User struct {
	ID           int    `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"-"`
}

// Identity — публичное представление владельца записей.
// Создается сервером при регистрации и неизменно до конца сессии.
type Identity struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
}
