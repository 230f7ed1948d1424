package domain

// Identity данные пользователя от внешнего провайдера идентификации
type Identity struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}
