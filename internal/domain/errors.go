package domain

// BusinessError — единая бизнес-ошибка: переносит машинный код и
// человекочитаемое сообщение до HTTP-слоя, не раскрывая деталей проверки.
type BusinessError struct {
	Code    string
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// ErrorResponse — тело структурированного ответа об ошибке.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Сентинели сравниваются через errors.Is — все места, где возникает
// отказ одного рода, возвращают один и тот же экземпляр.
var (
	// ErrInvalidCredentials — неизвестный email ИЛИ неверный пароль.
	// Один код и текст для обоих случаев, чтобы нельзя было перебором
	// выяснить, какие адреса зарегистрированы.
	ErrInvalidCredentials = &BusinessError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
	}

	// ErrInvalidToken — подпись, алгоритм, срок или структура токена
	// не прошли проверку. Причина не детализируется.
	ErrInvalidToken = &BusinessError{
		Code:    "INVALID_TOKEN",
		Message: "invalid or expired session",
	}

	// ErrUnauthenticated — токен не предъявлен вовсе, а маршрут требует личность.
	ErrUnauthenticated = &BusinessError{
		Code:    "UNAUTHENTICATED",
		Message: "authentication required",
	}

	// ErrUserStoreUnavailable — инфраструктурный отказ хранилища пользователей.
	// Никогда не схлопывается в INVALID_CREDENTIALS.
	ErrUserStoreUnavailable = &BusinessError{
		Code:    "STORE_UNAVAILABLE",
		Message: "user store unavailable",
	}
)
