package models

// LoginRequest — тело запроса POST /api/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse возвращается при верном пароле.
type LoginResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse — JSON-тело любого неуспешного ответа API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CountResponse — тело ответа GET /api/news/count.
type CountResponse struct {
	Count int `json:"count"`
}
