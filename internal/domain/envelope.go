package domain

// APIResponse is the success envelope wrapping every resource payload.
type APIResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}
