// ABOUTME: Uniform {success, data, message} envelope returned by every command
// ABOUTME: Store errors become success=false with the error text as message

package commands

// Response is the envelope every command returns. Data is nil for failures
// and for lookups that matched nothing.
type Response[T any] struct {
	Success bool    `json:"success"`
	Data    *T      `json:"data"`
	Message *string `json:"message"`
}

// OK wraps data in a successful response.
func OK[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: &data}
}

// Found is a successful lookup response; a nil data means no match.
func Found[T any](data *T) Response[T] {
	return Response[T]{Success: true, Data: data}
}

// Fail reports err as a failed response.
func Fail[T any](err error) Response[T] {
	msg := err.Error()
	return Response[T]{Success: false, Message: &msg}
}
