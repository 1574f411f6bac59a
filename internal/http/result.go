package httpapi

// Result is the envelope of every JSON response.
//   - code: 2000 on success
//   - type: "success" | "error" | "warning"
//   - message: string
//   - result: any
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultTokenExpired is sent with HTTP 401.
	ResultTokenExpired = 60401
	// ResultFeatureLocked means the active plan does not allow the operation.
	ResultFeatureLocked = 60403
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func Locked(message string) Result[any] {
	return Result[any]{Code: ResultFeatureLocked, Type: "warning", Message: message, Result: nil}
}

func TokenExpired(message string) Result[any] {
	return Result[any]{Code: ResultTokenExpired, Type: "error", Message: message, Result: nil}
}
