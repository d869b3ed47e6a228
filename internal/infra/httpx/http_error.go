package httpx

import (
	"errors"
	"fmt"
)

// HTTPStatusError 表示站点返回了非预期的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d url=%s", e.StatusCode, e.URL)
}

// StatusCode 从 error 中提取 HTTP 状态码；若不是 *HTTPStatusError（例如传输层错误）则返回 0。
func StatusCode(err error) int {
	var e *HTTPStatusError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
