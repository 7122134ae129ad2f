package platform

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 平台侧的类型化失败。Transient 为真表示限流、超时、5xx 这类
// 可重试故障；为假表示鉴权失败、内容违规等重试无意义的永久失败。
type Error struct {
	Platform  string
	Op        string
	Reason    string
	Transient bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Platform, e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Platform, e.Op, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient 非 *Error 的未知错误按瞬时故障处理，交给重试预算兜底
func IsTransient(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return true
}

// classifyStatus 按 HTTP 状态码归类瞬时/永久
func classifyStatus(status int) bool {
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout {
		return true
	}
	return status >= 500
}
