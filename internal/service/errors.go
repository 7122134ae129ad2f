package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrRecordNotFound      = errors.New("计划记录不存在")
	ErrPlatformUnknown     = errors.New("平台不存在")
	ErrDuplicateSlot       = errors.New("发布槽位已被占用")
	ErrInvalidTransition   = errors.New("状态迁移不合法")
	ErrIncompleteDirective = errors.New("内容要素不完整，无法提交")
	ErrNotPosted           = errors.New("帖子尚未发布，无法采集指标")
	ErrNicheConfigInvalid  = errors.New("领域配置不合法")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrRecordNotFound:      NotFound,
	ErrPlatformUnknown:     BadRequest,
	ErrDuplicateSlot:       Conflict,
	ErrInvalidTransition:   Conflict,
	ErrIncompleteDirective: BadRequest,
	ErrNotPosted:           BadRequest,
	ErrNicheConfigInvalid:  BadRequest,
	UnExpectedError:        InternalServerError,
}
