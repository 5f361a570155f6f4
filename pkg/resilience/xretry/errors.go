package xretry

import "errors"

var (
	// ErrNilRetryer 表示在 nil *Retryer 上调用方法。
	ErrNilRetryer = errors.New("xretry: nil retryer")

	// ErrNilFunc 表示传入的执行函数为空。
	ErrNilFunc = errors.New("xretry: nil func")
)

// PermanentError 永久性错误，不应重试。
type PermanentError struct {
	Err error
}

// NewPermanentError 创建永久性错误。
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// RetryableError 自行声明是否可重试的错误。
type RetryableError interface {
	error
	Retryable() bool
}

// IsPermanent 检查错误链中是否存在 PermanentError，
// 或声明 Retryable() == false 的错误。
func IsPermanent(err error) bool {
	var pe *PermanentError
	if errors.As(err, &pe) {
		return true
	}
	var re RetryableError
	return errors.As(err, &re) && !re.Retryable()
}
