package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 由 *SignalError 解包得到。
	ErrSignal = errors.New("xrun: received signal")
	// ErrNilFunc 服务缺少 Run 函数。
	ErrNilFunc = errors.New("xrun: nil service func")
)

// SignalError 记录触发退出的信号。
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("received signal %v", e.Signal)
}

func (e *SignalError) Unwrap() error { return ErrSignal }
