package xmetrics

import "errors"

// NewOTelObserver / NewOTelCounter 返回的错误。
var (
	// ErrCreateCounter 表示创建 OTel Counter 失败。
	ErrCreateCounter = errors.New("xmetrics: create counter failed")
	// ErrCreateHistogram 表示创建 OTel Histogram 失败。
	ErrCreateHistogram = errors.New("xmetrics: create histogram failed")
	// ErrEmptyMetricName 表示指标名称为空。
	ErrEmptyMetricName = errors.New("xmetrics: empty metric name")
)
