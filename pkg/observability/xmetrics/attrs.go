package xmetrics

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Attr 观测属性。
type Attr struct {
	Key   string
	Value any
}

func String(key, value string) Attr { return Attr{Key: key, Value: value} }

func Int(key string, value int) Attr { return Attr{Key: key, Value: value} }

func Int64(key string, value int64) Attr { return Attr{Key: key, Value: value} }

func Bool(key string, value bool) Attr { return Attr{Key: key, Value: value} }

// otelAttrs 转换为 OTel 属性，跳过空 key 与 nil 值；
// 未识别的类型按 fmt.Sprint 记为字符串。
func otelAttrs(attrs []Attr) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == "" || a.Value == nil {
			continue
		}
		k := attribute.Key(a.Key)
		switch v := a.Value.(type) {
		case string:
			out = append(out, k.String(v))
		case int:
			out = append(out, k.Int(v))
		case int64:
			out = append(out, k.Int64(v))
		case bool:
			out = append(out, k.Bool(v))
		case float64:
			out = append(out, k.Float64(v))
		default:
			out = append(out, k.String(fmt.Sprint(v)))
		}
	}
	return out
}
