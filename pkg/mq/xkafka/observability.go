package xkafka

import "github.com/omeyang/xserial/pkg/observability/xmetrics"

const (
	componentName = "xkafka"

	attrDestination   = "messaging.destination.name"
	attrConsumerGroup = "messaging.consumer.group.name"
	attrType          = "type"

	countConsumed = "consumed"
	countAck      = "ack"
	countNack     = "nack"
)

func kafkaAttrs(topic string) []xmetrics.Attr {
	attrs := []xmetrics.Attr{xmetrics.String("messaging.system", "kafka")}
	if topic != "" {
		attrs = append(attrs, xmetrics.String(attrDestination, topic))
	}
	return attrs
}

// countAttrs 会话计数器属性：(topic, group, type)。
func countAttrs(topic, group, typ string) []xmetrics.Attr {
	return []xmetrics.Attr{
		xmetrics.String(attrDestination, topic),
		xmetrics.String(attrConsumerGroup, group),
		xmetrics.String(attrType, typ),
	}
}
