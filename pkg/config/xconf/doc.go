// Package xconf 用 koanf 读取 YAML/JSON 配置文件。
//
// 调用方先把默认值填进目标结构体，再解码；文件中没有出现的字段保持原值：
//
//	settings := defaultSettings()
//	if _, err := xconf.Load("xserial.yaml", &settings); err != nil {
//		return err
//	}
//
// [Document.Reload] 串行执行，解析失败时保留上一份内容。
package xconf
