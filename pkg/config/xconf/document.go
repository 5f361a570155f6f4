package xconf

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Document 一份已解析的配置。
type Document struct {
	path   string
	format Format
	opts   options

	mu   sync.Mutex
	tree atomic.Pointer[koanf.Koanf]
}

// Open 读取并解析 path。
func Open(path string, opts ...Option) (*Document, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	d := newDocument(path, format, opts)
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Parse 从内存数据构造 Document，空数据得到空文档。这样的文档不能 Reload。
func Parse(data []byte, format Format, opts ...Option) (*Document, error) {
	d := newDocument("", format, opts)
	tree, err := d.parse(data)
	if err != nil {
		return nil, err
	}
	d.tree.Store(tree)
	return d, nil
}

// Load 打开 path 并整体解码到 target。
func Load(path string, target any, opts ...Option) (*Document, error) {
	d, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Decode("", target); err != nil {
		return nil, err
	}
	return d, nil
}

func newDocument(path string, format Format, opts []Option) *Document {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Document{path: path, format: format, opts: o}
}

// Decode 把 key 下的子树解码到 target，key 为空时解码整份文档。
func (d *Document) Decode(key string, target any) error {
	if target == nil {
		return ErrNilTarget
	}
	err := d.tree.Load().UnmarshalWithConf(key, target, koanf.UnmarshalConf{Tag: d.opts.tag})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// Reload 重新读取源文件，成功后原子替换内容。
func (d *Document) Reload() error {
	if d.path == "" {
		return ErrNoSource
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	tree, err := d.parse(data)
	if err != nil {
		return err
	}
	d.tree.Store(tree)
	return nil
}

// Koanf 返回当前内容的快照，之后的 Reload 不影响它。
func (d *Document) Koanf() *koanf.Koanf { return d.tree.Load() }

// Path 源文件路径，Parse 得到的文档为空。
func (d *Document) Path() string { return d.path }

// Format 文档格式。
func (d *Document) Format() Format { return d.format }

func (d *Document) parse(data []byte) (*koanf.Koanf, error) {
	parser, err := d.format.parser()
	if err != nil {
		return nil, err
	}
	tree := koanf.New(d.opts.delim)
	if len(data) == 0 {
		return tree, nil
	}
	if err := tree.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return tree, nil
}
