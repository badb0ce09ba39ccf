package logmerge

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"gitee.com/xuesongtao/log-merge/line"
	plg "gitee.com/xuesongtao/log-merge/log"
)

// FileOpt
type FileOpt func(*FileSource)

// WithTail 是否实时监听, 说明: true 读到文件末尾返回 ErrNotReady, 直到 Close; false 读到末尾即结束
func WithTail(is bool) FileOpt {
	return func(f *FileSource) {
		f.tail = is
	}
}

// WithMergeRule 行合并规则, 默认单行
func WithMergeRule(rule line.Merger) FileOpt {
	return func(f *FileSource) {
		f.mergeRule = rule
	}
}

// WithOffset 从指定偏移量开始读, 常用于恢复上次读取的位置
func WithOffset(offset int64) FileOpt {
	return func(f *FileSource) {
		f.offset = offset
	}
}

// WithSourceName 源名称, 默认为文件路径
func WithSourceName(name string) FileOpt {
	return func(f *FileSource) {
		f.name = name
	}
}

// FileSource 按行读取文件的源
// 注: 空行会被跳过
type FileSource struct {
	path      string
	name      string
	tail      bool
	offset    int64 // 已读取的偏移量
	mergeRule line.Merger
	partial   []byte   // 文件末尾还没有换行的内容
	lines     []string // 已成行待交付
	closed    int32
	done      bool
}

func NewFileSource(path string, opts ...FileOpt) (*FileSource, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("os.Stat %q is failed, err: %w", path, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("path must log path, %q is dir", path)
	}

	path = filepath.Clean(path)
	obj := &FileSource{path: path, name: path}
	for _, o := range opts {
		o(obj)
	}

	if obj.mergeRule == nil {
		obj.mergeRule = line.NewSingle()
	}
	return obj, nil
}

func (f *FileSource) Name() string {
	return f.name
}

func (f *FileSource) Path() string {
	return f.path
}

// Offset 已读取的偏移量, 包含末尾未成行的部分
func (f *FileSource) Offset() int64 {
	return f.offset
}

// Close 结束 tail, 之后读完剩余内容返回 io.EOF, 可以在其他 goroutine 中调用
func (f *FileSource) Close() error {
	atomic.StoreInt32(&f.closed, 1)
	return nil
}

func (f *FileSource) Poll() (string, error) {
	if l, ok := f.next(); ok {
		return l, nil
	}
	if f.done {
		return "", io.EOF
	}

	// 先取关闭标记, 保证 Close 之前写入的内容都能读到
	closing := atomic.LoadInt32(&f.closed) == 1
	if err := f.read(); err != nil {
		return "", err
	}
	if l, ok := f.next(); ok {
		return l, nil
	}
	if f.tail && !closing {
		return "", ErrNotReady
	}

	f.flush()
	f.done = true
	if l, ok := f.next(); ok {
		return l, nil
	}
	return "", io.EOF
}

func (f *FileSource) next() (string, bool) {
	if len(f.lines) == 0 {
		return "", false
	}
	l := f.lines[0]
	f.lines = f.lines[1:]
	if len(f.lines) == 0 {
		f.lines = nil
	}
	return l, true
}

// read 读取 offset 之后新增的内容
func (f *FileSource) read() error {
	fh, err := filePool.Get(f.path, os.O_RDONLY)
	if err != nil {
		return fmt.Errorf("filePool.Get %q is failed, err: %w", f.path, err)
	}
	defer filePool.Put(fh)

	st, err := fh.GetFile().Stat()
	if err != nil {
		return fmt.Errorf("f.Stat %q is failed, err: %w", f.path, err)
	}

	size := st.Size()
	if size < f.offset {
		plg.Warningf("%q is truncated, offset: %d, size: %d, read from start", f.path, f.offset, size)
		f.offset = 0
		f.partial = nil
	}
	if size == f.offset {
		return nil
	}

	rows := bufio.NewReader(io.NewSectionReader(fh.GetFile(), f.offset, size-f.offset))
	for {
		data, err := rows.ReadBytes('\n')
		f.offset += int64(len(data))
		if err == io.EOF {
			f.partial = append(f.partial, data...)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %q is failed, err: %w", f.path, err)
		}
		if len(f.partial) > 0 {
			data = append(f.partial, data...)
			f.partial = nil
		}
		f.appendRow(data)
	}
}

// flush 源结束时把未换行的内容和合并规则里的剩余内容都交付
func (f *FileSource) flush() {
	if len(f.partial) > 0 {
		f.appendRow(f.partial)
		f.partial = nil
	}
	if rest := f.mergeRule.Flush(); len(rest) > 0 {
		f.lines = append(f.lines, string(rest))
	}
}

func (f *FileSource) appendRow(data []byte) {
	data = bytes.TrimSuffix(data, []byte{'\n'})
	data = bytes.TrimSuffix(data, []byte{'\r'})
	if len(data) == 0 {
		return
	}
	if f.mergeRule.Append(data) {
		f.lines = append(f.lines, string(f.mergeRule.Line()))
	}
}
