package line

import (
	"bytes"
	"regexp"
)

// Multi 多行处理, 如: 异常堆栈
// 以 StartPattern 匹配的行作为逻辑行开头, 直到下一次匹配前的行都归属该逻辑行
type Multi struct {
	re   *regexp.Regexp
	line []byte
	buf  bytes.Buffer
}

func NewMulti() *Multi {
	return &Multi{}
}

// StartPattern 行开始的正则表达式
func (m *Multi) StartPattern(expr string) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		return err
	}
	m.re = re
	return nil
}

// Append 说明:
// 1. 匹配到开始行时, 之前缓存的内容成为一个完整逻辑行
// 2. 未设置 StartPattern 时退化为单行
func (m *Multi) Append(data []byte) bool {
	if m.re == nil {
		m.line = append([]byte(nil), data...)
		return true
	}

	if m.re.Match(data) && m.buf.Len() > 0 {
		m.line = append([]byte(nil), m.buf.Bytes()...)
		m.buf.Reset()
	}
	if m.buf.Len() > 0 {
		m.buf.WriteByte('\n')
	}
	m.buf.Write(data)
	return len(m.line) > 0
}

func (m *Multi) Line() []byte {
	tmp := m.line
	m.line = nil
	return tmp
}

func (m *Multi) Flush() []byte {
	if m.buf.Len() == 0 {
		return nil
	}
	defer m.buf.Reset()
	return append([]byte(nil), m.buf.Bytes()...)
}
