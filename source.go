package logmerge

import (
	"io"
)

// Source 日志源, Poll 不能阻塞
// 返回值说明:
//	1. line, nil: 读到一行
//	2. "", io.EOF: 源已结束, 之后不会再有数据
//	3. "", ErrNotReady: 暂时没有数据
//	4. "", 其他 err: 源失败
type Source interface {
	Poll() (string, error)
}

// Namer 源可选实现, 用于统计, 日志和指标
type Namer interface {
	Name() string
}

var (
	_ Source = (*SliceSource)(nil)
	_ Source = (*ChanSource)(nil)
	_ Source = (*FileSource)(nil)
	_ Source = (*Filter)(nil)
)

// SourceFunc 将普通函数适配为 Source
type SourceFunc func() (string, error)

func (f SourceFunc) Poll() (string, error) {
	return f()
}

// SliceSource 内存中的行, 一直处于就绪状态, 常用于测试
type SliceSource struct {
	name  string
	lines []string
	pos   int
}

func NewSliceSource(name string, lines ...string) *SliceSource {
	return &SliceSource{name: name, lines: lines}
}

func (s *SliceSource) Name() string {
	return s.name
}

func (s *SliceSource) Poll() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	l := s.lines[s.pos]
	s.pos++
	return l, nil
}

// ChanSource 通过 chan 接入的源, 生产者可以是任意 goroutine
// lines 关闭表示结束, errs 收到错误表示失败, errs 可以为 nil
type ChanSource struct {
	name  string
	lines <-chan string
	errs  <-chan error
}

func NewChanSource(name string, lines <-chan string, errs <-chan error) *ChanSource {
	return &ChanSource{name: name, lines: lines, errs: errs}
}

func (c *ChanSource) Name() string {
	return c.name
}

// Poll 非阻塞读, 错误优先
func (c *ChanSource) Poll() (string, error) {
	select {
	case err := <-c.errs:
		if err != nil {
			return "", err
		}
	default:
	}

	select {
	case l, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return l, nil
	default:
		return "", ErrNotReady
	}
}
