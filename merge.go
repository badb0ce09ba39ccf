package logmerge

import (
	"errors"
	"io"

	plg "gitee.com/xuesongtao/log-merge/log"
)

// sourceState 单个源的状态
type sourceState int8

const (
	needsPoll sourceState = iota // 下一次 Poll 需要读该源
	delivered                    // 本轮已交付一行, 该行被取走前不再读
	finished                     // 已结束, 永远不再读
)

func (s sourceState) String() string {
	switch s {
	case needsPoll:
		return "needs_poll"
	case delivered:
		return "delivered"
	case finished:
		return "finished"
	}
	return "unknown"
}

// roundState 由计数推导出的当前轮次状态
type roundState int8

const (
	roundAwaiting roundState = iota // 还有未结束的源本轮没有交付
	roundComplete                   // 每个未结束的源都交付了一行
	roundFinished                   // 所有源都已结束
)

var (
	_ Source = (*Merge)(nil)
	_ Namer  = (*Merge)(nil)
)

// Opt
type Opt func(*Merge)

// WithName merge 的名称, 嵌套 merge 时作为源名称
func WithName(name string) Opt {
	return func(m *Merge) {
		m.name = name
	}
}

// WithMetrics 上报 prometheus 指标
func WithMetrics(metrics *Metrics) Opt {
	return func(m *Merge) {
		m.metrics = metrics
	}
}

// Merge 按轮询(round-robin)合并多个日志源
// 每一轮中每个未结束的源最多输出一行, 所有未结束的源都交付后才按源顺序依次输出
// 注: Merge 不是并发安全的, 只能由一个 goroutine 驱动
type Merge struct {
	name     string
	sources  []Source
	states   []sourceState
	stats    []*SourceStat
	finished int // 已结束的源个数
	pending  *lineQueue
	emitted  int64
	err      error // 失败后每次都返回该错误
	metrics  *Metrics
}

// NewMerge sources 的顺序即为轮询优先级, 创建后不能增减源
// 说明: sources 中为 nil 的源视为已结束
func NewMerge(sources []Source, opts ...Opt) *Merge {
	obj := &Merge{
		name:    "merge",
		sources: sources,
		states:  make([]sourceState, len(sources)),
		stats:   make([]*SourceStat, len(sources)),
		pending: newLineQueue(len(sources)),
	}

	for _, o := range opts {
		o(obj)
	}

	for i, src := range sources {
		obj.stats[i] = &SourceStat{Idx: i, Name: sourceName(src, i)}
		if src == nil {
			obj.states[i] = finished
			obj.finished++
		}
	}
	obj.metrics.setFinished(obj.name, obj.finished)
	return obj
}

// Name 实现 Namer
func (m *Merge) Name() string {
	return m.name
}

// Poll 实现 Source, 所以 Merge 可以作为其他 Merge 的源
func (m *Merge) Poll() (string, error) {
	l, err := m.PollLine()
	if err != nil {
		return "", err
	}
	return l.Text, nil
}

// PollLine 推进一步:
//	1. 按下标顺序对每个 needsPoll 的源调用一次 Poll
//	2. 全部结束返回 io.EOF; 本轮齐了输出队首的行; 否则返回 ErrNotReady
// 任何源失败立即返回 *SourceError, 之后不再读任何源
func (m *Merge) PollLine() (Line, error) {
	if m.err != nil {
		return Line{}, m.err
	}

	for i, state := range m.states {
		if state != needsPoll {
			continue
		}
		if err := m.pollSource(i); err != nil {
			m.err = err
			return Line{}, err
		}
	}
	defer func() { m.metrics.setPending(m.name, m.pending.Len()) }()

	switch m.round() {
	case roundFinished:
		return Line{}, io.EOF
	case roundComplete:
		l, _ := m.pending.pop()
		m.states[l.Idx] = needsPoll
		m.stats[l.Idx].Emitted++
		m.emitted++
		m.metrics.emit(m.name, l.Source)
		return l, nil
	default:
		return Line{}, ErrNotReady
	}
}

func (m *Merge) pollSource(idx int) error {
	stat := m.stats[idx]
	stat.Polls++
	text, err := m.sources[idx].Poll()
	switch {
	case err == nil:
		m.pending.push(Line{Idx: idx, Source: stat.Name, Text: text})
		m.states[idx] = delivered
		stat.Lines++
		m.metrics.poll(m.name, stat.Name, resultLine)
	case errors.Is(err, ErrNotReady):
		stat.NotReady++
		m.metrics.poll(m.name, stat.Name, resultNotReady)
	case errors.Is(err, io.EOF):
		m.states[idx] = finished
		m.finished++
		m.metrics.poll(m.name, stat.Name, resultEOF)
		m.metrics.setFinished(m.name, m.finished)
		plg.Infof("%s: source[%d] %q finished, lines: %d, finished: %d/%d", m.name, idx, stat.Name, stat.Lines, m.finished, len(m.sources))
	default:
		m.metrics.poll(m.name, stat.Name, resultError)
		m.metrics.fail(m.name, stat.Name)
		plg.Errorf("%s: source[%d] %q poll is failed, err: %v", m.name, idx, stat.Name, err)
		return &SourceError{Idx: idx, Source: stat.Name, Err: err}
	}
	return nil
}

func (m *Merge) round() roundState {
	unfinished := m.Unfinished()
	if unfinished == 0 {
		return roundFinished
	}
	if unfinished == m.pending.Len() {
		return roundComplete
	}
	return roundAwaiting
}

// Unfinished 未结束的源个数
func (m *Merge) Unfinished() int {
	return len(m.sources) - m.finished
}

// Pending 已读取但未输出的行数
func (m *Merge) Pending() int {
	return m.pending.Len()
}

// Err 失败后返回导致失败的 *SourceError
func (m *Merge) Err() error {
	return m.err
}
