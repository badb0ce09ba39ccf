package logmerge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"
	"time"

	plg "gitee.com/xuesongtao/log-merge/log"
	"gitee.com/xuesongtao/taskpool"
)

// PumpOpt
type PumpOpt func(*Pump)

// WithInterval 源未就绪且没有唤醒信号时的重试间隔
func WithInterval(d time.Duration) PumpOpt {
	return func(p *Pump) {
		p.interval = d
	}
}

// WithWake 唤醒信号, 一般为 Watch.Wake()
func WithWake(wake <-chan struct{}) PumpOpt {
	return func(p *Pump) {
		p.wake = wake
	}
}

// WithAsync 通过协程池异步交给 Tos, 说明: 异步时不保证同一个 LineWriter 收到的顺序
func WithAsync() PumpOpt {
	return func(p *Pump) {
		p.async = true
	}
}

// linePoller Merge 实现了, 可以拿到行来自哪个源
type linePoller interface {
	PollLine() (Line, error)
}

// Pump 驱动源(一般为 Merge)并把每一行交给 Handler
type Pump struct {
	src      Source
	name     string
	handler  *Handler
	interval time.Duration
	wake     <-chan struct{}
	async    bool
	taskPool *taskpool.TaskPool
	written  int64
}

// NewPump 注: 结束时需要调用 Close
func NewPump(src Source, handler *Handler, opts ...PumpOpt) (*Pump, error) {
	if src == nil {
		return nil, errors.New("src is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if err := handler.Valid(); err != nil {
		return nil, fmt.Errorf("handler.Valid is failed, err: %w", err)
	}

	obj := &Pump{
		src:      src,
		name:     sourceName(src, 0),
		handler:  handler,
		interval: defaultPumpInterval * time.Millisecond,
	}
	for _, o := range opts {
		o(obj)
	}

	if obj.interval <= 0 {
		obj.interval = defaultPumpInterval * time.Millisecond
	}
	if obj.async {
		obj.taskPool = taskpool.NewTaskPool("log merge", len(handler.Tos), taskpool.WithProGoWorker())
	}
	return obj, nil
}

// Run 阻塞直到源结束(返回 nil), 源失败(返回该错误)或 ctx 结束(返回 ctx.Err())
func (p *Pump) Run(ctx context.Context) error {
	plg.Infof("pump %q start, interval: %s, async: %t", p.name, p.interval, p.async)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		l, err := p.poll()
		switch {
		case err == nil:
			p.write(l)
			continue
		case errors.Is(err, ErrNotReady):
		case errors.Is(err, io.EOF):
			plg.Infof("pump %q finished, written: %d", p.name, p.Written())
			return nil
		default:
			plg.Errorf("pump %q is failed, err: %v", p.name, err)
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.wake:
		case <-ticker.C:
		}
	}
}

// Written 已交给 Handler 的行数
func (p *Pump) Written() int64 {
	return atomic.LoadInt64(&p.written)
}

func (p *Pump) Close() {
	if p.taskPool != nil {
		p.taskPool.Close()
	}
}

func (p *Pump) poll() (Line, error) {
	if lp, ok := p.src.(linePoller); ok {
		return lp.PollLine()
	}
	text, err := p.src.Poll()
	if err != nil {
		return Line{}, err
	}
	return Line{Idx: -1, Source: p.name, Text: text}, nil
}

func (p *Pump) write(l Line) {
	atomic.AddInt64(&p.written, 1)
	for _, to := range p.handler.Tos {
		bus := &LineBus{Idx: l.Idx, Source: l.Source, Msg: l.Text, Ext: p.handler.Ext}
		if !p.async {
			to.WriteTo(bus)
			continue
		}

		to := to
		p.taskPool.Submit(func() {
			defer func() {
				if err := recover(); err != nil {
					plg.Error("recover err:", err, string(debug.Stack()))
				}
			}()
			to.WriteTo(bus)
		})
	}
}
