package logmerge

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	defaultPumpInterval = 200 // ms, pump 在没有唤醒信号时的轮询间隔
	maxFilterSkip       = 128 // Filter 单次 Poll 最多跳过的行数
)

var (
	// ErrNotReady 源暂时没有数据, 但还没结束, 调用方稍后重试
	ErrNotReady = errors.New("source not ready")

	// ErrSourceFailed 某个源在 Poll 时失败, 可通过 errors.Is 判断
	ErrSourceFailed = errors.New("source failed")
)

// SourceError 源失败, Merge 一旦返回该错误后续调用都会返回同一个错误
type SourceError struct {
	Idx    int    // 源下标
	Source string // 源名称
	Err    error  // 源返回的原始错误
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("poll source[%d] %q is failed, err: %v", e.Idx, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceFailed
}

// Line 合并后输出的一行
type Line struct {
	Idx    int    // 源下标
	Source string // 源名称
	Text   string
}

func sourceName(src Source, idx int) string {
	if n, ok := src.(Namer); ok && n.Name() != "" {
		return n.Name()
	}
	return "source-" + strconv.Itoa(idx)
}
