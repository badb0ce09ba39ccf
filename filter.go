package logmerge

// Filter 按目标内容和排除内容过滤源的行
// 没有 targets 时所有行都是目标; 包含任意 exclude 的行会被丢弃
type Filter struct {
	src      Source
	targets  Matcher
	excludes Matcher
	skipped  int64
}

func NewFilter(src Source, targets, excludes []string) *Filter {
	return &Filter{
		src:      src,
		targets:  newMatcher(targets),
		excludes: newMatcher(excludes),
	}
}

// Name 沿用被包装源的名称
func (f *Filter) Name() string {
	if n, ok := f.src.(Namer); ok {
		return n.Name()
	}
	return ""
}

// Skipped 被过滤掉的行数
func (f *Filter) Skipped() int64 {
	return f.skipped
}

// Poll 单次最多跳过 maxFilterSkip 行, 超过后返回 ErrNotReady, 避免持续就绪的源阻塞调用方
func (f *Filter) Poll() (string, error) {
	for i := 0; i < maxFilterSkip; i++ {
		l, err := f.src.Poll()
		if err != nil {
			return "", err
		}
		if f.match([]byte(l)) {
			return l, nil
		}
		f.skipped++
	}
	return "", ErrNotReady
}

func (f *Filter) match(data []byte) bool {
	if !f.targets.Null() && !f.targets.Search(data) {
		return false
	}
	return f.excludes.Null() || !f.excludes.Search(data)
}
