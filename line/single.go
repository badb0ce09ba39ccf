package line

// Single 单行处理, 每个物理行就是一个逻辑行
type Single struct {
	line []byte
}

func NewSingle() *Single {
	return &Single{}
}

func (s *Single) Append(data []byte) bool {
	s.line = data
	return true
}

func (s *Single) Line() []byte {
	tmp := s.line
	s.line = nil
	return tmp
}

// Flush 单行没有跨行状态, 这里只会返回未取走的行
func (s *Single) Flush() []byte {
	return s.Line()
}
