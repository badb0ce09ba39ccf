package logmerge

// lineQueue 待输出行的环形队列
// 容量按源个数预分配, 正常情况下待输出行数不会超过未结束的源个数
type lineQueue struct {
	buf  []Line
	head int
	size int
}

func newLineQueue(capacity int) *lineQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &lineQueue{buf: make([]Line, capacity)}
}

func (q *lineQueue) Len() int {
	return q.size
}

func (q *lineQueue) push(l Line) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = l
	q.size++
}

func (q *lineQueue) pop() (Line, bool) {
	if q.size == 0 {
		return Line{}, false
	}
	l := q.buf[q.head]
	q.buf[q.head] = Line{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return l, true
}

func (q *lineQueue) grow() {
	buf := make([]Line, len(q.buf)*2)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
