package logmerge

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// SourceStat 单个源的统计
type SourceStat struct {
	Idx      int
	Name     string
	Status   string // needs_poll, delivered, finished
	Polls    int64  // Poll 调用次数
	Lines    int64  // 读到的行数
	NotReady int64  // 返回 ErrNotReady 的次数
	Emitted  int64  // 已输出的行数
}

// Stats 统计快照
func (m *Merge) Stats() []*SourceStat {
	res := make([]*SourceStat, 0, len(m.stats))
	for i, stat := range m.stats {
		tmp := *stat
		tmp.Status = m.states[i].String()
		res = append(res, &tmp)
	}
	return res
}

// Emitted 已输出的总行数
func (m *Merge) Emitted() int64 {
	return m.emitted
}

// Dump 以表格形式输出统计
func (m *Merge) Dump(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"idx", "source", "status", "polls", "lines", "not ready", "emitted"})
	for _, stat := range m.Stats() {
		table.Append([]string{
			strconv.Itoa(stat.Idx),
			stat.Name,
			stat.Status,
			strconv.FormatInt(stat.Polls, 10),
			strconv.FormatInt(stat.Lines, 10),
			strconv.FormatInt(stat.NotReady, 10),
			strconv.FormatInt(stat.Emitted, 10),
		})
	}
	table.SetFooter([]string{
		"", m.name, "pending " + strconv.Itoa(m.Pending()),
		"", "", "unfinished " + strconv.Itoa(m.Unfinished()),
		strconv.FormatInt(m.emitted, 10),
	})
	table.Render()
}
