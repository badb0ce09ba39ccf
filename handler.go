package logmerge

import (
	"errors"
	"fmt"
	"os"
)

// LineWriter 合并后行的处理方法
type LineWriter interface {
	WriteTo(bus *LineBus)
}

// Stdout 输出到标准输出
type Stdout struct{}

func (p *Stdout) WriteTo(bus *LineBus) {
	os.Stdout.WriteString(bus.Msg + "\n")
}

// Handler 输出的部分
type Handler struct {
	Tos []LineWriter // 一行, 多种处理方式
	Ext string       // 外部存入, 回调返回
}

func (h *Handler) Valid() error {
	if len(h.Tos) == 0 {
		return errors.New("Tos is required")
	}

	for i, to := range h.Tos {
		if to == nil {
			return fmt.Errorf("Tos[%d] is nil", i)
		}
	}
	return nil
}

// LineBus 交给 LineWriter 的内容
type LineBus struct {
	Idx    int    // 源下标, 源不是 Merge 时为 -1
	Source string // 源名称
	Msg    string // 行内容
	Ext    string // Handler 中的 Ext 值
}
