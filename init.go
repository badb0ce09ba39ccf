package logmerge

import (
	"gitee.com/xuesongtao/gotool/xfile"
	plg "gitee.com/xuesongtao/log-merge/log"
)

var (
	filePool = xfile.NewFilePool(150) // 文件池, FileSource 通过它读文件
)

// SetLogger 设置 logger
func SetLogger(l plg.PsLogger) {
	plg.Plg = l
	xfile.SetLogger(l)
}

// PrintFilePool 是否打印 filePool log
func PrintFilePool(print bool) {
	filePool.Print(print)
}
