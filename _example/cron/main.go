package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	logmerge "gitee.com/xuesongtao/log-merge"
)

// 收集 src 下所有项目的 log/test.log, 一次性合并, 只保留错误
func main() {
	src := "/root/demo/src"
	logs := logmerge.NewLogPath().ParseSrc(&logmerge.ProjectSrc{
		LogDir: &logmerge.LogDir{
			Namespace:   "namespace_01",
			TargetNames: []string{"test.log"},
		},
		SrcPath: src,
	})

	files, err := logmerge.NewFileSources(logs)
	if err != nil {
		panic(err)
	}
	sources := make([]logmerge.Source, 0, len(files))
	for _, f := range files {
		sources = append(sources, logmerge.NewFilter(f, []string{"[ERRO]"}, nil))
	}

	merge := logmerge.NewMerge(sources)
	for {
		l, err := merge.PollLine()
		if errors.Is(err, logmerge.ErrNotReady) { // Filter 跳过太多行时会返回
			continue
		}
		if err != nil {
			if err != io.EOF {
				fmt.Println("merge err:", err)
			}
			break
		}
		fmt.Printf("%s | %s\n", l.Source, l.Text)
	}
	merge.Dump(os.Stdout)
}
