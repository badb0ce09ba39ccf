package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"gitee.com/xuesongtao/gotool/base"
	"gitee.com/xuesongtao/gotool/xfile"
	logmerge "gitee.com/xuesongtao/log-merge"
)

// 两个文件实时写入, 按轮询合并后输出到 stdout
func main() {
	dir := "log"
	paths := []string{filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")}
	for _, path := range paths {
		fh := xfile.NewFileHandle(path)
		if err := fh.Initf(os.O_RDWR | os.O_CREATE | os.O_TRUNC); err != nil {
			panic(err)
		}
		fh.Close()
	}

	w, err := logmerge.NewWatch()
	if err != nil {
		panic(err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		panic(err)
	}
	go w.Watch()

	sources := make([]logmerge.Source, 0, len(paths))
	files := make([]*logmerge.FileSource, 0, len(paths))
	for _, path := range paths {
		f, err := logmerge.NewFileSource(path, logmerge.WithTail(true))
		if err != nil {
			panic(err)
		}
		files = append(files, f)
		sources = append(sources, f)
	}

	merge := logmerge.NewMerge(sources, logmerge.WithName("tail"))
	pump, err := logmerge.NewPump(merge, &logmerge.Handler{
		Tos: []logmerge.LineWriter{&logmerge.Stdout{}},
	}, logmerge.WithWake(w.Wake()), logmerge.WithInterval(time.Second))
	if err != nil {
		panic(err)
	}
	defer pump.Close()

	for i, path := range paths {
		go func(i int, path string) {
			fh := xfile.NewFileHandle(path)
			if err := fh.Initf(os.O_RDWR | os.O_APPEND); err != nil {
				log.Println(err)
				return
			}
			defer fh.Close()
			for j := 0; j < 10; j++ {
				time.Sleep(time.Duration(10*(i+1)) * time.Millisecond)
				_, err := fh.AppendContent(time.Now().Format(base.DatetimeFmt+".000") + " " + path + " " + fmt.Sprint(j) + "\n")
				if err != nil {
					log.Println("write err:", err)
				}
			}
			files[i].Close()
		}(i, path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := pump.Run(ctx); err != nil {
		log.Println("pump err:", err)
	}
	merge.Dump(os.Stdout)
}
