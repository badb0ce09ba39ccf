package logmerge

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"sync"

	plg "gitee.com/xuesongtao/log-merge/log"
	"github.com/fsnotify/fsnotify"
)

// Watch 监听文件变化, 用于唤醒 Pump 重新 Poll
type Watch struct {
	mu      sync.RWMutex
	fileMap map[string]bool   // key: path, value: 是否为目录
	watcher *fsnotify.Watcher // 监听
	wake    chan struct{}     // 缓冲为 1, 多次变化合并为一次唤醒
	once    sync.Once
}

func NewWatch() (*Watch, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher is failed, err: %w", err)
	}

	obj := &Watch{
		fileMap: make(map[string]bool),
		watcher: watcher,
		wake:    make(chan struct{}, 1),
	}
	return obj, nil
}

// Add 添加待 watch 的路径
// 说明:
//	1. paths 中可以包含目录和文件
//	2. 建议使用绝对路径
func (w *Watch) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, path := range paths {
		st, err := os.Lstat(path)
		if err != nil {
			return fmt.Errorf("os.Lstat is failed, err: %w", err)
		}
		path = filepath.Clean(path)
		if _, ok := w.fileMap[path]; ok {
			continue
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("add %q is failed, err: %w", path, err)
		}
		w.fileMap[path] = st.IsDir()
	}
	return nil
}

// Remove 移除待 watch 的路径
func (w *Watch) Remove(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, path := range paths {
		path = filepath.Clean(path)
		if _, ok := w.fileMap[path]; !ok {
			continue
		}
		delete(w.fileMap, path)
		if err := w.watcher.Remove(path); err != nil {
			return fmt.Errorf("remove %q is failed, err: %w", path, err)
		}
	}
	return nil
}

// List 监听中的路径
func (w *Watch) List() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	res := make([]string, 0, len(w.fileMap))
	for path := range w.fileMap {
		res = append(res, path)
	}
	sort.Strings(res)
	return res
}

// Wake 有文件写入或创建时会收到信号
func (w *Watch) Wake() <-chan struct{} {
	return w.wake
}

func (w *Watch) Close() {
	w.once.Do(func() {
		w.watcher.Close()
	})
}

// Watch 文件监听, 阻塞直到 Close
func (w *Watch) Watch() {
	defer func() {
		if err := recover(); err != nil {
			plg.Error("recover err:", err, string(debug.Stack()))
		}
		w.Close()
	}()

	for {
		select {
		case err, ok := <-w.watcher.Errors:
			if !ok {
				plg.Info("err channel is closed")
				return
			}
			plg.Error("watch err:", err)
		case event, ok := <-w.watcher.Events:
			if !ok {
				plg.Info("event channel is closed")
				return
			}

			// 只处理 create, write
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			plg.Debugf("filename: %q, op: %s", event.Name, event.Op.String())
			w.notify()
		}
	}
}

// watched 先按文件全路径查询, 查不到再按所在目录查询
func (w *Watch) watched(filename string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.fileMap[filepath.Clean(filename)]; ok {
		return true
	}
	isDir, ok := w.fileMap[filepath.Dir(filename)]
	return ok && isDir
}

func (w *Watch) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
