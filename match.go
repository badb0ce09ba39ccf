package logmerge

import (
	"bytes"
)

// Matcher 判断一行中是否包含任意一个模式串
type Matcher interface {
	Null() bool
	Insert(pattern []byte)
	Search(data []byte) bool
}

// newMatcher 单个模式串直接用 bytes.Contains, 多个时用字典树
func newMatcher(patterns []string) Matcher {
	var m Matcher = &Simple{}
	if len(patterns) > 1 {
		m = newTire()
	}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		m.Insert([]byte(p))
	}
	return m
}

// *******************************************************************************
// *                             普通                                            *
// *******************************************************************************

// Simple 简单匹配
type Simple struct {
	match []byte // 待匹配的内容
}

func (s *Simple) Null() bool {
	return len(s.match) == 0
}

func (s *Simple) Insert(pattern []byte) {
	s.match = pattern
}

func (s *Simple) Search(data []byte) bool {
	if s.Null() {
		return false
	}
	return bytes.Contains(data, s.match)
}

// *******************************************************************************
// *                             字典树                                           *
// *******************************************************************************

// Tire 字典树
type Tire struct {
	root *node
	size int // 模式串个数
}

type node struct {
	isEnd    bool
	children [256]*node
}

func newTire() *Tire {
	return &Tire{root: &node{}}
}

func (t *Tire) Null() bool {
	return t.size == 0
}

// Insert 新增模式串
func (t *Tire) Insert(pattern []byte) {
	if len(pattern) == 0 {
		return
	}
	curNode := t.root
	for _, b := range pattern {
		if curNode.children[b] == nil {
			curNode.children[b] = &node{}
		}
		curNode = curNode.children[b]
	}
	if !curNode.isEnd {
		curNode.isEnd = true
		t.size++
	}
}

// Search 主串中是否包含任意模式串, 从每个位置开始沿树向下匹配
func (t *Tire) Search(data []byte) bool {
	if t.Null() {
		return false
	}
	for i := range data {
		curNode := t.root
		for j := i; j < len(data); j++ {
			curNode = curNode.children[data[j]]
			if curNode == nil {
				break
			}
			if curNode.isEnd {
				return true
			}
		}
	}
	return false
}
