package line

// Merger 物理行 -> 逻辑行的合并规则
type Merger interface {
	Append(data []byte) bool // 追加一行(不含换行符), 返回 true 表示有完整的逻辑行, 应调用 Line 获取
	Line() []byte            // 获取合并完成的逻辑行, 获取后清空
	Flush() []byte           // 源结束时取出尚未成行的剩余内容
}
