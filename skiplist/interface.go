package skiplist

import "cmp"

// NodeID 是節點在 arena 中的位置，NilNode 表示連結不存在
type NodeID int32

const NilNode NodeID = -1

// Index 是有序索引的共同介面
type Index[K cmp.Ordered, V any] interface {
	Contains(key K) bool
	Get(key K) (V, bool)
	Put(key K, value V) error
	Size() int
	Levels() int
}

// Analyable 提供分析功能的介面
type Analyable[K cmp.Ordered, V any] interface {
	Index[K, V]
	// Head 回傳最上層的 sentinel
	Head() NodeID
	// Node 讀取節點內容，id 不合法時回傳 ok == false
	Node(id NodeID) (NodeView[K, V], bool)
}

// NodeView 是節點的唯讀快照
type NodeView[K cmp.Ordered, V any] struct {
	ID       NodeID
	Key      K
	Value    V
	Sentinel bool

	Prev, Next NodeID
	Up, Down   NodeID
}
