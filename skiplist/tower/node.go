package tower

import (
	"cmp"
	"math"

	"github.com/pkg/errors"

	"github.com/fuyu/skiplist/skiplist"
)

// maxNodes 是 NodeID (int32) 能定址的節點數上限
var maxNodes = math.MaxInt32

// node 同時存在於左右 (prev/next) 與上下 (up/down) 兩個方向的串列中，
// 所以不以指標持有，而是放在 arena 裡以 NodeID 互相參照。
type node[K cmp.Ordered, V any] struct {
	key      K
	value    V // 只有第 1 層的節點帶值，上層是純路由節點
	sentinel bool

	prev, next skiplist.NodeID
	up, down   skiplist.NodeID
}

type arena[K cmp.Ordered, V any] struct {
	nodes []node[K, V]
}

func newArena[K cmp.Ordered, V any](capacity int) arena[K, V] {
	return arena[K, V]{nodes: make([]node[K, V], 0, capacity)}
}

// alloc 新增一個尚未連結的節點，超過 maxNodes 時 panic
func (a *arena[K, V]) alloc(key K, value V, sentinel bool) skiplist.NodeID {
	if len(a.nodes) >= maxNodes {
		panic(errors.Wrapf(skiplist.ErrArenaFull, "%d nodes", len(a.nodes)))
	}
	a.nodes = append(a.nodes, node[K, V]{
		key:      key,
		value:    value,
		sentinel: sentinel,
		prev:     skiplist.NilNode,
		next:     skiplist.NilNode,
		up:       skiplist.NilNode,
		down:     skiplist.NilNode,
	})
	return skiplist.NodeID(len(a.nodes) - 1)
}

// at 回傳的指標在下一次 alloc 之後就可能失效
func (a *arena[K, V]) at(id skiplist.NodeID) *node[K, V] {
	return &a.nodes[id]
}

func (a *arena[K, V]) valid(id skiplist.NodeID) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

func (a *arena[K, V]) len() int {
	return len(a.nodes)
}

// spliceAfter 把 id 接在同一層的 prev 之後
func (a *arena[K, V]) spliceAfter(prev, id skiplist.NodeID) {
	p, n := a.at(prev), a.at(id)
	n.prev = prev
	n.next = p.next
	if p.next != skiplist.NilNode {
		a.at(p.next).prev = id
	}
	p.next = id
}

// stack 把 upper 疊在 lower 上面
func (a *arena[K, V]) stack(lower, upper skiplist.NodeID) {
	a.at(lower).up = upper
	a.at(upper).down = lower
}
