// Package tower 實作以四向連結 (prev/next/up/down) 組成的 skip list。
//
// 每一層都是一條由 sentinel 開頭的雙向串列，第 1 層包含所有 key，
// 同一個 key 在各層的節點以 up/down 串成一座 tower。
// 查詢從最上層的 sentinel 出發，先往右再往下，期望 O(log n)。
//
// SkipList 不是 goroutine safe，需要由呼叫端自行保證同一時間只有一個使用者。
package tower

import (
	"cmp"
	"iter"
	"math/rand"
	"reflect"
	"time"

	"github.com/pkg/errors"

	"github.com/fuyu/skiplist/skiplist"
)

const (
	probability     = 0.5
	defaultCapacity = 64
)

// Coin 是升階時使用的亂數來源，*rand.Rand 即滿足此介面
type Coin interface {
	Float64() float64
}

type config struct {
	coin     Coin
	p        float64
	capacity int
}

// Option 設定 SkipList
type Option func(*config)

// WithSeed 以固定種子建立亂數來源
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.coin = rand.New(rand.NewSource(seed))
	}
}

// WithRand 注入亂數來源
func WithRand(coin Coin) Option {
	return func(c *config) {
		if coin != nil {
			c.coin = coin
		}
	}
}

// WithProbability 設定每次升階成功的機率，只接受 0 < p < 1
func WithProbability(p float64) Option {
	return func(c *config) {
		if p > 0 && p < 1 {
			c.p = p
		}
	}
}

// WithCapacity 預先配置 arena 的節點數
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

type SkipList[K cmp.Ordered, V any] struct {
	arena  arena[K, V]
	head   skiplist.NodeID // 最上層的 sentinel
	base   skiplist.NodeID // 第 1 層的 sentinel
	levels int
	length int
	coin   Coin
	p      float64
}

// New 建立只有一層的空 skip list
func New[K cmp.Ordered, V any](opts ...Option) *SkipList[K, V] {
	cfg := config{p: probability, capacity: defaultCapacity}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.coin == nil {
		cfg.coin = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sl := &SkipList[K, V]{
		arena: newArena[K, V](cfg.capacity),
		head:  skiplist.NilNode,
		coin:  cfg.coin,
		p:     cfg.p,
	}
	sl.growLevels()
	sl.base = sl.head
	return sl
}

// growLevels 在目前最上層的 sentinel 上面再加一層
func (sl *SkipList[K, V]) growLevels() {
	var (
		key   K
		value V
	)
	id := sl.arena.alloc(key, value, true)
	if sl.head != skiplist.NilNode {
		sl.arena.stack(sl.head, id)
	}
	sl.head = id
	sl.levels++
}

// locate 回傳第 1 層中 key <= target 的最右節點，找不到時回傳第 1 層的 sentinel
func (sl *SkipList[K, V]) locate(key K) skiplist.NodeID {
	cur := sl.head
	for {
		for {
			next := sl.arena.at(cur).next
			if next == skiplist.NilNode || sl.arena.at(next).key > key {
				break
			}
			cur = next
		}
		down := sl.arena.at(cur).down
		if down == skiplist.NilNode {
			return cur
		}
		cur = down
	}
}

// find 回傳 key 在第 1 層的節點
func (sl *SkipList[K, V]) find(key K) (skiplist.NodeID, bool) {
	id := sl.locate(key)
	n := sl.arena.at(id)
	if n.sentinel || n.key != key {
		return skiplist.NilNode, false
	}
	return id, true
}

// Get 取得 key 對應的 value
func (sl *SkipList[K, V]) Get(key K) (V, bool) {
	if id, found := sl.find(key); found {
		return sl.arena.at(id).value, true
	}
	var zero V
	return zero, false
}

// Contains 判斷 key 是否存在
func (sl *SkipList[K, V]) Contains(key K) bool {
	_, found := sl.find(key)
	return found
}

// Put 插入或更新 key 對應的 value。
// key 為 NaN 或 value 為 nil 時回傳 skiplist.ErrInvalidInput，且不改變任何狀態。
func (sl *SkipList[K, V]) Put(key K, value V) error {
	if key != key { // NaN
		return errors.Wrapf(skiplist.ErrInvalidInput, "key %v has no order", key)
	}
	if isNil(value) {
		return errors.Wrapf(skiplist.ErrInvalidInput, "nil value for key %v", key)
	}

	cur := sl.locate(key)
	if n := sl.arena.at(cur); !n.sentinel && n.key == key {
		// 更新：不新增節點，也不改動 tower
		n.value = value
		return nil
	}

	id := sl.arena.alloc(key, value, false)
	sl.arena.spliceAfter(cur, id)
	sl.length++
	sl.promote(cur, id)
	return nil
}

// promote 以擲硬幣決定新節點的 tower 高度，cur 是新節點在第 1 層的前一個節點
func (sl *SkipList[K, V]) promote(cur, lower skiplist.NodeID) {
	var routing V
	key := sl.arena.at(lower).key

	for level := 1; sl.flip(); level++ {
		if level >= sl.levels {
			sl.growLevels()
		}

		// 往左找到第一個有上層節點的位置，最差也會走到 sentinel
		for sl.arena.at(cur).up == skiplist.NilNode {
			prev := sl.arena.at(cur).prev
			if prev == skiplist.NilNode {
				panic(errors.Wrapf(skiplist.ErrBrokenTower, "key %v at level %d", key, level))
			}
			cur = prev
		}
		cur = sl.arena.at(cur).up

		top := sl.arena.alloc(key, routing, false)
		sl.arena.spliceAfter(cur, top)
		sl.arena.stack(lower, top)
		lower = top
	}
}

func (sl *SkipList[K, V]) flip() bool {
	return sl.coin.Float64() < sl.p
}

// Size 回傳 key 的數量，不含 sentinel
func (sl *SkipList[K, V]) Size() int {
	return sl.length
}

// Levels 回傳目前的層數，只增不減
func (sl *SkipList[K, V]) Levels() int {
	return sl.levels
}

// All 依 key 由小到大走訪第 1 層
func (sl *SkipList[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for id := sl.arena.at(sl.base).next; id != skiplist.NilNode; id = sl.arena.at(id).next {
			n := sl.arena.at(id)
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Head 實現 skiplist.Analyable
func (sl *SkipList[K, V]) Head() skiplist.NodeID {
	return sl.head
}

// Node 實現 skiplist.Analyable
func (sl *SkipList[K, V]) Node(id skiplist.NodeID) (skiplist.NodeView[K, V], bool) {
	if !sl.arena.valid(id) {
		return skiplist.NodeView[K, V]{}, false
	}
	n := sl.arena.at(id)
	return skiplist.NodeView[K, V]{
		ID:       id,
		Key:      n.key,
		Value:    n.value,
		Sentinel: n.sentinel,
		Prev:     n.prev,
		Next:     n.next,
		Up:       n.up,
		Down:     n.down,
	}, true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
