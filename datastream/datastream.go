package datastream

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// DataStream 定義資料流的介面
type DataStream interface {
	Next() int64
	GenerateSequence(seqLen int) []int64
	GetKeyMap() map[int64]float64
	Entropy() float64
}

// OperationType 表示操作種類
type OperationType uint8

const (
	OpGet OperationType = iota
	OpPut
)

func (t OperationType) String() string {
	switch t {
	case OpGet:
		return "Get"
	case OpPut:
		return "Put"
	default:
		return "Unknown"
	}
}

// Operation 表示一筆操作
type Operation struct {
	Type OperationType
	Key  int64
}

func (op Operation) String() string {
	return fmt.Sprintf("%s(%d)", op.Type, op.Key)
}

// GenerateWorkload 由 src 產生 k 筆操作。
// 規則：
//   - key 第一次出現一律是 Put
//   - 之後以 putRatio 的機率為 Put（更新），其餘為 Get
func GenerateWorkload(src DataStream, k int, putRatio float64, seed int64) ([]Operation, error) {
	if src == nil {
		return nil, errors.New("nil data stream")
	}
	if k < 0 {
		return nil, errors.Errorf("invalid k: %d", k)
	}
	if !(putRatio >= 0 && putRatio <= 1) {
		return nil, errors.Errorf("invalid put ratio: %f", putRatio)
	}

	rng := rand.New(rand.NewSource(seed))
	seen := make(map[int64]bool)
	ops := make([]Operation, k)
	for i := range ops {
		key := src.Next()
		op := OpGet
		if !seen[key] {
			op = OpPut
			seen[key] = true
		} else if rng.Float64() < putRatio {
			op = OpPut
		}
		ops[i] = Operation{Type: op, Key: key}
	}
	return ops, nil
}

// SequenceModel 以既有的 Operation 序列提供順序重播
type SequenceModel struct {
	ops []Operation
	pos int
}

// NewSequenceModelFromOps 由外部供給的操作序列建立模型
func NewSequenceModelFromOps(ops []Operation) *SequenceModel {
	cp := make([]Operation, len(ops))
	copy(cp, ops)
	return &SequenceModel{ops: cp}
}

// Next 回傳下一筆操作，若結束則回傳零值與 false
func (m *SequenceModel) Next() (Operation, bool) {
	if m.pos >= len(m.ops) {
		return Operation{}, false
	}
	op := m.ops[m.pos]
	m.pos++
	return op, true
}

// Len 回傳序列長度
func (m *SequenceModel) Len() int { return len(m.ops) }

// Reset 游標重置到起點
func (m *SequenceModel) Reset() { m.pos = 0 }
