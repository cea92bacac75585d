package datastream

import (
	"math/rand"
)

// UniformDataGenerator 產生符合平均分布的 key 序列
// 每個 key 出現機率皆相同
// n: key 數量，小於 1 時視為 1
// seed: 隨機種子
type UniformDataGenerator struct {
	n   int
	rng *rand.Rand
}

func NewUniformDataGenerator(n int, seed int64) *UniformDataGenerator {
	n = max(n, 1)
	return &UniformDataGenerator{
		n:   n,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next 產生一個 key (0~n-1)
func (u *UniformDataGenerator) Next() int64 {
	return u.rng.Int63n(int64(u.n))
}

// GenerateSequence 產生指定長度的 key 序列
func (u *UniformDataGenerator) GenerateSequence(seqLen int) []int64 {
	seq := make([]int64, seqLen)
	for i := range seq {
		seq[i] = u.Next()
	}
	return seq
}

// GetKeyMap 回傳每個 key 的機率
func (u *UniformDataGenerator) GetKeyMap() map[int64]float64 {
	result := make(map[int64]float64, u.n)
	for i := 0; i < u.n; i++ {
		result[int64(i)] = 1.0 / float64(u.n)
	}
	return result
}

func (u *UniformDataGenerator) Entropy() float64 {
	pdf := make([]float64, u.n)
	for i := range pdf {
		pdf[i] = 1.0 / float64(u.n)
	}
	return entropy(pdf)
}
