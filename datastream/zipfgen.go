package datastream

import (
	"math"
	"math/rand"
)

// ZipfDataGenerator 產生符合 Zipf 分布的 key 序列，key 為 0~n-1，
// 權重 1/(i+b)^a 會先打亂，讓熱門 key 不集中在序列前段。n 小於 1 時視為 1
type ZipfDataGenerator struct {
	n       int
	a, b    float64
	Weights []float64
	cdf     []float64
	rng     *rand.Rand
}

func NewZipfDataGenerator(n int, a, b float64, seed int64) *ZipfDataGenerator {
	n = max(n, 1)
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, n)
	var sum float64
	for i := 1; i <= n; i++ {
		weights[i-1] = 1.0 / math.Pow(float64(i)+b, a)
		sum += weights[i-1]
	}
	// 正規化
	for i := range weights {
		weights[i] /= sum
	}
	rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})
	return &ZipfDataGenerator{
		n:       n,
		a:       a,
		b:       b,
		Weights: weights,
		cdf:     cumulate(weights),
		rng:     rng,
	}
}

// Next 產生一個 key
func (z *ZipfDataGenerator) Next() int64 {
	return search(z.cdf, z.rng.Float64())
}

// GenerateSequence 產生指定長度的 key 序列
func (z *ZipfDataGenerator) GenerateSequence(seqLen int) []int64 {
	seq := make([]int64, seqLen)
	for i := range seq {
		seq[i] = z.Next()
	}
	return seq
}

// GetKeyMap 回傳每個 key 的機率
func (z *ZipfDataGenerator) GetKeyMap() map[int64]float64 {
	result := make(map[int64]float64, z.n)
	for i, w := range z.Weights {
		result[int64(i)] = w
	}
	return result
}

func (z *ZipfDataGenerator) Entropy() float64 {
	return entropy(z.Weights)
}

// cumulate 計算累積分布函數
func cumulate(pdf []float64) []float64 {
	cdf := make([]float64, len(pdf))
	sum := 0.0
	for i, p := range pdf {
		sum += p
		cdf[i] = sum
	}
	return cdf
}

// search 二分搜尋 cdf 中第一個 >= r 的位置
func search(cdf []float64, r float64) int64 {
	lo, hi := 0, len(cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r > cdf[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return int64(lo)
}

func entropy(pdf []float64) float64 {
	h := 0.0
	for _, p := range pdf {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
