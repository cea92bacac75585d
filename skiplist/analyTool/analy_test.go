package analyTool_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuyu/skiplist/datastream"
	"github.com/fuyu/skiplist/skiplist"
	"github.com/fuyu/skiplist/skiplist/analyTool"
	"github.com/fuyu/skiplist/skiplist/tower"
)

// fakeList 直接以 NodeView 拼出結構，用來製造壞掉的 skip list
type fakeList struct {
	nodes  []skiplist.NodeView[int, string]
	head   skiplist.NodeID
	levels int
	size   int
}

func (f *fakeList) Put(key int, value string) error { return nil }
func (f *fakeList) Size() int                       { return f.size }
func (f *fakeList) Levels() int                     { return f.levels }
func (f *fakeList) Head() skiplist.NodeID           { return f.head }

func (f *fakeList) Contains(key int) bool {
	_, ok := f.Get(key)
	return ok
}

func (f *fakeList) Get(key int) (string, bool) {
	for _, nd := range f.nodes {
		if !nd.Sentinel && nd.Down == skiplist.NilNode && nd.Key == key {
			return nd.Value, true
		}
	}
	return "", false
}

func (f *fakeList) Node(id skiplist.NodeID) (skiplist.NodeView[int, string], bool) {
	if id < 0 || int(id) >= len(f.nodes) {
		return skiplist.NodeView[int, string]{}, false
	}
	return f.nodes[id], true
}

func view(id skiplist.NodeID, key int, value string, sentinel bool, prev, next, up, down skiplist.NodeID) skiplist.NodeView[int, string] {
	return skiplist.NodeView[int, string]{
		ID: id, Key: key, Value: value, Sentinel: sentinel,
		Prev: prev, Next: next, Up: up, Down: down,
	}
}

const nilID = skiplist.NilNode

// twoLevels 建出 L2: H -> 1、L1: H -> 1 -> 2
func twoLevels() *fakeList {
	return &fakeList{
		nodes: []skiplist.NodeView[int, string]{
			view(0, 0, "", true, nilID, 2, 1, nilID),
			view(1, 0, "", true, nilID, 4, nilID, 0),
			view(2, 1, "a", false, 0, 3, 4, nilID),
			view(3, 2, "b", false, 2, nilID, nilID, nilID),
			view(4, 1, "", false, 1, nilID, nilID, 2),
		},
		head:   1,
		levels: 2,
		size:   2,
	}
}

func newTower(t *testing.T, n int) *tower.SkipList[int64, float64] {
	t.Helper()
	sl := tower.New[int64, float64](tower.WithSeed(42))
	for i := 0; i < n; i++ {
		require.NoError(t, sl.Put(int64(i), float64(i)))
	}
	return sl
}

func TestCheckStructFake(t *testing.T) {
	require.NoError(t, analyTool.CheckStruct[int, string](twoLevels()))

	cases := map[string]func(f *fakeList){
		"unordered": func(f *fakeList) {
			f.nodes[3].Key = 0
		},
		"asymmetric prev": func(f *fakeList) {
			f.nodes[3].Prev = 0
		},
		"size mismatch": func(f *fakeList) {
			f.size = 3
		},
		"levels mismatch": func(f *fakeList) {
			f.levels = 3
		},
		"misaligned tower": func(f *fakeList) {
			f.nodes[4].Key = 2
		},
		"routing value": func(f *fakeList) {
			f.nodes[4].Value = "x"
		},
		"missing up mirror": func(f *fakeList) {
			f.nodes[2].Up = nilID
		},
		"sentinel inside list": func(f *fakeList) {
			f.nodes[3].Sentinel = true
		},
		"broken spine": func(f *fakeList) {
			f.nodes[1].Down = 2
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			f := twoLevels()
			corrupt(f)
			err := analyTool.CheckStruct[int, string](f)
			assert.ErrorIs(t, err, skiplist.ErrBrokenStruct)
		})
	}
}

func TestCheckStructTower(t *testing.T) {
	sl := newTower(t, 2000)
	require.NoError(t, analyTool.CheckStruct[int64, float64](sl))
}

func TestCountLevel(t *testing.T) {
	assert.Equal(t, []int{2, 1}, analyTool.CountLevel[int, string](twoLevels()))

	sl := newTower(t, 4096)
	counts := analyTool.CountLevel[int64, float64](sl)
	require.Len(t, counts, sl.Levels())
	assert.Equal(t, 4096, counts[0])
	for i := 1; i < len(counts); i++ {
		assert.LessOrEqual(t, counts[i], counts[i-1])
	}
	// 第 2 層大約是第 1 層的一半
	assert.InDelta(t, 2048, counts[1], 200)
}

func TestFindStep(t *testing.T) {
	f := twoLevels()

	step, level := analyTool.FindStep[int, string](f, 1)
	assert.Equal(t, 2, step) // 右、下
	assert.Equal(t, []int{0, 1}, level)

	step, level = analyTool.FindStep[int, string](f, 2)
	assert.Equal(t, 3, step) // 右、下、右
	assert.Equal(t, []int{1, 1}, level)

	step, level = analyTool.FindStep[int, string](f, 0)
	assert.Equal(t, 1, step) // 下
	assert.Equal(t, []int{0, 0}, level)
}

func TestAnalyzeStep(t *testing.T) {
	f := twoLevels()
	avg := analyTool.AnalyzeStep[int, string](f, map[int]float64{1: 0.5, 2: 0.5, 7: 1})
	assert.InDelta(t, 2.5, avg, 1e-9)
	assert.Equal(t, 0.0, analyTool.AnalyzeStep[int, string](f, nil))

	gen := datastream.NewZipfDataGenerator(1000, 1.07, 1, 42)
	sl := tower.New[int64, float64](tower.WithSeed(42))
	for k, p := range gen.GetKeyMap() {
		require.NoError(t, sl.Put(k, p))
	}
	steps := analyTool.AnalyzeStep[int64, float64](sl, gen.GetKeyMap())
	assert.Greater(t, steps, 1.0)
	assert.Less(t, steps, 60.0)
}

func TestPrintLink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, analyTool.PrintLink[int, string](&buf, twoLevels(), 10))
	assert.Equal(t, "level 2 : H ->1\nlevel 1 : H ->1 ->2\n", buf.String())

	buf.Reset()
	require.NoError(t, analyTool.PrintLink[int, string](&buf, twoLevels(), 1))
	assert.Equal(t, "level 2 : H ->1\nlevel 1 : H ->1 ->...\n", buf.String())
}

func TestLevelTable(t *testing.T) {
	var buf bytes.Buffer
	analyTool.LevelTable[int, string](&buf, twoLevels())
	out := buf.String()
	assert.Contains(t, out, "LEVEL")
	assert.Contains(t, out, "0.500")
	assert.Equal(t, 1+1+1+2+1, strings.Count(out, "\n"))
}
