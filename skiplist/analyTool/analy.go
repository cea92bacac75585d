package analyTool

import (
	"cmp"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/fuyu/skiplist/skiplist"
)

// spine 回傳各層的 sentinel，index 0 是第 1 層
func spine[K cmp.Ordered, V any](sl skiplist.Analyable[K, V]) ([]skiplist.NodeView[K, V], error) {
	var heads []skiplist.NodeView[K, V]
	for id := sl.Head(); id != skiplist.NilNode; {
		nd, ok := sl.Node(id)
		if !ok {
			return nil, errors.Wrapf(skiplist.ErrBrokenStruct, "dangling sentinel link %d", id)
		}
		if !nd.Sentinel {
			return nil, errors.Wrapf(skiplist.ErrBrokenStruct, "node %d on the head spine is not a sentinel", id)
		}
		heads = append(heads, nd)
		id = nd.Down
	}
	for i, j := 0, len(heads)-1; i < j; i, j = i+1, j-1 {
		heads[i], heads[j] = heads[j], heads[i]
	}
	return heads, nil
}

// CheckStruct 檢查 skip list 的結構是否正確：
// 每層 key 嚴格遞增、prev/next 對稱、第 1 層包含全部 key、
// 上層節點以 down 對到下一層同 key 的節點且不帶值、層數等於 sentinel 數
func CheckStruct[K cmp.Ordered, V any](sl skiplist.Analyable[K, V]) error {
	heads, err := spine(sl)
	if err != nil {
		return err
	}
	if len(heads) != sl.Levels() {
		return errors.Wrapf(skiplist.ErrBrokenStruct, "%d sentinels for %d levels", len(heads), sl.Levels())
	}

	for i, head := range heads {
		level := i + 1
		if head.Prev != skiplist.NilNode {
			return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: sentinel has a predecessor", level)
		}
		if i+1 < len(heads) && head.Up != heads[i+1].ID {
			return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: sentinel up link is not mirrored", level)
		}

		prev := head
		count := 0
		for id := head.Next; id != skiplist.NilNode; id = prev.Next {
			nd, ok := sl.Node(id)
			if !ok {
				return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: dangling next link %d", level, id)
			}
			if nd.Sentinel {
				return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: sentinel %d inside the list", level, id)
			}
			if nd.Prev != prev.ID {
				return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: key %v prev is %d, want %d", level, nd.Key, nd.Prev, prev.ID)
			}
			if !prev.Sentinel && prev.Key >= nd.Key {
				return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: key %v after %v", level, nd.Key, prev.Key)
			}
			if err := checkTower(sl, nd, level); err != nil {
				return err
			}
			prev = nd
			count++
		}

		if level == 1 && count != sl.Size() {
			return errors.Wrapf(skiplist.ErrBrokenStruct, "level 1 holds %d keys, size is %d", count, sl.Size())
		}
	}
	return nil
}

func checkTower[K cmp.Ordered, V any](sl skiplist.Analyable[K, V], nd skiplist.NodeView[K, V], level int) error {
	if nd.Up != skiplist.NilNode {
		up, ok := sl.Node(nd.Up)
		if !ok || up.Down != nd.ID {
			return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: key %v up link is not mirrored", level, nd.Key)
		}
	}
	if level == 1 {
		if nd.Down != skiplist.NilNode {
			return errors.Wrapf(skiplist.ErrBrokenStruct, "level 1: key %v has a down link", nd.Key)
		}
		return nil
	}

	down, ok := sl.Node(nd.Down)
	if !ok {
		return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: key %v has no node below", level, nd.Key)
	}
	if down.Sentinel || down.Key != nd.Key || down.Up != nd.ID {
		return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: key %v tower misaligned", level, nd.Key)
	}
	if !reflect.ValueOf(&nd.Value).Elem().IsZero() {
		return errors.Wrapf(skiplist.ErrBrokenStruct, "level %d: routing node %v carries a value", level, nd.Key)
	}
	return nil
}

// CountLevel 計算每層的節點數量 (不含 sentinel)，index 0 是第 1 層
func CountLevel[K cmp.Ordered, V any](sl skiplist.Analyable[K, V]) []int {
	heads, err := spine(sl)
	if err != nil {
		return nil
	}
	counts := make([]int, len(heads))
	for i, head := range heads {
		for id := head.Next; id != skiplist.NilNode; {
			nd, ok := sl.Node(id)
			if !ok {
				break
			}
			counts[i]++
			id = nd.Next
		}
	}
	return counts
}

// FindStep 重現查詢 key 的下降過程，回傳總步數與各層的水平步數 (index 0 是第 1 層)。
// 往右與往下都各算一步。
func FindStep[K cmp.Ordered, V any](sl skiplist.Analyable[K, V], key K) (step int, level []int) {
	level = make([]int, sl.Levels())
	cur, ok := sl.Node(sl.Head())
	if !ok {
		return 0, level
	}

	h := sl.Levels() - 1
	for {
		for cur.Next != skiplist.NilNode {
			next, _ := sl.Node(cur.Next)
			if next.Key > key {
				break
			}
			cur = next
			level[h]++
			step++
		}
		if cur.Down == skiplist.NilNode || h == 0 {
			return step, level
		}
		cur, _ = sl.Node(cur.Down)
		h--
		step++
	}
}

// AnalyzeStep 根據 weights 提供的 key 出現機率計算平均搜尋步數，
// 不在 skip list 中的 key 不計入
func AnalyzeStep[K cmp.Ordered, V any](sl skiplist.Analyable[K, V], weights map[K]float64) float64 {
	var total, prob float64
	for k, p := range weights {
		if p <= 0 || !sl.Contains(k) {
			continue
		}
		step, _ := FindStep(sl, k)
		total += float64(step) * p
		prob += p
	}
	if prob == 0 {
		return 0
	}
	return total / prob
}

// PrintLink 打印 skip list 的連結結構，每層最多 maxNodes 個節點
func PrintLink[K cmp.Ordered, V any](w io.Writer, sl skiplist.Analyable[K, V], maxNodes int) error {
	heads, err := spine(sl)
	if err != nil {
		return err
	}
	counts := CountLevel(sl)
	for i := len(heads) - 1; i >= 0; i-- {
		var sb strings.Builder
		fmt.Fprintf(&sb, "level %d : H", i+1)
		count := 0
		for id := heads[i].Next; id != skiplist.NilNode && count < maxNodes; count++ {
			nd, _ := sl.Node(id)
			fmt.Fprintf(&sb, " ->%v", nd.Key)
			id = nd.Next
		}
		if count < counts[i] {
			sb.WriteString(" ->...")
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// LevelTable 以表格輸出每層的節點數與相對下一層的比例
func LevelTable[K cmp.Ordered, V any](w io.Writer, sl skiplist.Analyable[K, V]) {
	counts := CountLevel(sl)
	rows := make([][]string, 0, len(counts))
	for i := len(counts) - 1; i >= 0; i-- {
		ratio := "-"
		if i > 0 && counts[i-1] > 0 {
			ratio = fmt.Sprintf("%.3f", float64(counts[i])/float64(counts[i-1]))
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", counts[i]), ratio})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Level", "Nodes", "Ratio"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}
