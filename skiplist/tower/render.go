package tower

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/fuyu/skiplist/skiplist"
)

const sentinelCell = "H"

// grid 以第 1 層的位置為欄、以層為列 (最上層在前) 排出整個結構，
// 第 0 欄是 sentinel，tower 沒有到達的格子為空字串
func (sl *SkipList[K, V]) grid() (header []string, rows [][]string) {
	var cols []skiplist.NodeID
	for id := sl.base; id != skiplist.NilNode; id = sl.arena.at(id).next {
		cols = append(cols, id)
	}

	header = make([]string, len(cols)+1)
	header[0] = "level"
	for i := range cols {
		header[i+1] = strconv.Itoa(i)
	}

	rows = make([][]string, sl.levels)
	for r := range rows {
		rows[r] = make([]string, len(cols)+1)
		rows[r][0] = fmt.Sprintf("L%d", sl.levels-r)
	}

	for c, id := range cols {
		// 由下往上填入同一座 tower
		for r := sl.levels - 1; id != skiplist.NilNode; r-- {
			n := sl.arena.at(id)
			if n.sentinel {
				rows[r][c+1] = sentinelCell
			} else {
				rows[r][c+1] = fmt.Sprint(n.key)
			}
			id = n.up
		}
	}
	return header, rows
}

// Render 把結構以表格輸出到 w
func (sl *SkipList[K, V]) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "levels:%d length:%d\n", sl.levels, sl.length); err != nil {
		return err
	}

	header, rows := sl.grid()
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func (sl *SkipList[K, V]) String() string {
	var sb strings.Builder
	_ = sl.Render(&sb)
	return sb.String()
}
