// inspect 把命令列上的 key=value 依序放進 skip list，再畫出每一層的結構。
//
//	inspect -seed 42 2=B 1=A 3=C 4=D 5=E 6=F
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog"

	"github.com/fuyu/skiplist/skiplist/analyTool"
	"github.com/fuyu/skiplist/skiplist/tower"
)

type pair struct {
	key, value string
}

func main() {
	var (
		seed  int64
		links bool
		get   string
	)
	klog.InitFlags(nil)
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for the promotion coin")
	flag.BoolVar(&links, "links", false, "also print the next links of every level")
	flag.StringVar(&get, "get", "", "comma list of keys to look up after inserting")
	flag.Parse()
	defer klog.Flush()

	pairs, err := parsePairs(flag.Args())
	if err != nil {
		klog.Fatalf("%v", err)
	}
	var lookups []string
	if get != "" {
		lookups = strings.Split(get, ",")
	}

	if numeric(pairs, lookups) {
		err = inspect(os.Stdout, seed, pairs, lookups, links, func(s string) int64 {
			k, _ := strconv.ParseInt(s, 10, 64)
			return k
		})
	} else {
		err = inspect(os.Stdout, seed, pairs, lookups, links, func(s string) string { return s })
	}
	if err != nil {
		klog.Fatalf("%v", err)
	}
}

func parsePairs(args []string) ([]pair, error) {
	pairs := make([]pair, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("bad argument %q, want key=value", arg)
		}
		pairs = append(pairs, pair{key: k, value: v})
	}
	return pairs, nil
}

// numeric 所有 key 都是整數時以整數排序，否則以字串排序
func numeric(pairs []pair, lookups []string) bool {
	for _, p := range pairs {
		if _, err := strconv.ParseInt(p.key, 10, 64); err != nil {
			return false
		}
	}
	for _, k := range lookups {
		if _, err := strconv.ParseInt(k, 10, 64); err != nil {
			return false
		}
	}
	return true
}

func inspect[K int64 | string](w io.Writer, seed int64, pairs []pair, lookups []string, links bool, parse func(string) K) error {
	sl := tower.New[K, string](tower.WithSeed(seed))
	for _, p := range pairs {
		if err := sl.Put(parse(p.key), p.value); err != nil {
			return errors.Wrapf(err, "put %s", p.key)
		}
		klog.V(2).Infof("put %s=%s levels=%d", p.key, p.value, sl.Levels())
	}

	if err := sl.Render(w); err != nil {
		return err
	}
	if links {
		if err := analyTool.PrintLink[K, string](w, sl, sl.Size()); err != nil {
			return err
		}
	}
	for _, k := range lookups {
		if v, ok := sl.Get(parse(k)); ok {
			fmt.Fprintf(w, "get(%s) = %s\n", k, v)
		} else {
			fmt.Fprintf(w, "get(%s) = <absent>\n", k)
		}
	}
	return analyTool.CheckStruct[K, string](sl)
}
