package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"k8s.io/klog"

	"github.com/fuyu/skiplist/datastream"
	"github.com/fuyu/skiplist/skiplist/analyTool"
	"github.com/fuyu/skiplist/skiplist/tower"
)

type benchConfig struct {
	n        int
	a, b     float64
	k        int
	dist     string
	seed     int64
	runs     int
	putRatio float64
	probs    []float64
	render   bool
}

func main() {
	var cfg benchConfig
	var probs string

	klog.InitFlags(nil)
	flag.IntVar(&cfg.n, "n", 10000, "number of distinct keys")
	flag.Float64Var(&cfg.a, "a", 1.07, "Zipf parameter a")
	flag.Float64Var(&cfg.b, "b", 0.0, "Zipf parameter b")
	flag.IntVar(&cfg.k, "k", 100000, "number of operations to generate")
	flag.StringVar(&cfg.dist, "dist", "zipf", "key distribution: zipf or uniform")
	flag.Int64Var(&cfg.seed, "seed", time.Now().UnixNano(), "seed for generators and skip lists")
	flag.IntVar(&cfg.runs, "runs", 5, "how many times to repeat each benchmark")
	flag.Float64Var(&cfg.putRatio, "putRatio", 0.1, "ratio of update puts after a key was first inserted")
	flag.StringVar(&probs, "p", "0.5", "comma list of promotion probabilities to compare")
	flag.BoolVar(&cfg.render, "render", false, "render the level grid of the last run (small -n only)")
	flag.Parse()
	defer klog.Flush()

	if cfg.n <= 0 || cfg.k < 0 || cfg.runs <= 0 {
		klog.Fatalf("invalid -n, -k or -runs: n=%d k=%d runs=%d", cfg.n, cfg.k, cfg.runs)
	}
	var err error
	if cfg.probs, err = parseProbs(probs); err != nil {
		klog.Fatalf("parse -p: %v", err)
	}

	src, err := newStream(cfg)
	if err != nil {
		klog.Fatalf("%v", err)
	}
	ops, err := datastream.GenerateWorkload(src, cfg.k, cfg.putRatio, cfg.seed)
	if err != nil {
		klog.Fatalf("generate workload: %v", err)
	}
	klog.Infof("dist=%s n=%d ops=%d entropy=%.6f", cfg.dist, cfg.n, len(ops), src.Entropy())
	fmt.Println(strings.Repeat("=", 80))

	model := datastream.NewSequenceModelFromOps(ops)
	rows := make([][]string, 0, len(cfg.probs))
	var last *tower.SkipList[int64, float64]
	for _, p := range cfg.probs {
		klog.Infof("benchmarking p=%.3f...", p)
		stats, sl := benchmarkProb(cfg, p, model, src.GetKeyMap())
		last = sl
		rows = append(rows, []string{
			fmt.Sprintf("%.3f", p),
			fmt.Sprintf("%d", cfg.runs),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%.3f", stats.minMs),
			fmt.Sprintf("%.3f", stats.maxMs),
			fmt.Sprintf("%.2f", float64(model.Len())/(stats.avgMs/1000.0)),
			fmt.Sprintf("%.2f", stats.avgLevels),
			fmt.Sprintf("%.6f", stats.avgSteps),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"P", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "Levels", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	if last == nil {
		return
	}
	fmt.Println()
	analyTool.LevelTable[int64, float64](os.Stdout, last)
	if cfg.render {
		if last.Size() > 64 {
			klog.Warningf("skip rendering %d keys, use -n <= 64", last.Size())
			return
		}
		if err := last.Render(os.Stdout); err != nil {
			klog.Errorf("render: %v", err)
		}
	}
}

func newStream(cfg benchConfig) (datastream.DataStream, error) {
	switch cfg.dist {
	case "zipf":
		return datastream.NewZipfDataGenerator(cfg.n, cfg.a, cfg.b, cfg.seed), nil
	case "uniform":
		return datastream.NewUniformDataGenerator(cfg.n, cfg.seed), nil
	default:
		return nil, errors.Errorf("unknown -dist: %s", cfg.dist)
	}
}

func parseProbs(s string) ([]float64, error) {
	var out []float64
	seen := map[float64]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var p float64
		if _, err := fmt.Sscanf(part, "%g", &p); err != nil {
			return nil, errors.Wrapf(err, "bad probability %q", part)
		}
		if !(p > 0 && p < 1) {
			return nil, errors.Errorf("probability %g out of (0, 1)", p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no probability given")
	}
	return out, nil
}

type benchStats struct {
	avgMs     float64
	minMs     float64
	maxMs     float64
	avgLevels float64
	avgSteps  float64 // 只取最後一輪
}

// benchmarkProb 以同一份操作序列重播 cfg.runs 次，每次都用新的 skip list
func benchmarkProb(cfg benchConfig, p float64, model *datastream.SequenceModel, dist map[int64]float64) (benchStats, *tower.SkipList[int64, float64]) {
	durations := make([]float64, 0, cfg.runs)
	levels := 0
	var sl *tower.SkipList[int64, float64]
	for i := 0; i < cfg.runs; i++ {
		sl = tower.New[int64, float64](
			tower.WithSeed(cfg.seed+int64(i)),
			tower.WithProbability(p),
			tower.WithCapacity(2*cfg.n),
		)
		elapsed := runOpsAndTime(sl, model, dist)
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
		levels += sl.Levels()
		klog.V(2).Infof("p=%.3f run=%d elapsed=%s levels=%d size=%d", p, i, elapsed, sl.Levels(), sl.Size())

		if err := analyTool.CheckStruct[int64, float64](sl); err != nil {
			klog.Fatalf("p=%.3f run=%d: %v", p, i, err)
		}
	}
	sort.Float64s(durations)
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	return benchStats{
		avgMs:     sum / float64(len(durations)),
		minMs:     durations[0],
		maxMs:     durations[len(durations)-1],
		avgLevels: float64(levels) / float64(cfg.runs),
		avgSteps:  analyTool.AnalyzeStep[int64, float64](sl, dist),
	}, sl
}

func runOpsAndTime(sl *tower.SkipList[int64, float64], model *datastream.SequenceModel, dist map[int64]float64) time.Duration {
	model.Reset()
	start := time.Now()
	for op, ok := model.Next(); ok; op, ok = model.Next() {
		switch op.Type {
		case datastream.OpGet:
			sl.Get(op.Key)
		case datastream.OpPut:
			if err := sl.Put(op.Key, dist[op.Key]); err != nil {
				klog.Errorf("put %d: %v", op.Key, err)
			}
		}
	}
	return time.Since(start)
}
