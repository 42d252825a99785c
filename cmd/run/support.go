// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/presets"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/spec"
	"github.com/zintix-labs/edgesim/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	scenario  string
	players   int
	edge      float64
	loseback  float64
	weekly    float64
	monthly   float64
	rakeback  float64
	seed      int64
	format    string
	out       string
	sweep     string
	worker    int
	verbose   bool
	pprofmode string

	set map[string]bool // 有明確指定的 flag
}

// 對應預設返利名稱的 flag
var bonusFlags = map[string]string{
	"weekly":   "Weekly Bonus",
	"monthly":  "Monthly Bonus",
	"rakeback": "Rakeback",
}

func bindVar(args []string) error {
	def := spec.Default()
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&cfg.scenario, "scenario", presets.Default, "built-in scenario name")
	fs.IntVar(&cfg.players, "players", def.PlayerCount, "number of players")
	fs.Float64Var(&cfg.edge, "edge", def.HouseEdge, "house edge, e.g. 0.01")
	fs.Float64Var(&cfg.loseback, "loseback", def.LosebackRate, "loseback rate on actual loss")
	fs.Float64Var(&cfg.weekly, "weekly", 0.08, "weekly bonus rate")
	fs.Float64Var(&cfg.monthly, "monthly", 0.05, "monthly bonus rate")
	fs.Float64Var(&cfg.rakeback, "rakeback", 0.10, "rakeback rate")
	fs.Int64Var(&cfg.seed, "seed", spec.DefaultSeed, "int64 seed for random number generator")
	fs.StringVar(&cfg.format, "format", "table", "output: table | json | yaml | csv")
	fs.StringVar(&cfg.out, "out", "", "write output to file instead of stdout")
	fs.StringVar(&cfg.sweep, "sweep", "", "comma separated house edges to sweep, e.g. 0.01,0.02,0.05")
	fs.IntVar(&cfg.worker, "worker", 4, "number of workers for -sweep")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging to stderr")
	fs.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return nil
}

// params 以情境為基底，只覆寫有明確指定的 flag
func (cfg *config) params(base spec.Params) spec.Params {
	p := base.Clone()
	if cfg.set["players"] {
		p.PlayerCount = cfg.players
	}
	if cfg.set["edge"] {
		p.HouseEdge = cfg.edge
	}
	if cfg.set["loseback"] {
		p.LosebackRate = cfg.loseback
	}
	if cfg.set["seed"] {
		p.Seed = cfg.seed
	}
	rates := map[string]float64{"weekly": cfg.weekly, "monthly": cfg.monthly, "rakeback": cfg.rakeback}
	for _, f := range []string{"weekly", "monthly", "rakeback"} {
		if cfg.set[f] {
			p.SetBonus(bonusFlags[f], rates[f])
		}
	}
	return p
}

func (cfg *config) edges() ([]float64, error) {
	if strings.TrimSpace(cfg.sweep) == "" {
		return nil, nil
	}
	parts := strings.Split(cfg.sweep, ",")
	out := make([]float64, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errs.Validationf("sweep edges must be numbers, got %q", s)
		}
		out = append(out, v)
	}
	return out, nil
}

// 這裡解析並分支要執行的模擬
func executeSimulator() error {
	return writeTo(cfg.out, runSimulation)
}

// writeTo 把輸出寫到 path（空字串為 stdout）；檔案的 Close 錯誤也要回報，寫入的內容可能還在緩衝
func writeTo(path string, emit func(w io.Writer) error) error {
	if path == "" {
		return emit(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create output file failed")
	}
	if err := emit(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, "close output file failed")
	}
	return nil
}

func runSimulation(w io.Writer) error {
	lab, err := presets.NewLab()
	if err != nil {
		return err
	}
	if cfg.verbose {
		lab.SetLogger(logger.NewDefaultLogger(logger.ModeDev))
	}
	sc, err := lab.Scenario(cfg.scenario)
	if err != nil {
		return err
	}
	p := cfg.params(sc.Params)
	edges, err := cfg.edges()
	if err != nil {
		return err
	}

	table := strings.EqualFold(cfg.format, "table")
	var rd stats.ReportRender
	if !table {
		if rd, err = stats.RenderByName(cfg.format); err != nil {
			return err
		}
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	pr := message.NewPrinter(language.English)
	showpb := table && cfg.out == ""

	if len(edges) == 0 {
		if err := spec.UILimits.Check(p); err != nil {
			return err
		}
		if table {
			pr.Fprintf(os.Stderr, "%s[SCENARIO:%s] [PLAYERS:%d] [EDGE:%v] [SEED:%d]%s\n", green, sc.Name, p.PlayerCount, p.HouseEdge, p.Seed, reset)
		}
		start := time.Now()
		rep, err := lab.RunParams(p)
		if err != nil {
			return err
		}
		rep.Scenario = sc.Name
		lab.Logger().Debug("run done", slog.String("run_id", rep.RunID))
		if table {
			rep.StdOut(w, time.Since(start))
			return nil
		}
		return rd.Write(w, rep)
	}

	for _, e := range edges {
		pt := p.Clone()
		pt.HouseEdge = e
		if err := spec.UILimits.Check(pt); err != nil {
			return err
		}
	}
	if table {
		pr.Fprintf(os.Stderr, "%s[WORKERS:%d] [SCENARIO:%s] [PLAYERS:%d] [SWEEP:%d points] [SEED:%d]%s\n", green, cfg.worker, sc.Name, p.PlayerCount, len(edges), p.Seed, reset)
	}
	reps, _, err := lab.Sweep(context.Background(), p, edges, cfg.worker, showpb)
	if err != nil {
		return err
	}
	for _, rep := range reps {
		rep.Scenario = sc.Name
	}
	if table {
		for _, rep := range reps {
			rep.StdOut(w, time.Duration(rep.UsedMs)*time.Millisecond)
		}
		return nil
	}
	// sweep 一律輸出陣列，即使只有一個點
	if rd, err = stats.ListRenderByName(cfg.format); err != nil {
		return err
	}
	return rd.Write(w, reps...)
}
