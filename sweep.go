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

package edgesim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/spec"
	"github.com/zintix-labs/edgesim/stats"
)

// MaxSweepPoints 單次 sweep 的最大點數
const MaxSweepPoints = 256

type sweepJob struct {
	idx int
	p   spec.Params
}

// SweepParams 以 base 為基礎，對每個 house edge 產生一組參數（seed 相同）。
// 任一組不合法就整批回傳 validation error。
func SweepParams(base spec.Params, edges []float64) ([]spec.Params, error) {
	if len(edges) == 0 {
		return nil, errs.Validation("sweep requires at least one house edge")
	}
	if len(edges) > MaxSweepPoints {
		return nil, errs.Validationf("sweep supports at most %d points, got %d", MaxSweepPoints, len(edges))
	}
	ps := make([]spec.Params, len(edges))
	for i, e := range edges {
		p := base.Clone()
		p.HouseEdge = e
		if err := p.Validate(); err != nil {
			return nil, errs.WrapWithExtra(err, "invalid sweep point", fmt.Sprintf("index=%d house_edge=%v", i, e))
		}
		ps[i] = p
	}
	return ps, nil
}

// Sweep 在有限的 worker pool 上，對每個 house edge 各跑一次獨立模擬。
//
//   - 所有點共用 base.Seed，存款與押注倍數的抽樣完全相同，只有 house edge 不同。
//   - 全部點在任何 worker 啟動前完成驗證。
//   - 回傳結果依 edges 的輸入順序排列。
func (s *Simulator) Sweep(ctx context.Context, base spec.Params, edges []float64, workers int, showpb bool) ([]*stats.Report, time.Duration, error) {
	if workers <= 0 {
		return nil, 0, errs.Validation("workers must > 0")
	}
	ps, err := SweepParams(base, edges)
	if err != nil {
		return nil, 0, err
	}
	workers = min(workers, len(ps))

	out := make([]*stats.Report, len(ps))
	errsOut := make([]error, len(ps))
	jobs := make(chan sweepJob, len(ps))

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.StartNew(len(ps))
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					errsOut[j.idx] = errs.Wrap(err, "sweep canceled")
					bar.Increment()
					continue
				}
				out[j.idx], errsOut[j.idx] = s.Simulate(j.p)
				bar.Increment()
			}
		}()
	}
	for i, p := range ps {
		jobs <- sweepJob{idx: i, p: p}
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	for _, e := range errsOut {
		if e != nil {
			return nil, used, e
		}
	}
	s.log.Debug("sweep",
		slog.Int("points", len(ps)),
		slog.Int("workers", workers),
		slog.Any("edges", edges),
		logger.ParamsAttr(base),
		slog.Duration("used", used),
	)
	return out, used, nil
}

// Sweep 以 Lab 的模擬器執行 house edge 掃描
func (l *Lab) Sweep(ctx context.Context, base spec.Params, edges []float64, workers int, showpb bool) ([]*stats.Report, time.Duration, error) {
	return l.sim.Sweep(ctx, base, edges, workers, showpb)
}
