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
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/edgesim/catalog"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/spec"
	"github.com/zintix-labs/edgesim/stats"
)

// Runtime 對外服務用的執行入口：限制同時執行的模擬數量，並套用輸入面邊界。
type Runtime struct {
	// build-time 來源（只讀引用）
	lab    *Lab
	limits spec.Limits

	// data-plane：同時執行數量的號誌
	slots chan struct{}

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

// BuildRuntime 凍結 catalog 後建立 Runtime；concurrency < 1 視為 1
func (l *Lab) BuildRuntime(concurrency int, limits spec.Limits) (*Runtime, error) {
	l.Freeze()
	if len(l.cat.Names()) == 0 {
		return nil, errs.NewFatal("no scenarios registered")
	}
	rt := &Runtime{
		lab:    l,
		limits: limits,
		slots:  make(chan struct{}, max(1, concurrency)),
		done:   make(chan struct{}),
	}
	rt.reason.Store("")
	return rt, nil
}

func (rt *Runtime) Lab() *Lab {
	return rt.lab
}

func (rt *Runtime) Limits() spec.Limits {
	return rt.limits
}

func (rt *Runtime) Concurrency() int {
	return cap(rt.slots)
}

// Scenarios 回傳情境清單
func (rt *Runtime) Scenarios() ([]catalog.Summary, error) {
	return rt.lab.Summary()
}

// Scenario 回傳具名情境的副本
func (rt *Runtime) Scenario(name string) (*spec.Scenario, error) {
	return rt.lab.Scenario(name)
}

// Run 在取得執行名額後執行一次模擬
func (rt *Runtime) Run(ctx context.Context, p spec.Params) (*stats.Report, error) {
	if err := rt.limits.Check(p); err != nil {
		return nil, err
	}
	release, err := rt.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return rt.lab.RunParams(p)
}

// Sweep 佔用一個執行名額，並以 Concurrency 個 worker 掃描 house edge
func (rt *Runtime) Sweep(ctx context.Context, base spec.Params, edges []float64) ([]*stats.Report, error) {
	ps, err := SweepParams(base, edges)
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		if err := rt.limits.Check(p); err != nil {
			return nil, err
		}
	}
	release, err := rt.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	reps, _, err := rt.lab.Sweep(ctx, base, edges, rt.Concurrency(), false)
	return reps, err
}

func (rt *Runtime) acquire(ctx context.Context) (func(), error) {
	if rt.Closed() {
		return nil, errs.NewFatal("runtime closed: " + rt.ClosedReason())
	}
	select {
	case <-ctx.Done():
		// 保留 ctx 錯誤，讓上層能區分 timeout 與 cancel
		return nil, errs.Wrap(ctx.Err(), "simulation canceled/timeout while waiting for a slot")
	case <-rt.done:
		rt.closed.Store(true)
		return nil, errs.NewFatal("runtime closed: " + rt.ClosedReason())
	case rt.slots <- struct{}{}:
		return func() { <-rt.slots }, nil
	}
}

// Close transitions the runtime into a closed state. It is safe to call multiple times.
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

// closeWithReason closes the runtime and records the reason (written once).
func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
	})
}

// Done is closed once the runtime is closed.
func (rt *Runtime) Done() <-chan struct{} {
	return rt.done
}

// Closed reports whether the runtime has been closed.
func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
