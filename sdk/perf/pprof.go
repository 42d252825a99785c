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
// Package perf 在模擬前後寫出 pprof 檔，供性能分析或 PGO 使用
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/edgesim/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Modes 支援的 profiling 模式（空字串代表不開啟）
var Modes = []string{"", "cpu", "heap", "allocs"}

// RunPProf 依 mode 包裹 exe 並寫出對應的 profile 至 dir（空值為 DefaultDir）。
// exe 的錯誤優先回傳。
func RunPProf(exe func() error, mode string, dir string) error {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "":
		return exe()
	case "cpu":
		return pprofCPU(exe, dir)
	case "heap":
		return afterRun(exe, dir, "heap")
	case "allocs":
		return afterRun(exe, dir, "allocs")
	default:
		return errs.Validationf("unknown pprof mode: %q (want cpu, heap or allocs)", mode)
	}
}

func create(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create profiling dir failed")
	}
	f, err := os.Create(filepath.Join(dir, name+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "create "+name+".pprof failed")
	}
	return f, nil
}

// pprofCPU 在 exe 執行期間開啟 CPU profiling
func pprofCPU(exe func() error, dir string) error {
	f, err := create(dir, "cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile failed")
	}
	runErr := exe()
	pprof.StopCPUProfile()
	return runErr
}

// afterRun 在 exe 之後寫出一次 heap（in-use）或 allocs（累積配置）快照
func afterRun(exe func() error, dir, name string) error {
	if err := exe(); err != nil {
		return err
	}
	// 盡量讓快照貼近最新狀態
	runtime.GC()

	f, err := create(dir, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if prof := pprof.Lookup(name); prof != nil {
		if err := prof.WriteTo(f, 0); err != nil {
			return errs.Wrap(err, "write "+name+" profile failed")
		}
	}
	return nil
}
