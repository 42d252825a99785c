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

// Package edgesim 提供返利經濟模擬的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Lab 把兩個地基組裝在一起：
//  1. Catalog：情境目錄，定義有哪些具名情境，以及各自對應的設定檔名稱（ConfigName）。
//  2. PRNGFactory：亂數核心工廠，同一個 seed 必定產生同一條亂數流。
//
// 設定檔來源一律以 fs.FS 注入（go:embed 或 os.DirFS 皆可），Lab 不綁定任何檔案路徑。
//
// 使用流程分成兩階段：
//   - 註冊階段：New 建立 catalog，RegisterAll 掃描並一次性註冊所有情境。
//   - 執行階段：Freeze 後以 Run / RunParams / Sweep 執行模擬。
//
//	lab, _ := edgesim.NewAuto(core.Default(), edgesim.Configs(presets.FS))
//	rep, _ := lab.Run("default")
package edgesim

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/edgesim/catalog"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/sdk/core"
	"github.com/zintix-labs/edgesim/spec"
	"github.com/zintix-labs/edgesim/stats"
)

// Configs 把一或多個設定檔來源打包成 New() 需要的參數。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 是情境目錄與模擬器的組裝器。
//
// Catalog 的名稱唯一性只保證在同一個 Lab instance 內。
type Lab struct {
	cat *catalog.Catalog
	sim *Simulator
	log *slog.Logger
	sum []catalog.Summary
}

// New 建立一個 Lab instance（註冊階段）。
//
//   - cf 不能為 nil。
//   - cfgs 至少一個。
func New(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	sim, err := NewSimulator(cf)
	if err != nil {
		return nil, err
	}
	return &Lab{
		cat: cata,
		sim: sim,
		log: silentLogger(),
	}, nil
}

// NewAuto 建立一個直接進入執行階段的 Lab instance。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	lab, err := New(cf, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// SetLogger 設定 debug 紀錄用的 logger；nil 代表靜音。
func (l *Lab) SetLogger(log *slog.Logger) {
	if log == nil {
		log = silentLogger()
	}
	l.log = log
	l.sim.log = log
}

func (l *Lab) Logger() *slog.Logger {
	return l.log
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll
//
// 掃描所有設定檔來源，把可辨識的設定檔（.yaml/.yml/.json）解析成 *spec.Scenario，
// 並以檔內宣告的 name 批次註冊。
//
//  1. Fail-fast：任何一個檔案讀取、解析、檢查失敗就立刻回傳 error。
//  2. 原子性：全部成功後才呼叫一次 Register。
//  3. 依 fs.WalkDir 的字典序處理，行為可重現。
func (l *Lab) RegisterAll() error {
	sources := l.cat.Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 16)
	seenName := map[string]string{}

	for _, src := range sources {
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("configs must be flat (no subdir): %q", path))
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}

			raw, rerr := fs.ReadFile(src, path)
			if rerr != nil {
				return errs.Wrap(rerr, fmt.Sprintf("read config failed: %s", base))
			}
			sc, perr := catalog.ParseScenario(base, raw)
			if perr != nil {
				return errs.Wrap(perr, fmt.Sprintf("parse scenario failed: %s", base))
			}
			if prev, ok := seenName[sc.Name]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate scenario name: %s (config=%s and %s)", sc.Name, prev, base))
			}
			if _, ok := l.cat.GetByName(sc.Name); ok {
				return errs.NewFatal(fmt.Sprintf("scenario name already registered: %s (config=%s)", sc.Name, base))
			}
			seenName[sc.Name] = base

			entries = append(entries, catalog.Entry{Name: sc.Name, ConfigName: base})
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}
	if len(entries) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	return l.cat.Register(entries...)
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

// Summary 回傳所有情境的名稱、描述與參數（依名稱排序，結果會被快取）
func (l *Lab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	ents := l.cat.All()
	cs := make([]catalog.Summary, 0, len(ents))
	for _, e := range ents {
		sc, err := l.cat.ScenarioByName(e.Name)
		if err != nil {
			return nil, err
		}
		cs = append(cs, catalog.Summary{Name: sc.Name, Description: sc.Description, Params: sc.Params})
	}
	l.sum = cs
	return l.sum, nil
}

// Scenario 回傳具名情境（每次回傳新的副本，可自由修改參數）
func (l *Lab) Scenario(name string) (*spec.Scenario, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.ScenarioByName(name)
}

// Run 以具名情境執行一次模擬
func (l *Lab) Run(name string) (*stats.Report, error) {
	sc, err := l.Scenario(name)
	if err != nil {
		return nil, err
	}
	rep, err := l.sim.Simulate(sc.Params)
	if err != nil {
		return nil, err
	}
	rep.Scenario = sc.Name
	return rep, nil
}

// RunParams 以呼叫端給定的參數執行一次模擬
func (l *Lab) RunParams(p spec.Params) (*stats.Report, error) {
	return l.sim.Simulate(p)
}

func silentLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
