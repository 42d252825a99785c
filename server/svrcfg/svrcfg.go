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
package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/edgesim"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/spec"
)

const (
	DefaultAddr        = ":5808"
	DefaultConcurrency = 4
	DefaultRunTimeout  = 30 * time.Second
)

// SvrCfg 服務組裝所需的全部依賴；零值欄位由 Valid 補上預設值
type SvrCfg struct {
	Log         *slog.Logger
	Addr        string
	Concurrency int           // 同時執行的模擬數量
	RunTimeout  time.Duration // 單一請求的模擬逾時
	// 優雅關閉的期限；零值為 RunTimeout，讓進行中的模擬有機會跑完
	ShutdownTimeout time.Duration
	CORSOrigins []string      // 允許的跨域來源；空值代表允許全部
	Limits      *spec.Limits  // nil 代表 spec.UILimits
	Lab         *edgesim.Lab
}

func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.Concurrency <= 0 {
		sc.Concurrency = DefaultConcurrency
	}
	// 1 <= Concurrency <= 32
	sc.Concurrency = min(32, sc.Concurrency)
	if sc.RunTimeout <= 0 {
		sc.RunTimeout = DefaultRunTimeout
	}
	if sc.ShutdownTimeout <= 0 {
		sc.ShutdownTimeout = sc.RunTimeout
	}
	if sc.Limits == nil {
		l := spec.UILimits
		sc.Limits = &l
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}

// BuildRuntime 以設定建立對外服務用的 Runtime（需先通過 Valid）
func (sc *SvrCfg) BuildRuntime() (*edgesim.Runtime, error) {
	if err := sc.Valid(); err != nil {
		return nil, err
	}
	sc.Lab.SetLogger(sc.Log)
	return sc.Lab.BuildRuntime(sc.Concurrency, *sc.Limits)
}
