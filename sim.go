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
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/recorder"
	"github.com/zintix-labs/edgesim/sdk/core"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/spec"
	"github.com/zintix-labs/edgesim/stats"
)

// 玩家族群模型常數
const (
	DepositMu    = 6.0 // log-normal 存款的 μ
	DepositSigma = 1.0 // log-normal 存款的 σ
	LossSpread   = 0.5 // 實際輸額標準差 = LossSpread × expected_loss
)

// 押注倍數與對應權重（順序固定，Categorical 的索引對應 Multipliers）
var (
	Multipliers       = []float64{10, 100, 1000}
	MultiplierWeights = []float64{0.5, 0.3, 0.2}
)

// Simulator 無狀態的單次模擬器：每次 Simulate 都以 params.Seed 建出一條新的亂數流。
//
// 同一個 Simulator 可被多個 goroutine 同時使用。
type Simulator struct {
	cf  core.PRNGFactory
	log *slog.Logger
}

func NewSimulator(cf core.PRNGFactory) (*Simulator, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	return &Simulator{cf: cf, log: silentLogger()}, nil
}

// Simulate 執行一次族群模擬並回傳完整報表。
//
// 參數不合法時在抽任何亂數之前回傳 validation error。
func (s *Simulator) Simulate(p spec.Params) (*stats.Report, error) {
	start := time.Now()
	rec, err := s.Population(p)
	if err != nil {
		return nil, err
	}
	rep, err := rec.Done()
	if err != nil {
		return nil, err
	}
	rep.RunID = uuid.NewString()
	used := time.Since(start)
	rep.UsedMs = used.Milliseconds()

	s.log.Debug("simulate",
		slog.String("run_id", rep.RunID),
		logger.ParamsAttr(p),
		slog.Duration("used", used),
	)
	return rep, nil
}

// Population 抽出整個玩家族群並逐一結算，回傳尚未彙總的紀錄。
//
// 抽樣順序固定：全部存款 → 全部押注倍數 → 全部實際輸額。
func (s *Simulator) Population(p spec.Params) (*recorder.PopulationRecorder, error) {
	rec, err := recorder.NewPopulationRecorder(p)
	if err != nil {
		return nil, err
	}
	n := rec.Len()
	c := core.New(s.cf.New(p.Seed))

	deposit := c.LogNormal(DepositMu, DepositSigma)
	for i := range n {
		rec.SetDeposit(i, deposit.Rand())
	}

	mult := c.Categorical(MultiplierWeights)
	for i := range n {
		rec.SetMultiplier(i, Multipliers[int(mult.Rand())])
	}

	noise := c.Normal(0, 1)
	for i := range n {
		el := rec.ExpectedLoss[i]
		rec.Settle(i, el+(LossSpread*el)*noise.Rand())
	}
	return rec, nil
}

var defaultSimulator = &Simulator{cf: core.Default(), log: silentLogger()}

// Simulate 以預設 PRNG（PCG64）執行一次模擬，只回傳扁平的彙總紀錄
func Simulate(p spec.Params) (stats.Result, error) {
	rep, err := defaultSimulator.Simulate(p)
	if err != nil {
		return stats.Result{}, err
	}
	return rep.Result, nil
}
