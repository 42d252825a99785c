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

package recorder

import (
	"math"

	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/spec"
	"github.com/zintix-labs/edgesim/stats"
	"gonum.org/v1/gonum/floats"
)

// PopulationRecorder 玩家族群紀錄員
//
// 以 struct-of-arrays 保存一次模擬中每位玩家的資料，並透過 Done 彙總成報表。
// 只屬於單一次執行，不可跨執行共用。
type PopulationRecorder struct {
	params spec.Params

	Deposit        []float64
	Multiplier     []float64
	Wager          []float64
	ExpectedLoss   []float64
	ActualLoss     []float64
	FixedBonus     []float64
	PerBonus       [][]float64 // 依 Params.Bonuses 宣告順序
	Loseback       []float64
	BonusPaid      []float64
	ActualProfit   []float64
	ExpectedProfit []float64
}

func NewPopulationRecorder(p spec.Params) (*PopulationRecorder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.PlayerCount
	r := &PopulationRecorder{
		params:         p.Clone(),
		Deposit:        make([]float64, n),
		Multiplier:     make([]float64, n),
		Wager:          make([]float64, n),
		ExpectedLoss:   make([]float64, n),
		ActualLoss:     make([]float64, n),
		FixedBonus:     make([]float64, n),
		PerBonus:       make([][]float64, len(p.Bonuses)),
		Loseback:       make([]float64, n),
		BonusPaid:      make([]float64, n),
		ActualProfit:   make([]float64, n),
		ExpectedProfit: make([]float64, n),
	}
	for j := range r.PerBonus {
		r.PerBonus[j] = make([]float64, n)
	}
	return r, nil
}

func (r *PopulationRecorder) Len() int {
	return len(r.Deposit)
}

// SetDeposit 紀錄第 i 位玩家的存款
func (r *PopulationRecorder) SetDeposit(i int, d float64) {
	r.Deposit[i] = d
}

// SetMultiplier 紀錄押注倍數，並導出 wager 與 expected_loss（需先 SetDeposit）
func (r *PopulationRecorder) SetMultiplier(i int, m float64) {
	r.Multiplier[i] = m
	r.Wager[i] = r.Deposit[i] * m
	r.ExpectedLoss[i] = r.Wager[i] * r.params.HouseEdge
}

// Settle 以抽出的實際輸額結算第 i 位玩家；負值視為 0
func (r *PopulationRecorder) Settle(i int, drawnLoss float64) {
	loss := math.Max(drawnLoss, 0)
	r.ActualLoss[i] = loss

	w := r.Wager[i]
	edge := r.params.HouseEdge
	fixed := 0.0
	for j, b := range r.params.Bonuses {
		paid := w * edge * b.Rate
		r.PerBonus[j][i] = paid
		fixed += paid
	}
	r.FixedBonus[i] = fixed
	r.Loseback[i] = loss * r.params.LosebackRate
	r.BonusPaid[i] = fixed + r.Loseback[i]
	r.ActualProfit[i] = loss - r.BonusPaid[i]
	// expected profit 不扣 loseback
	r.ExpectedProfit[i] = r.ExpectedLoss[i] - fixed
}

// Done 彙總並輸出報表（RunID / Scenario / UsedMs 由呼叫端填入）
func (r *PopulationRecorder) Done() (*stats.Report, error) {
	n := r.Len()
	totalWager := floats.Sum(r.Wager)
	if !finite(totalWager) || totalWager <= 0 {
		return nil, errs.Computation("total wager must be finite and > 0")
	}
	totalProfit := floats.Sum(r.ActualProfit)

	profitable := 0
	for _, v := range r.ActualProfit {
		if v < 0 {
			profitable++
		}
	}

	res := stats.Result{
		TotalPlayers:               n,
		TotalWager:                 totalWager,
		TotalExpectedLoss:          floats.Sum(r.ExpectedLoss),
		TotalActualLoss:            floats.Sum(r.ActualLoss),
		TotalBonusesPaid:           floats.Sum(r.BonusPaid),
		TotalExpectedProfit:        floats.Sum(r.ExpectedProfit),
		TotalActualProfit:          totalProfit,
		ExpectedRTP:                1 - r.params.HouseEdge,
		ActualRTP:                  1 - totalProfit/totalWager,
		ProfitablePlayers:          profitable,
		LosingPlayers:              n - profitable,
		ProfitablePlayerPercentage: (float64(profitable) / float64(n)) * 100,
	}
	if !finite(res.ActualRTP) {
		return nil, errs.Computation("actual rtp is not finite")
	}

	bd := stats.Breakdown{
		Bonuses:      make([]stats.BonusTotal, len(r.params.Bonuses)),
		LosebackPaid: floats.Sum(r.Loseback),
	}
	for j, b := range r.params.Bonuses {
		bd.Bonuses[j] = stats.BonusTotal{Name: b.Name, Rate: b.Rate, Paid: floats.Sum(r.PerBonus[j])}
	}

	return &stats.Report{
		Params:       r.params.Clone(),
		Result:       res,
		Breakdown:    bd,
		Distribution: stats.EstimateProfit(r.ActualProfit, profitable),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
