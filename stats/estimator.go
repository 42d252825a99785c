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

package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// Estimate 以「每位玩家的莊家利潤」描述整體分布
//
//   - ProfitMean / ProfitStd : 平均與樣本標準差（玩家數 < 2 時標準差為 0）
//   - ProfitP10 / ProfitMedian / ProfitP90 : 經驗分位數 + 95% 順序統計量區間
//   - ProfitableShare : 莊家在該玩家身上虧錢的比例 + Clopper–Pearson 95% 區間
type Estimate struct {
	ProfitMean      float64   `json:"ProfitMean"`
	ProfitStd       float64   `json:"ProfitStd"`
	ProfitP10       PointStat `json:"ProfitP10"`
	ProfitMedian    PointStat `json:"ProfitMedian"`
	ProfitP90       PointStat `json:"ProfitP90"`
	ProfitableShare PointStat `json:"ProfitableShare"`
}

const confidence = 0.95

// EstimateProfit 由每位玩家的 actual_profit 建立分布估計；profitable 為 actual_profit < 0 的人數
func EstimateProfit(profit []float64, profitable int) Estimate {
	n := len(profit)
	out := Estimate{}
	if n == 0 {
		return out
	}
	sorted := make([]float64, n)
	copy(sorted, profit)
	sort.Float64s(sorted)

	if n < 2 {
		out.ProfitMean = sorted[0]
	} else {
		out.ProfitMean, out.ProfitStd = stat.MeanStdDev(sorted, nil)
	}
	out.ProfitP10 = quantilePoint(sorted, 0.10)
	out.ProfitMedian = quantilePoint(sorted, 0.50)
	out.ProfitP90 = quantilePoint(sorted, 0.90)

	hat, ci := proportionCICP(profitable, n, confidence)
	out.ProfitableShare = PointStat{Hat: hat, CI: ci}
	return out
}

// quantilePoint sorted 必須已排序
func quantilePoint(sorted []float64, q float64) PointStat {
	hat := stat.Quantile(q, stat.Empirical, sorted, nil)
	lo, hi := quantileCI(sorted, q, confidence)
	return PointStat{Hat: hat, CI: CI{Lo: lo, Hi: hi}}
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 估「第 q 分位」的上下界：把順序統計量的秩視為二項 → 以 Beta 反推 p 範圍，再把 p 轉回樣本索引。
// sorted 必須已排序；樣本數 < 2 時區間退化為唯一樣本值。
func quantileCI(sorted []float64, q, confidence float64) (float64, float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	if n < 2 {
		return sorted[0], sorted[0]
	}

	alpha := 1 - confidence
	k := int(q * float64(n))
	k = max(1, min(k, n-1))

	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := int(pLo * float64(n))
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	li = max(0, min(li, n-1))
	ui = max(0, min(ui, n-1))
	return sorted[li], sorted[ui]
}
