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
	"strconv"

	"github.com/zintix-labs/edgesim/spec"
)

// Result 單次模擬的扁平彙總紀錄，是對外（呈現層/匯出）的唯一合約。
//
// 欄位順序即 CSV 欄位順序，請勿調整。
type Result struct {
	TotalPlayers               int     `json:"TotalPlayers"`
	TotalWager                 float64 `json:"TotalWager"`
	TotalExpectedLoss          float64 `json:"TotalExpectedLoss"`
	TotalActualLoss            float64 `json:"TotalActualLoss"`
	TotalBonusesPaid           float64 `json:"TotalBonusesPaid"`
	TotalExpectedProfit        float64 `json:"TotalExpectedProfit"`
	TotalActualProfit          float64 `json:"TotalActualProfit"`
	ExpectedRTP                float64 `json:"ExpectedRTP"`
	ActualRTP                  float64 `json:"ActualRTP"`
	ProfitablePlayers          int     `json:"ProfitablePlayers"`
	LosingPlayers              int     `json:"LosingPlayers"`
	ProfitablePlayerPercentage float64 `json:"ProfitablePlayerPercentage"`
}

var columns = []string{
	"TotalPlayers",
	"TotalWager",
	"TotalExpectedLoss",
	"TotalActualLoss",
	"TotalBonusesPaid",
	"TotalExpectedProfit",
	"TotalActualProfit",
	"ExpectedRTP",
	"ActualRTP",
	"ProfitablePlayers",
	"LosingPlayers",
	"ProfitablePlayerPercentage",
}

// Columns 回傳 CSV 標頭（新 slice）
func Columns() []string {
	return append([]string(nil), columns...)
}

// Row 以 Columns 的順序輸出欄位值；浮點數使用最短且可還原的十進位表示
func (r Result) Row() []string {
	return []string{
		strconv.Itoa(r.TotalPlayers),
		fmtFloat(r.TotalWager),
		fmtFloat(r.TotalExpectedLoss),
		fmtFloat(r.TotalActualLoss),
		fmtFloat(r.TotalBonusesPaid),
		fmtFloat(r.TotalExpectedProfit),
		fmtFloat(r.TotalActualProfit),
		fmtFloat(r.ExpectedRTP),
		fmtFloat(r.ActualRTP),
		strconv.Itoa(r.ProfitablePlayers),
		strconv.Itoa(r.LosingPlayers),
		fmtFloat(r.ProfitablePlayerPercentage),
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// BonusTotal 單一返利項目的總支出
type BonusTotal struct {
	Name string  `json:"Name"`
	Rate float64 `json:"Rate"`
	Paid float64 `json:"Paid"`
}

// Breakdown 返利支出拆解（依宣告順序）
type Breakdown struct {
	Bonuses      []BonusTotal `json:"Bonuses"`
	LosebackPaid float64      `json:"LosebackPaid"`
}

// Report 單次模擬的完整報表
type Report struct {
	RunID        string      `json:"RunID"`
	Scenario     string      `json:"Scenario,omitempty"`
	Params       spec.Params `json:"Params"`
	Result       Result      `json:"Result"`
	Breakdown    Breakdown   `json:"Breakdown"`
	Distribution Estimate    `json:"Distribution"`
	UsedMs       int64       `json:"UsedMs"`
}
