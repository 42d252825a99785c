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

package spec

import (
	"math"
	"strings"

	"github.com/zintix-labs/edgesim/errs"
)

// DefaultSeed 是參考行為使用的固定種子（唯讀設定，執行期不得修改）
const DefaultSeed int64 = 42

// Bonus 固定費率的返利：每位玩家支付 wager × house_edge × Rate
type Bonus struct {
	Name string  `yaml:"name" json:"name"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// Params 單次模擬所需的全部參數（每次執行視為不可變）
//
// Bonuses 以宣告順序保存；加總順序固定，結果才能 bit-for-bit 重現。
type Params struct {
	PlayerCount  int     `yaml:"player_count"  json:"player_count"`
	HouseEdge    float64 `yaml:"house_edge"    json:"house_edge"`
	Bonuses      []Bonus `yaml:"bonuses"       json:"bonuses"`
	LosebackRate float64 `yaml:"loseback_rate" json:"loseback_rate"`
	Seed         int64   `yaml:"seed"          json:"seed"`
}

// DefaultBonuses 回傳預設的三種返利設定（每次回傳新 slice）
func DefaultBonuses() []Bonus {
	return []Bonus{
		{Name: "Weekly Bonus", Rate: 0.08},
		{Name: "Monthly Bonus", Rate: 0.05},
		{Name: "Rakeback", Rate: 0.10},
	}
}

// Default 回傳預設參數：10000 位玩家、1% house edge、2% loseback、seed 42
func Default() Params {
	return Params{
		PlayerCount:  10000,
		HouseEdge:    0.01,
		Bonuses:      DefaultBonuses(),
		LosebackRate: 0.02,
		Seed:         DefaultSeed,
	}
}

// Clone 深拷貝（Bonuses 不共用底層陣列）
func (p Params) Clone() Params {
	out := p
	if p.Bonuses != nil {
		out.Bonuses = make([]Bonus, len(p.Bonuses))
		copy(out.Bonuses, p.Bonuses)
	}
	return out
}

// SetBonus 覆寫同名返利費率，不存在則附加在最後
func (p *Params) SetBonus(name string, rate float64) {
	for i := range p.Bonuses {
		if p.Bonuses[i].Name == name {
			p.Bonuses[i].Rate = rate
			return
		}
	}
	p.Bonuses = append(p.Bonuses, Bonus{Name: name, Rate: rate})
}

// Normalize 去除 bonus 名稱前後空白（就地修改）
func (p *Params) Normalize() {
	for i := range p.Bonuses {
		p.Bonuses[i].Name = strings.TrimSpace(p.Bonuses[i].Name)
	}
}

// Validate 檢查模型本身的定義域（比 UI 邊界寬）：
//   - player_count >= 1
//   - house_edge ∈ (0,1)
//   - loseback_rate ∈ [0,1)
//   - 每個 bonus rate ∈ [0,1)，名稱非空且唯一
func (p Params) Validate() error {
	if p.PlayerCount < 1 {
		return errs.Validationf("player_count must be >= 1, got %d", p.PlayerCount)
	}
	if !finite(p.HouseEdge) || p.HouseEdge <= 0 || p.HouseEdge >= 1 {
		return errs.Validationf("house_edge must be in (0,1), got %v", p.HouseEdge)
	}
	if !finite(p.LosebackRate) || p.LosebackRate < 0 || p.LosebackRate >= 1 {
		return errs.Validationf("loseback_rate must be in [0,1), got %v", p.LosebackRate)
	}
	seen := make(map[string]struct{}, len(p.Bonuses))
	for _, b := range p.Bonuses {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return errs.Validation("bonus name required")
		}
		if _, ok := seen[name]; ok {
			return errs.Validationf("duplicate bonus name: %q", name)
		}
		seen[name] = struct{}{}
		if !finite(b.Rate) || b.Rate < 0 || b.Rate >= 1 {
			return errs.Validationf("bonus %q rate must be in [0,1), got %v", name, b.Rate)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
