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

import "github.com/zintix-labs/edgesim/errs"

// Limits 對外輸入面（HTTP / CLI）的邊界。模擬本身只要求 Params.Validate。
type Limits struct {
	MinPlayers   int     `json:"min_players"    yaml:"min_players"`
	MaxPlayers   int     `json:"max_players"    yaml:"max_players"`
	MinHouseEdge float64 `json:"min_house_edge" yaml:"min_house_edge"`
	MaxHouseEdge float64 `json:"max_house_edge" yaml:"max_house_edge"`
	MaxLoseback  float64 `json:"max_loseback"   yaml:"max_loseback"`
	MaxBonusRate float64 `json:"max_bonus_rate" yaml:"max_bonus_rate"`
}

// UILimits 對齊操作介面的輸入範圍
var UILimits = Limits{
	MinPlayers:   1,
	MaxPlayers:   100000,
	MinHouseEdge: 0.001,
	MaxHouseEdge: 0.1,
	MaxLoseback:  0.2,
	MaxBonusRate: 0.2,
}

// Check 先做模型定義域檢查，再套用輸入面邊界
func (l Limits) Check(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.PlayerCount < l.MinPlayers || p.PlayerCount > l.MaxPlayers {
		return errs.Validationf("player_count must be between %d and %d, got %d", l.MinPlayers, l.MaxPlayers, p.PlayerCount)
	}
	if p.HouseEdge < l.MinHouseEdge || p.HouseEdge > l.MaxHouseEdge {
		return errs.Validationf("house_edge must be between %v and %v, got %v", l.MinHouseEdge, l.MaxHouseEdge, p.HouseEdge)
	}
	if p.LosebackRate > l.MaxLoseback {
		return errs.Validationf("loseback_rate must be <= %v, got %v", l.MaxLoseback, p.LosebackRate)
	}
	for _, b := range p.Bonuses {
		if b.Rate > l.MaxBonusRate {
			return errs.Validationf("bonus %q rate must be <= %v, got %v", b.Name, l.MaxBonusRate, b.Rate)
		}
	}
	return nil
}
