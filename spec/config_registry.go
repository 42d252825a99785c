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
	"bytes"
	"encoding/json"
	"strings"

	"github.com/zintix-labs/edgesim/errs"
	"gopkg.in/yaml.v3"
)

// Scenario 一份具名的模擬設定檔
//
// 設定檔中未出現的欄位沿用 Default()；bonuses 一旦出現就整份取代（`bonuses: []` 代表不發返利）。
type Scenario struct {
	Name        string `yaml:"name"        json:"name"`
	Description string `yaml:"description" json:"description"`
	Params      Params `yaml:"params"      json:"params"`
}

// GetScenarioByYAML
// 讀取 YAML 設定（嚴格欄位檢查）、補預設值並執行基本檢查後回傳。
func GetScenarioByYAML(data []byte) (*Scenario, error) {
	sc := newScenario()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 多寫/拼錯欄位就報錯
	if err := dec.Decode(sc); err != nil {
		return nil, errs.Wrap(errs.Validation(err.Error()), "failed to unmarshal scenario yaml")
	}
	if err := sc.init(); err != nil {
		return nil, errs.Wrap(err, "scenario initialized err")
	}
	return sc, nil
}

// GetScenarioByJSON
// 讀取 JSON 設定、補預設值並執行基本檢查後回傳
func GetScenarioByJSON(data []byte) (*Scenario, error) {
	sc := newScenario()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(sc); err != nil {
		return nil, errs.Wrap(errs.Validation(err.Error()), "failed to unmarshal scenario json")
	}
	if err := sc.init(); err != nil {
		return nil, errs.Wrap(err, "scenario initialized err")
	}
	return sc, nil
}

// newScenario 以預設參數為底，但 Bonuses 留 nil：
// encoding/json 會沿用既有 slice 的底層陣列，缺欄位的 bonus 會繼承同位置的預設費率。
func newScenario() *Scenario {
	sc := &Scenario{Params: Default()}
	sc.Params.Bonuses = nil
	return sc
}

func (sc *Scenario) init() error {
	// 設定檔沒寫 bonuses 才補預設；`bonuses: []` 是非 nil 的空 slice
	if sc.Params.Bonuses == nil {
		sc.Params.Bonuses = DefaultBonuses()
	}
	sc.Name = strings.ToLower(strings.TrimSpace(sc.Name))
	if sc.Name == "" {
		return errs.Validation("scenario name required")
	}
	sc.Params.Normalize()
	return sc.Params.Validate()
}
