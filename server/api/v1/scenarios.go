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
package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/edgesim/catalog"
	"github.com/zintix-labs/edgesim/server/httperr"
	"github.com/zintix-labs/edgesim/spec"
)

// Scenarios GET /v1/scenarios：列出所有內建情境與輸入邊界
func (sh *SimHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type ScenariosResponse struct {
		Scenarios []catalog.Summary `json:"scenarios"`
		Limits    spec.Limits       `json:"limits"`
	}
	sum, err := sh.rt.Scenarios()
	if err != nil {
		httperr.Log(sh.log, "list scenarios failed", err)
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ScenariosResponse{Scenarios: sum, Limits: sh.rt.Limits()}); err != nil {
		httperr.Log(sh.log, "write scenarios failed", err)
	}
}
