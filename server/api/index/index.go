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
// Package index 提供服務首頁：列出可用端點，也作為健康檢查使用
package index

import (
	"io"
	"net/http"
)

const page = `edgesim: casino bonus economics simulator

GET       /                 this page
GET       /v1/scenarios     list built-in scenarios and input limits
GET|POST  /v1/sim           run one simulation, JSON report
GET|POST  /v1/sim/csv       run one simulation, CSV attachment
POST      /v1/sweep         run one simulation per house edge (?format=json|yaml|csv)

query (GET):  scenario players edge loseback seed bonus=name:rate no_bonus=true
body  (POST): {"scenario","player_count","house_edge","bonuses","loseback_rate","seed"}
`

func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, page)
}
