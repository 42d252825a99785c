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
	"context"
	"net/http"

	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/server/httperr"
	"github.com/zintix-labs/edgesim/stats"
)

// Sweep POST /v1/sweep：對多個 house edge 各跑一次模擬。
//
// edges 可放在 body，或以 ?edges=0.01,0.02 指定；?format=csv|yaml 改變輸出格式（預設 json）。
func (sh *SimHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rd, err := stats.ListRenderByName(r.URL.Query().Get("format"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	req := new(SweepRequestBody)
	if err := decodeJSON(w, r, req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if s := r.URL.Query().Get("edges"); s != "" {
		if len(req.Edges) > 0 {
			httperr.Errs(w, errs.Validation("edges given in both query and body"))
			return
		}
		if req.Edges, err = parseEdges(s); err != nil {
			httperr.Errs(w, err)
			return
		}
	}
	name, base, err := req.resolve(sh.rt)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sh.timeout)
	defer cancel()
	reps, err := sh.rt.Sweep(ctx, base, req.Edges)
	if err != nil {
		err = errs.Wrap(err, "sweep err")
		httperr.Log(sh.log, "sweep failed", err)
		httperr.Errs(w, err)
		return
	}
	for _, rep := range reps {
		rep.Scenario = name
	}
	if _, ok := rd.(*stats.CSVReportRender); ok {
		w.Header().Set("Content-Disposition", `attachment; filename="`+CSVFileName+`"`)
	}
	sh.write(w, rd, reps...)
}
