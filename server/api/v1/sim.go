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
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/edgesim"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/server/httperr"
	"github.com/zintix-labs/edgesim/stats"
)

// CSVFileName 下載 CSV 時的預設檔名
const CSVFileName = "casino_simulation_results.csv"

type SimHandler struct {
	rt      *edgesim.Runtime
	log     *slog.Logger
	timeout time.Duration
}

func NewSimHandler(rt *edgesim.Runtime, log *slog.Logger, timeout time.Duration) (*SimHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("runtime is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SimHandler{rt: rt, log: log, timeout: timeout}, nil
}

// Sim GET|POST /v1/sim：回傳 JSON 報表
func (sh *SimHandler) Sim(w http.ResponseWriter, r *http.Request) {
	rep, ok := sh.run(w, r)
	if !ok {
		return
	}
	sh.write(w, &stats.JsonReportRender{}, rep)
}

// SimCSV GET|POST /v1/sim/csv：回傳單列 CSV 附件
func (sh *SimHandler) SimCSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := sh.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+CSVFileName+`"`)
	sh.write(w, &stats.CSVReportRender{}, rep)
}

func (sh *SimHandler) run(w http.ResponseWriter, r *http.Request) (*stats.Report, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	var (
		req *SimRequestBody
		err error
	)
	if r.Method == http.MethodGet {
		req, err = parseQuery(r.URL.Query())
	} else {
		req = new(SimRequestBody)
		err = decodeJSON(w, r, req)
	}
	if err != nil {
		httperr.Errs(w, err)
		return nil, false
	}
	name, p, err := req.resolve(sh.rt)
	if err != nil {
		httperr.Errs(w, err)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), sh.timeout)
	defer cancel()
	rep, err := sh.rt.Run(ctx, p)
	if err != nil {
		// 這裡的錯誤來自 runtime，尊重錯誤分級
		err = errs.Wrap(err, "simulate err")
		httperr.Log(sh.log, "simulate failed", err)
		httperr.Errs(w, err)
		return nil, false
	}
	rep.Scenario = name
	w.Header().Set("X-Run-Id", rep.RunID)
	return rep, true
}

func (sh *SimHandler) write(w http.ResponseWriter, rd stats.ReportRender, rs ...*stats.Report) {
	w.Header().Set("Content-Type", rd.ContentType())
	if err := rd.Write(w, rs...); err != nil {
		sh.log.Error("write report failed", slog.Any("err", err))
	}
}
