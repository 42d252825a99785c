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
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/spec"
)

const maxBodyBytes = 1 << 20

// SimRequestBody 模擬請求：scenario 指定基底情境（空值為預設參數），其餘欄位有給才覆寫
type SimRequestBody struct {
	Scenario     string        `json:"scenario,omitempty"`
	PlayerCount  *int          `json:"player_count,omitempty"`
	HouseEdge    *float64      `json:"house_edge,omitempty"`
	Bonuses      *[]spec.Bonus `json:"bonuses,omitempty"`
	LosebackRate *float64      `json:"loseback_rate,omitempty"`
	Seed         *int64        `json:"seed,omitempty"`
}

// SweepRequestBody sweep 請求：在 SimRequestBody 之上列出要掃描的 house edge
type SweepRequestBody struct {
	SimRequestBody
	Edges []float64 `json:"edges"`
}

// scenarioSource 提供具名情境（由 edgesim.Runtime 實作）
type scenarioSource interface {
	Scenario(name string) (*spec.Scenario, error)
}

// resolve 合併基底情境與覆寫欄位，回傳情境名稱與最終參數
func (b *SimRequestBody) resolve(src scenarioSource) (string, spec.Params, error) {
	p := spec.Default()
	name := strings.TrimSpace(b.Scenario)
	if name != "" {
		sc, err := src.Scenario(name)
		if err != nil {
			return "", spec.Params{}, err
		}
		name = sc.Name
		p = sc.Params.Clone()
	}
	if b.PlayerCount != nil {
		p.PlayerCount = *b.PlayerCount
	}
	if b.HouseEdge != nil {
		p.HouseEdge = *b.HouseEdge
	}
	if b.Bonuses != nil {
		p.Bonuses = append([]spec.Bonus{}, (*b.Bonuses)...)
	}
	if b.LosebackRate != nil {
		p.LosebackRate = *b.LosebackRate
	}
	if b.Seed != nil {
		p.Seed = *b.Seed
	}
	p.Normalize()
	return name, p, nil
}

// decodeJSON 嚴格解析 JSON body（拒絕未知欄位與多餘內容）；空 body 視為全部沿用預設
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return errs.Validationf("invalid json: %v", err)
	}
	if dec.More() {
		return errs.Validation("invalid json: trailing data")
	}
	return nil
}

// parseQuery 由 query string 組出請求；bonus 可重複，格式為 "name:rate"，no_bonus=true 代表清空返利
func parseQuery(q url.Values) (*SimRequestBody, error) {
	req := new(SimRequestBody)
	req.Scenario = q.Get("scenario")

	if s := q.Get("players"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, errs.Validation("players must be integer")
		}
		req.PlayerCount = &v
	}
	if s := q.Get("edge"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errs.Validation("edge must be a number")
		}
		req.HouseEdge = &v
	}
	if s := q.Get("loseback"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errs.Validation("loseback must be a number")
		}
		req.LosebackRate = &v
	}
	if s := q.Get("seed"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errs.Validation("seed must be int64")
		}
		req.Seed = &v
	}

	noBonus := false
	if s := q.Get("no_bonus"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errs.Validation("no_bonus must be a boolean")
		}
		noBonus = v
	}
	raw := q["bonus"]
	if noBonus && len(raw) > 0 {
		return nil, errs.Validation("no_bonus and bonus are mutually exclusive")
	}
	if noBonus {
		empty := []spec.Bonus{}
		req.Bonuses = &empty
	}
	if len(raw) > 0 {
		bs := make([]spec.Bonus, 0, len(raw))
		for _, item := range raw {
			i := strings.LastIndex(item, ":")
			if i <= 0 {
				return nil, errs.Validationf("bonus must be name:rate, got %q", item)
			}
			rate, err := strconv.ParseFloat(strings.TrimSpace(item[i+1:]), 64)
			if err != nil {
				return nil, errs.Validationf("bonus rate must be a number, got %q", item)
			}
			bs = append(bs, spec.Bonus{Name: strings.TrimSpace(item[:i]), Rate: rate})
		}
		req.Bonuses = &bs
	}
	return req, nil
}

// parseEdges 解析逗號分隔的 house edge 清單
func parseEdges(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errs.Validationf("edges must be numbers, got %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
