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
package api

import (
	"github.com/zintix-labs/edgesim"
	"github.com/zintix-labs/edgesim/server/api/index"
	v1 "github.com/zintix-labs/edgesim/server/api/v1"
	"github.com/zintix-labs/edgesim/server/netsvr"
	"github.com/zintix-labs/edgesim/server/netsvr/middleware"
	"github.com/zintix-labs/edgesim/server/svrcfg"
)

// RegisterRoutes 註冊 middleware、首頁與 v1 api（sCfg 需先通過 Valid）
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *edgesim.Runtime) error {
	registerMiddleware(svr, sCfg) // 1. 註冊 middleware
	registerIndex(svr)            // 2. 註冊主頁
	return registerV1API(svr, sCfg, rt)
}

// 註冊 middleware（順序即包裹順序，RequestID 在最外層）
func registerMiddleware(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	svr.Use(middleware.CORS(sCfg.CORSOrigins))
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", index.IndexHandlerFn)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *edgesim.Runtime) error {
	s, err := v1.NewSimHandler(rt, sCfg.Log, sCfg.RunTimeout)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/scenarios", s.Scenarios)

		vOne.Get("/sim", s.Sim)
		vOne.Post("/sim", s.Sim)
		vOne.Get("/sim/csv", s.SimCSV)
		vOne.Post("/sim/csv", s.SimCSV)

		vOne.Post("/sweep", s.Sweep)
	})
	return nil
}
