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
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/edgesim"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/server/api"
	"github.com/zintix-labs/edgesim/server/app"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/server/netsvr"
	"github.com/zintix-labs/edgesim/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口：
//  1. 驗證 SvrCfg 並建立 Runtime。
//  2. 建立 HTTP server（netsvr）。
//  3. 註冊路由與 middleware。
//  4. 啟動 app.Run() 直到收到終止信號。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		// 外層傳入的 logger 可能不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run() 相同，但允許呼叫端注入自訂的 NetSvr。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	a, err := Build(sCfg, svr)
	if err != nil {
		return err
	}
	sCfg.Log.Info("[edgesim] listening",
		slog.String("addr", svr.Address()),
		slog.Any("routes", svr.Routes()),
		slog.Int("concurrency", sCfg.Concurrency),
	)
	err = a.Run()
	if err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
	flushLog(sCfg.Log)
	return err
}

// flushLog 關閉非同步 logger 並寫完佇列；有丟棄時直接寫 stderr，因為 logger 已關閉
func flushLog(log *slog.Logger) {
	ah, ok := log.Handler().(*logger.AsyncHandler)
	if !ok {
		return
	}
	ah.Close()
	if n := ah.Dropped(); n > 0 {
		fmt.Fprintf(os.Stderr, "[edgesim] %d log records dropped (buffer full)\n", n)
	}
}

// Build 組裝但不啟動：回傳已註冊 server 與 runtime 的 App
func Build(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) (*app.App, error) {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return nil, err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return nil, err
	}
	rt, err := sCfg.BuildRuntime()
	if err != nil {
		return nil, err
	}
	if err := api.RegisterRoutes(svr, sCfg, rt); err != nil {
		return nil, err
	}
	a := app.NewWith(runtimeComponent{rt: rt}, svr)
	a.SetLogger(sCfg.Log)
	a.SetShutdownTimeout(sCfg.ShutdownTimeout)
	return a, nil
}

// runtimeComponent 讓 Runtime 參與 App 的生命週期：server 先關，runtime 後關
type runtimeComponent struct {
	rt *edgesim.Runtime
}

func (c runtimeComponent) Run() error {
	<-c.rt.Done()
	return nil
}

func (c runtimeComponent) Shutdown(ctx context.Context) error {
	c.rt.Close()
	return nil
}
