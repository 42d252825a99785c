package server

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/edgesim"
	"github.com/zintix-labs/edgesim/presets/configs"
	"github.com/zintix-labs/edgesim/sdk/core"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/server/netsvr"
	"github.com/zintix-labs/edgesim/server/svrcfg"
)

func TestBuildRegistersRoutes(t *testing.T) {
	lab, err := edgesim.NewAuto(core.Default(), edgesim.Configs(configs.FS))
	if err != nil {
		t.Fatalf("lab: %v", err)
	}
	sCfg := &svrcfg.SvrCfg{Lab: lab, Log: logger.NewDefaultLogger(logger.ModeSilence), RunTimeout: 2 * time.Second}
	svr := netsvr.NewChiServer(":0")
	if _, err := Build(sCfg, svr); err != nil {
		t.Fatalf("build: %v", err)
	}
	if svr.Address() != ":0" {
		t.Fatalf("address got %q", svr.Address())
	}
	routes := strings.Join(svr.Routes(), "\n")
	for _, want := range []string{"GET /v1/scenarios", "POST /v1/sim", "GET /v1/sim/csv", "POST /v1/sweep"} {
		if !strings.Contains(routes, want) {
			t.Fatalf("missing route %q in:\n%s", want, routes)
		}
	}
	if sCfg.ShutdownTimeout != 2*time.Second {
		t.Fatalf("shutdown timeout should follow the run timeout, got %v", sCfg.ShutdownTimeout)
	}

	if _, err := Build(sCfg, nil); err == nil {
		t.Fatalf("nil server should fail")
	}
}

func TestFlushLogDrainsAsyncLogger(t *testing.T) {
	var buf bytes.Buffer
	ah := logger.NewAsyncHandler(slog.NewJSONHandler(&buf, nil), 16)
	log := slog.New(ah)
	log.Info("shutdown")
	flushLog(log)
	if !strings.Contains(buf.String(), "shutdown") && ah.Dropped() == 0 {
		t.Fatalf("record neither written nor counted as dropped")
	}
	log.Info("late")
	if ah.Dropped() == 0 {
		t.Fatalf("records after flush should be dropped")
	}

	// 非 async logger 不需處理
	flushLog(logger.NewDefaultLogger(logger.ModeSilence))
}
