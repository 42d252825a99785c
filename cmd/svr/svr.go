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
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zintix-labs/edgesim/presets"
	"github.com/zintix-labs/edgesim/server"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/server/svrcfg"
)

// Simulation server entrypoint. Serves the built-in scenarios on /v1.
func main() {
	cfg, err := loadConfigFromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := server.Run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type config struct {
	Addr        string
	LogMode     string
	Concurrency int
	Timeout     time.Duration
	Origins     string
}

func loadConfigFromFlags(args []string) (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	fs := flag.NewFlagSet("svr", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	fs.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	fs.IntVar(&cfg.Concurrency, "concurrency", svrcfg.DefaultConcurrency, "max simulations running at once")
	fs.DurationVar(&cfg.Timeout, "timeout", svrcfg.DefaultRunTimeout, "per request simulation timeout")
	fs.StringVar(&cfg.Origins, "cors", "", "comma separated allowed origins (empty allows all)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	sCfg, err := presets.NewServerConfig(mode)
	if err != nil {
		return nil, err
	}
	sCfg.Addr = cfg.Addr
	sCfg.Concurrency = cfg.Concurrency
	sCfg.RunTimeout = cfg.Timeout
	for _, o := range strings.Split(cfg.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			sCfg.CORSOrigins = append(sCfg.CORSOrigins, o)
		}
	}
	return sCfg, nil
}
