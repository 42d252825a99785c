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
// Package presets 提供內建情境與預先組裝好的 Lab / 服務設定
package presets

import (
	"github.com/zintix-labs/edgesim"
	"github.com/zintix-labs/edgesim/catalog"
	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/presets/configs"
	"github.com/zintix-labs/edgesim/sdk/core"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/server/svrcfg"
)

// Default 內建的預設情境名稱
const Default = "default"

func New() (*catalog.Catalog, error) {
	return catalog.New(configs.FS)
}

// NewLab 以內建情境組裝並凍結一個 Lab
func NewLab() (*edgesim.Lab, error) {
	return edgesim.NewAuto(core.Default(), edgesim.Configs(configs.FS))
}

// NewServerConfig 以內建情境與非同步 logger 組出服務設定
func NewServerConfig(mode logger.LogMode) (*svrcfg.SvrCfg, error) {
	lab, err := NewLab()
	if err != nil {
		return nil, errs.Wrap(err, "new lab failed")
	}
	return &svrcfg.SvrCfg{
		Log: logger.NewDefaultAsyncLogger(mode),
		Lab: lab,
	}, nil
}
