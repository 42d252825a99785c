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

// Package core 提供模擬用的可重現亂數核心。
//
// 每一次模擬都由 PRNGFactory 以 seed 建出一條全新的亂數流，
// 不使用任何 process-global 的亂數產生器。
package core

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// PRNG 定義模擬所需的亂數來源。
//
// Uint64 同時滿足 math/rand/v2 的 rand.Source，
// 因此任何 PRNG 都可以直接交給 gonum distuv 當作 Src。
type PRNG interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：在同一個實作與同一個版本下，New(seed) 必須是決定性的，
	// 相同的 seed 必須產生相同的輸出序列。
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝一條 PRNG 亂數流，並建立共用這條流的分佈取樣器。
//
// 由同一個 Core 建出的取樣器依呼叫順序交錯消耗亂數，抽樣順序即為結果的一部分。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Source 回傳與 Core 共用同一條亂數流的 rand.Source。
func (c *Core) Source() rand.Source {
	return c.PRNG
}

// LogNormal 回傳 log-normal(mu, sigma) 取樣器
func (c *Core) LogNormal(mu, sigma float64) distuv.LogNormal {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: c.Source()}
}

// Normal 回傳 normal(mu, sigma) 取樣器
func (c *Core) Normal(mu, sigma float64) distuv.Normal {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: c.Source()}
}

// Categorical 回傳依權重抽索引的取樣器（權重不需正規化）
func (c *Core) Categorical(weights []float64) distuv.Categorical {
	return distuv.NewCategorical(weights, c.Source())
}
