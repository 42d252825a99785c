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

package core

import (
	"math/rand/v2"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Float64() != c2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := Default().New(42)
	b := Default().New(43)
	if a.Uint64() == b.Uint64() {
		t.Fatalf("adjacent seeds produced identical streams")
	}
}

func TestSourceSharesStream(t *testing.T) {
	c1 := New(Default().New(5))
	c2 := New(Default().New(5))
	r := rand.New(c1.Source())
	if r.Uint64() != c2.Uint64() {
		t.Fatalf("Source should read from the core stream")
	}
	if c1.IntN(0) != -1 {
		t.Fatalf("IntN(0) should be -1")
	}
	for i := 0; i < 100; i++ {
		f := c1.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

func TestSamplersShareStream(t *testing.T) {
	c1 := New(Default().New(9))
	c2 := New(Default().New(9))

	// 交錯使用不同取樣器時，兩條相同 seed 的流仍須逐一對齊
	ln1, ln2 := c1.LogNormal(6, 1), c2.LogNormal(6, 1)
	cat1, cat2 := c1.Categorical([]float64{0.5, 0.3, 0.2}), c2.Categorical([]float64{0.5, 0.3, 0.2})
	n1, n2 := c1.Normal(0, 1), c2.Normal(0, 1)
	for i := 0; i < 20; i++ {
		if ln1.Rand() != ln2.Rand() || cat1.Rand() != cat2.Rand() || n1.Rand() != n2.Rand() {
			t.Fatalf("samplers diverged at %d", i)
		}
	}

	cat := New(Default().New(1)).Categorical([]float64{0, 1, 0})
	for i := 0; i < 10; i++ {
		if v := cat.Rand(); v != 1 {
			t.Fatalf("categorical with a single positive weight returned %v", v)
		}
	}
	if v := New(Default().New(2)).LogNormal(6, 1).Rand(); v <= 0 {
		t.Fatalf("log-normal draw must be positive, got %v", v)
	}
}
