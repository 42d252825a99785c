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
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// 用法：go run ./scripts <task> [args...]
func main() {
	if len(os.Args) < 2 {
		PrintYellow("Usage: go run ./scripts [test|test-all|test-detail|run|sweep|svr|pprof] [args...]")
		os.Exit(1)
	}
	os.Exit(selectTask(os.Args[1], os.Args[2:]))
}

func selectTask(task string, args []string) int {
	switch task {
	case "test":
		return runTest("./...", "-cover", "-count=1")
	case "test-all":
		return runGo("test", "./...", "-cover")
	case "test-detail":
		return runTest("./...", "-v", "-count=1")
	case "run":
		return runGo(append([]string{"run", "./cmd/run"}, args...)...)
	case "sweep":
		// 預設掃描常見的 house edge
		if len(args) == 0 {
			args = []string{"-sweep", "0.005,0.01,0.02,0.03,0.05"}
		}
		return runGo(append([]string{"run", "./cmd/run"}, args...)...)
	case "svr":
		return runGo(append([]string{"run", "./cmd/svr"}, args...)...)
	case "pprof":
		return runGo(append([]string{"run", "./cmd/run", "-p", "cpu", "-players", "200000"}, args...)...)
	default:
		PrintYellow(fmt.Sprintf("Unknown task: %s", task))
		return 1
	}
}

// runGo 直接把輸出交給終端
func runGo(args ...string) int {
	PrintBlue("go " + strings.Join(args, " "))
	cmd := exec.Command("go", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed(err.Error())
		return 1
	}
	return 0
}

// runTest 清 cache 後跑測試，濾掉沒有測試檔的套件並上色
func runTest(args ...string) int {
	PrintGreen("running tests")
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		PrintRed(err.Error())
	}

	cmd := exec.Command("go", append([]string{"test"}, args...)...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		PrintRed(err.Error())
		return 1
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		PrintRed(fmt.Sprintf("Error starting go test: %v", err))
		return 1
	}

	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "--- FAIL"):
			PrintRed(line)
		case strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}
	if err := cmd.Wait(); err != nil {
		PrintRed("\nTests Finished with Errors")
		return 1
	}
	return 0
}
