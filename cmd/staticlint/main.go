// Command staticlint runs the project's static analysis: analyzers from the
// Go toolchain, third-party analyzers, the project's own uncheckedwrite
// analyzer and a selection of staticcheck analyzers, all through one
// multichecker.Main invocation.
//
// The staticcheck selection is read from config.json next to the binary.
// Without that file every SA analyzer is enabled.
package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/patric-chuzhbe/profiledel/cmd/staticlint/uncheckedwrite"
)

// Config is the name of the JSON file listing enabled staticcheck analyzers.
const Config = `config.json`

// ConfigData describes the configuration file, e.g. {"Staticcheck": ["SA1000", "SA4010"]}.
type ConfigData struct {
	Staticcheck []string
}

func loadConfig() (*ConfigData, error) {
	appfile, err := os.Executable()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), Config))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ConfigData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func selectStaticcheck(cfg *ConfigData) []*analysis.Analyzer {
	var enabled map[string]bool
	if cfg != nil {
		enabled = make(map[string]bool, len(cfg.Staticcheck))
		for _, name := range cfg.Staticcheck {
			enabled[name] = true
		}
	}

	var result []*analysis.Analyzer
	for _, v := range staticcheck.Analyzers {
		name := v.Analyzer.Name
		if (enabled == nil && strings.HasPrefix(name, "SA")) || enabled[name] {
			result = append(result, v.Analyzer)
		}
	}

	return result
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	checks := []*analysis.Analyzer{
		copylock.Analyzer,
		httpresponse.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		uncheckedwrite.Analyzer,
	}
	checks = append(checks, selectStaticcheck(cfg)...)

	multichecker.Main(checks...)
}
