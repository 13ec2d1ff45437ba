package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"loadvec/internal/ir"
	"loadvec/internal/irtext"
	"loadvec/internal/oracles"
	"loadvec/internal/vectorize"
)

func main() {
	commonlog.Configure(1, nil)

	if len(os.Args) < 2 {
		fmt.Println("Usage: loadvec-cli <fixture.lv>")
		os.Exit(1)
	}

	path := os.Args[1]
	mod, err := irtext.ParseFile(path)
	if err != nil {
		os.Exit(1)
	}

	if len(mod.Globals) > 0 {
		for _, g := range mod.Globals {
			fmt.Printf("global @%s : %s\n", g.Global.Name, g.Global.ElemType)
		}
		fmt.Println()
	}

	for _, fn := range mod.Functions {
		fmt.Println(ir.PrintFunction(fn))

		driver := vectorize.NewDriver(buildAnalyses(fn))
		changed, err := driver.Run(fn)
		if err != nil {
			color.Red("%s: %s", fn.Name, err)
			continue
		}

		if changed {
			fmt.Println(ir.PrintFunction(fn))
		}

		color.Green("✅ %s: %d vector instruction(s), %d scalar access(es) folded", fn.Name, driver.Counters.VectorInstructions, driver.Counters.ScalarsVectorized)
	}
}

// buildAnalyses wires together this repo's reference oracle
// implementations (internal/oracles) the same way a real embedding
// compiler would wire its own, one fresh set per function since
// dominance and SCEV are both function-scoped analyses.
func buildAnalyses(fn *ir.Function) *vectorize.Analyses {
	layout := oracles.NewSimpleDataLayout(64)
	return &vectorize.Analyses{
		Alias:  oracles.NewSimpleAliasOracle(),
		SCEV:   oracles.NewSimpleSCEV(),
		Dom:    oracles.BuildDominatorTree(fn),
		Target: oracles.NewSimpleTargetInfo(128),
		Layout: layout,
		Known:  oracles.NewSimpleKnownBits(layout),
		Object: oracles.GetUnderlyingObject,
	}
}
