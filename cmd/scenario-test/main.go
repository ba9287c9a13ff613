package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/highaltitude/cutdown/cmd/scenario-test/framework"
	"github.com/highaltitude/cutdown/cmd/scenario-test/tests"
)

const suiteName = "Cutdown Flight Controller Scenario Suite"

func main() {
	var (
		runAll     = flag.Bool("all", false, "Run all scenarios")
		category   = flag.String("category", "", "Run scenarios in a specific category")
		testName   = flag.String("test", "", "Run one scenario (e.g. \"S1\")")
		verbose    = flag.Bool("verbose", false, "Verbose output (detailed results)")
		reportType = flag.String("report", "summary", "Report type: summary, detailed, json, markdown")
		timeout    = flag.Duration("timeout", 2*time.Minute, "Timeout per scenario")
	)
	flag.Parse()

	if !*runAll && *category == "" && *testName == "" {
		fmt.Println("Error: must specify --all, --category, or --test")
		flag.Usage()
		os.Exit(1)
	}

	registry := buildTestRegistry()
	toRun := filterTests(registry, *runAll, *category, *testName)

	if len(toRun) == 0 {
		fmt.Println("No scenarios match the specified criteria")
		os.Exit(1)
	}

	report := framework.NewTestReport(suiteName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nReceived interrupt signal, stopping scenarios...")
		cancel()
	}()

	fmt.Printf("=== %s ===\n\n", suiteName)
	fmt.Printf("Running %d scenario(s)...\n\n", len(toRun))

	for i, test := range toRun {
		if ctx.Err() != nil {
			fmt.Println("Scenarios interrupted by user")
			break
		}

		fmt.Printf("[%d/%d] Running: %s...\n", i+1, len(toRun), test.Name())

		result := runTest(ctx, test, *timeout)
		report.AddResult(result)

		if result.Passed {
			fmt.Printf("  PASS (%s)\n", result.Duration)
		} else {
			fmt.Printf("  FAIL (%s)\n", result.Duration)
			if !*verbose {
				for _, assertion := range result.Assertions {
					if !assertion.Passed {
						fmt.Printf("    - %s\n", assertion.Name)
						if assertion.Message != "" {
							fmt.Printf("      %s\n", assertion.Message)
						}
					}
				}
			}
		}
		fmt.Println()
	}

	report.Finish()

	fmt.Println()
	switch *reportType {
	case "summary":
		report.PrintSummary(os.Stdout)
	case "detailed":
		report.PrintDetailed(os.Stdout)
	case "json":
		if err := report.PrintJSON(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing JSON report: %v\n", err)
			os.Exit(1)
		}
	case "markdown":
		report.PrintMarkdown(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown report type: %s\n", *reportType)
		os.Exit(1)
	}

	if report.FailedTests() > 0 {
		os.Exit(1)
	}
}

func runTest(ctx context.Context, test framework.TestCase, timeout time.Duration) *framework.TestResult {
	testCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := test.Setup(testCtx); err != nil {
		result := framework.NewTestResult(test.Name(), test.Category())
		result.AddError(fmt.Errorf("setup failed: %w", err))
		result.Finish()
		return result
	}

	defer func() {
		if err := test.Teardown(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: teardown failed for %s: %v\n", test.Name(), err)
		}
	}()

	if err := test.Run(testCtx); err != nil {
		result := framework.NewTestResult(test.Name(), test.Category())
		result.AddError(fmt.Errorf("run failed: %w", err))
		result.Finish()
		return result
	}

	return test.Validate()
}

// buildTestRegistry creates the registry of every scenario from
// spec.md section 8.
func buildTestRegistry() []framework.TestCase {
	return []framework.TestCase{
		tests.NewS1AltitudeDwell(),
		tests.NewS2LaunchPressureDrop(),
		tests.NewS3BalloonPopTermination(),
		tests.NewS4ExternalInputPreempt(),
		tests.NewS5RemoteCommand(),
		tests.NewS6SchedulerStallRecovery(),
	}
}

// filterTests filters the registry by the CLI flags.
func filterTests(registry []framework.TestCase, all bool, category, testName string) []framework.TestCase {
	if all {
		return registry
	}

	filtered := make([]framework.TestCase, 0)
	for _, test := range registry {
		if testName != "" {
			if test.Name() == testName || contains(test.Name(), testName) {
				filtered = append(filtered, test)
			}
			continue
		}
		if category != "" {
			if test.Category() == category || contains(test.Category(), category) {
				filtered = append(filtered, test)
			}
			continue
		}
	}
	return filtered
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || indexOf(s, substr) >= 0)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
