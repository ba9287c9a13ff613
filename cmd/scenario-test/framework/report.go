package framework

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// TestReport aggregates results from multiple scenario runs.
type TestReport struct {
	SuiteName string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Results   []*TestResult
}

// NewTestReport creates a new report, started now.
func NewTestReport(suiteName string) *TestReport {
	return &TestReport{SuiteName: suiteName, StartTime: time.Now(), Results: make([]*TestResult, 0)}
}

// AddResult appends a scenario's result.
func (r *TestReport) AddResult(result *TestResult) { r.Results = append(r.Results, result) }

// Finish stamps the report's end time and duration.
func (r *TestReport) Finish() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// TotalTests reports how many scenarios ran.
func (r *TestReport) TotalTests() int { return len(r.Results) }

// PassedTests reports how many scenarios passed.
func (r *TestReport) PassedTests() int {
	count := 0
	for _, result := range r.Results {
		if result.Passed {
			count++
		}
	}
	return count
}

// FailedTests reports how many scenarios failed.
func (r *TestReport) FailedTests() int { return r.TotalTests() - r.PassedTests() }

// PassRate returns the percentage of scenarios that passed.
func (r *TestReport) PassRate() float64 {
	if r.TotalTests() == 0 {
		return 0
	}
	return float64(r.PassedTests()) / float64(r.TotalTests()) * 100
}

// PrintSummary writes a one-line-per-scenario summary.
func (r *TestReport) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "=== %s ===\n\n", r.SuiteName)

	categories := make(map[string][]*TestResult)
	var order []string
	for _, result := range r.Results {
		if _, ok := categories[result.Category]; !ok {
			order = append(order, result.Category)
		}
		categories[result.Category] = append(categories[result.Category], result)
	}

	for _, category := range order {
		fmt.Fprintf(w, "Category: %s\n", category)
		for _, result := range categories[category] {
			status, symbol := "PASS", "PASS"
			if !result.Passed {
				status, symbol = "FAIL", "FAIL"
			}
			fmt.Fprintf(w, "  [%s] %s %s (%s)\n", status, symbol, result.TestName, result.Duration)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "=== Summary ===\n")
	fmt.Fprintf(w, "Total Tests: %d\n", r.TotalTests())
	fmt.Fprintf(w, "Passed: %d\n", r.PassedTests())
	fmt.Fprintf(w, "Failed: %d\n", r.FailedTests())
	fmt.Fprintf(w, "Pass Rate: %.1f%%\n", r.PassRate())
	fmt.Fprintf(w, "Duration: %s\n\n", r.Duration)

	if r.FailedTests() == 0 {
		fmt.Fprintf(w, "All scenarios PASSED\n")
	} else {
		fmt.Fprintf(w, "Some scenarios FAILED\n")
	}
}

// PrintDetailed writes per-assertion detail for every scenario.
func (r *TestReport) PrintDetailed(w io.Writer) {
	fmt.Fprintf(w, "=== %s - Detailed Results ===\n\n", r.SuiteName)
	for _, result := range r.Results {
		r.printTestResult(w, result)
		fmt.Fprintln(w)
	}
	r.PrintSummary(w)
}

func (r *TestReport) printTestResult(w io.Writer, result *TestResult) {
	status := "PASS"
	if !result.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(w, "[%s] %s\n", status, result.TestName)
	fmt.Fprintf(w, "Category: %s\n", result.Category)
	fmt.Fprintf(w, "Duration: %s\n\n", result.Duration)

	if len(result.Assertions) > 0 {
		fmt.Fprintf(w, "Assertions:\n")
		for i, assertion := range result.Assertions {
			mark := "ok"
			if !assertion.Passed {
				mark = "FAIL"
			}
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, mark, assertion.Name)
			if !assertion.Passed {
				fmt.Fprintf(w, "     Expected: %v\n", assertion.Expected)
				fmt.Fprintf(w, "     Actual: %v\n", assertion.Actual)
				if assertion.Message != "" {
					fmt.Fprintf(w, "     %s\n", assertion.Message)
				}
			}
		}
		fmt.Fprintln(w)
	}

	if len(result.Metrics) > 0 {
		fmt.Fprintf(w, "Metrics:\n")
		for k, v := range result.Metrics {
			fmt.Fprintf(w, "  %s: %v\n", k, v)
		}
		fmt.Fprintln(w)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "Errors:\n")
		for i, err := range result.Errors {
			fmt.Fprintf(w, "  %d. %v\n", i+1, err)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))
}

// PrintMarkdown writes the report as a GitHub-flavored markdown table.
func (r *TestReport) PrintMarkdown(w io.Writer) {
	fmt.Fprintf(w, "# %s\n\n", r.SuiteName)
	fmt.Fprintf(w, "| Test | Category | Status | Duration |\n")
	fmt.Fprintf(w, "|------|----------|--------|----------|\n")
	for _, result := range r.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n", result.TestName, result.Category, status, result.Duration)
	}
	fmt.Fprintf(w, "\n**Total:** %d, **Passed:** %d, **Failed:** %d, **Pass Rate:** %.1f%%\n",
		r.TotalTests(), r.PassedTests(), r.FailedTests(), r.PassRate())
}

// PrintJSON writes the full report as indented JSON.
func (r *TestReport) PrintJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
