package kv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/sKV/cmd/util"
	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for sKV servers",
		Long:    "Runs a fixed number of operations per test against the server using several worker goroutines and reports throughput and latency percentiles.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfOps              = 10000
	perfSkip             = make([]string, 0)

	perfPercentiles = []float64{0.5, 0.9, 0.99}
)

// perfTest is a single named load test
type perfTest struct {
	name  string
	setup func(getKey func(int) string, iter func(func(string)))
	op    func(getKey func(int) string, i int) error
}

// perfResult is the outcome of a single perfTest
type perfResult struct {
	name    string
	skipped bool
	elapsed time.Duration
	timer   metrics.Timer
	errors  metrics.Counter
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Tests to skip (comma separated - e.g. put,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of worker goroutines to use for every test"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 10000, util.WrapString("Number of operations per test"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the put-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfOps = max(viper.GetInt("ops"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for sKV servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Operations per test: %d\n", perfOps)
	fmt.Println()

	fmt.Println("starting tests...")

	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)
	putAll := func(_ func(int) string, iter func(func(string))) {
		iter(func(k string) {
			if err := rpcStore.Put(k, "test"); err != nil {
				log.Printf("(setup) - error putting key: %v\n", err)
			}
		})
	}

	tests := []perfTest{
		{
			name: "put",
			op: func(getKey func(int) string, i int) error {
				return rpcStore.Put(getKey(i), "test")
			},
		},
		{
			name: "put-large",
			op: func(getKey func(int) string, i int) error {
				return rpcStore.Put(getKey(i), largeValue)
			},
		},
		{
			name:  "get",
			setup: putAll,
			op: func(getKey func(int) string, i int) error {
				_, err := rpcStore.Get(getKey(i))
				return err
			},
		},
		{
			name: "get-miss",
			op: func(_ func(int) string, i int) error {
				_, err := rpcStore.Get(fmt.Sprintf("%s/get-miss-%d", perfKeyPrefix, i%perfKeySpread))
				if errors.Is(err, store.ErrKeyNotFound) {
					return nil
				}
				if err == nil {
					return errors.New("unexpected hit")
				}
				return err
			},
		},
		{
			name:  "mixed",
			setup: putAll,
			op: func(getKey func(int) string, i int) error {
				if i%2 == 0 {
					return rpcStore.Put(getKey(i), "test")
				}
				_, err := rpcStore.Get(getKey(i))
				return err
			},
		},
	}

	registry := metrics.NewRegistry()
	results := make([]perfResult, 0, len(tests))
	for _, test := range tests {
		result := runPerfTest(registry, test)
		printResult(result)
		results = append(results, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runPerfTest executes perfOps operations of a test with perfNumThreads workers
func runPerfTest(registry metrics.Registry, test perfTest) perfResult {
	result := perfResult{
		name:    test.name,
		skipped: shouldSkip(test.name),
		timer:   metrics.GetOrRegisterTimer(test.name+".latency", registry),
		errors:  metrics.GetOrRegisterCounter(test.name+".errors", registry),
	}
	if result.skipped {
		return result
	}

	getKey, iter := getKeys(test.name)
	if test.setup != nil {
		test.setup(getKey, iter)
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < perfNumThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= perfOps {
					return
				}
				opStart := time.Now()
				err := test.op(getKey, i)
				result.timer.UpdateSince(opStart)
				if err != nil {
					result.errors.Inc(1)
					log.Printf("(%s) - error: %v\n", test.name, err)
				}
			}
		}()
	}

	wg.Wait()
	result.elapsed = time.Since(start)

	return result
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// opsPerSec returns the throughput of a finished test
func (r perfResult) opsPerSec() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.timer.Count()) / r.elapsed.Seconds()
}

// printResult prints the result of a test in a formatted way
func printResult(result perfResult) {
	if result.skipped {
		fmt.Printf("%-12sskipped\n", result.name)
		return
	}

	ps := result.timer.Percentiles(perfPercentiles)
	fmt.Printf("%-12s%8.0f ops/sec\tmean %-10s p50 %-10s p90 %-10s p99 %-10s errors %d\n",
		result.name,
		result.opsPerSec(),
		time.Duration(result.timer.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(ps[2]),
		result.errors.Count(),
	)
}

// writeResultsToCSV writes test results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Skipped", "Ops", "Errors", "OpsPerSec",
		"MeanNs", "P50Ns", "P90Ns", "P99Ns",
		"Endpoints", "TimeoutSec", "RetryCount",
		"Serializer", "Transport",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, result := range results {
		ps := result.timer.Percentiles(perfPercentiles)

		row := []string{
			result.name,
			strconv.FormatBool(result.skipped),
			strconv.FormatInt(result.timer.Count(), 10),
			strconv.FormatInt(result.errors.Count(), 10),
			fmt.Sprintf("%.0f", result.opsPerSec()),
			fmt.Sprintf("%.0f", result.timer.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.FormatInt(config.TimeoutSecond, 10),
			strconv.Itoa(config.Transport.RetryCount),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", result.name, err)
		}
	}

	return nil
}
