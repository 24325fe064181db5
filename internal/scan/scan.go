package scan

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sweepscan/internal/model"
	"sweepscan/internal/provider"
	"sweepscan/internal/slogx"
)

// Job represents one scan unit (symbol + date range)
type Job struct {
	Symbol string
	From   time.Time
	To     time.Time
}

// JobResult is sent by workers for fan-in
type JobResult struct {
	Ok        bool
	Symbol    string
	DateRange string
	Reason    string
	Bars      int
	Signals   int
	KeyPrefix string
	Result    *Result
}

// Cmd triggers a scan run
type Cmd struct{}

// Done signals scan completion and carries the per-symbol results.
type Done struct {
	Results []*Result
}

// FilterSymbolsToScan returns jobs for symbols whose progress entry is
// older than the requested end date. force re-queues everything. The
// detectors need the whole window, so a stale symbol is rescanned over
// the full range rather than just the gap.
func FilterSymbolsToScan(symbols []string, progressPath string, from, to time.Time, force bool) []Job {
	m := loadProgress(progressPath)
	endDay := to.UTC().Format("2006-01-02")

	var jobs []Job
	for _, s := range symbols {
		if !force {
			if last, ok := m[s]; ok && last >= endDay {
				continue
			}
		}
		jobs = append(jobs, Job{Symbol: s, From: from, To: to})
	}
	return jobs
}

// RunOneScan runs one scan cycle and sends done with the results when
// finished. Parallel mode needs a provider with per-request keys; anything
// else goes through the sequential path.
func RunOneScan(
	dp provider.DataProvider,
	symbols []string,
	opts Options,
	reportDir, progressPath string,
	force bool,
	progressUpdates chan<- ProgressUpdate,
	done chan<- Done,
	shutdown <-chan struct{},
) {
	jobs := FilterSymbolsToScan(symbols, progressPath, opts.From, opts.To, force)
	if len(jobs) == 0 {
		slog.Info("no symbols to scan, skip")
		done <- Done{}
		return
	}

	skipped := len(symbols) - len(jobs)
	if skipped > 0 {
		slog.Info("symbols up to date, jobs to scan", "skipped", skipped, "jobs", len(jobs))
	} else {
		slog.Info("jobs to scan", "jobs", len(jobs))
	}

	runID := uuid.NewString()
	var success, failed int
	var successList []string
	var failedList []failedEntry
	var results []*Result
	defer func() {
		if len(successList) > 0 || len(failedList) > 0 {
			if err := writeRunReport(reportDir, runID, successList, failedList); err != nil {
				slog.Warn("could not write run report", "error", err)
			} else {
				slog.Info("run report saved", "run_id", runID, "success", len(successList), "failed", len(failedList))
			}
		}
	}()

	if kf, ok := dp.(provider.KeyedFetcher); ok && len(kf.Keys()) > 0 {
		success, failed, successList, failedList, results = RunParallel(dp, jobs, opts, progressUpdates, shutdown)
	} else {
		success, failed, successList, failedList, results = RunSequential(dp, jobs, opts, progressUpdates, shutdown)
	}
	slog.Info("scan done", "run_id", runID, "success", success, "failed", failed)
	done <- Done{Results: results}
}

func runJobResultCollector(
	results <-chan JobResult,
	mu *sync.Mutex,
	success, failed *int,
	barsPerSymbol, barsPerKey map[string]int,
	successList *[]string,
	failedList *[]failedEntry,
	collected *[]*Result,
) {
	for r := range results {
		mu.Lock()
		if r.Ok {
			*success++
			*successList = appendSuccess(*successList, r.Symbol)
			barsPerSymbol[r.Symbol] += r.Bars
			barsPerKey[r.KeyPrefix] += r.Bars
			if r.Result != nil {
				*collected = append(*collected, r.Result)
			}
		} else {
			*failed++
			*failedList = append(*failedList, failedEntry{Symbol: r.Symbol, DateRange: r.DateRange, Reason: r.Reason})
		}
		mu.Unlock()
	}
}

// RunParallel runs the scan with one worker per API key and a chan key pool
func RunParallel(
	dp provider.DataProvider,
	jobs []Job,
	opts Options,
	progressUpdates chan<- ProgressUpdate,
	shutdown <-chan struct{},
) (successCount, failedCount int, successList []string, failedList []failedEntry, collected []*Result) {
	kf, ok := dp.(provider.KeyedFetcher)
	if !ok {
		slog.Error("RunParallel expects a provider with key rotation", "provider", dp.GetName())
		return 0, 0, nil, nil, nil
	}
	apiKeys := kf.Keys()
	if len(apiKeys) == 0 {
		slog.Error("RunParallel: provider has no API keys")
		return 0, 0, nil, nil, nil
	}

	logs := make(chan string, 2048)
	logger := slogx.NewChanLogger(logs)
	errs := make(chan errorEntry, 64)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(logs)
	}()
	var errWg sync.WaitGroup
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		runErrorHandler(errs, logger)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, isPolygon := dp.(*provider.PolygonProvider)
	if isPolygon {
		p.SetLogFunc(func(msg string) { logger.Info(msg) })
	}
	defer func() {
		if isPolygon {
			p.SetLogFunc(nil)
		}
		close(logs)
		close(errs)
		logWg.Wait()
		errWg.Wait()
	}()

	pending := make(chan Job, len(jobs))
	for _, j := range jobs {
		pending <- j
	}
	close(pending)

	keyPool := make(chan string, len(apiKeys))
	for _, k := range apiKeys {
		keyPool <- k
	}

	results := make(chan JobResult, len(jobs)+64)
	var mu sync.Mutex
	var success, failed int
	barsPerSymbol := make(map[string]int)
	barsPerKey := make(map[string]int)
	var successListPtr []string
	var failedListPtr []failedEntry
	var collectedPtr []*Result
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		runJobResultCollector(results, &mu, &success, &failed, barsPerSymbol, barsPerKey, &successListPtr, &failedListPtr, &collectedPtr)
	}()

	go runHeartbeat(ctx, 30*time.Second, len(jobs), &mu, &success, &failed, barsPerSymbol, logger)

	var wg sync.WaitGroup
	wg.Add(len(apiKeys))
	for i := 0; i < len(apiKeys); i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-shutdown:
					return
				case job, ok := <-pending:
					if !ok {
						return
					}
					key := <-keyPool
					keyPrefix := key
					if len(key) > 8 {
						keyPrefix = key[:8]
					}
					logger.Info("key take", "symbol", job.Symbol, "key", keyPrefix)
					res, err := ProcessSymbol(job.Symbol, func(t string, from, to time.Time) ([]model.Bar, error) {
						return kf.FetchMinuteBarsWithKey(t, key, from, to)
					}, opts)
					logger.Info("key return", "symbol", job.Symbol, "key", keyPrefix)
					keyPool <- key

					lastDateStr := job.To.Format("2006-01-02")
					dateRange := job.From.Format("2006-01-02") + ".." + job.To.Format("2006-01-02")
					if err != nil {
						reason := err.Error()
						logger.Error("scan fail", "symbol", job.Symbol, "date_range", dateRange, "reason", reason)
						select {
						case errs <- errorEntry{Symbol: job.Symbol, Err: err}:
						default:
						}
						results <- JobResult{Ok: false, Symbol: job.Symbol, DateRange: dateRange, Reason: reason}
					} else if res.Bars == 0 {
						reason := "no data"
						logger.Error("scan fail", "symbol", job.Symbol, "date_range", dateRange, "reason", reason)
						results <- JobResult{Ok: false, Symbol: job.Symbol, DateRange: dateRange, Reason: reason}
					} else {
						logger.Info("scan ok", "symbol", job.Symbol, "date_range", dateRange, "bars", res.Bars, "signals", len(res.Signals))
						results <- JobResult{Ok: true, Symbol: job.Symbol, DateRange: dateRange, Bars: res.Bars, Signals: len(res.Signals), KeyPrefix: keyPrefix, Result: res}
						select {
						case progressUpdates <- ProgressUpdate{Symbol: job.Symbol, Date: lastDateStr}:
						default:
							logger.Warn("progress channel full, skip update", "symbol", job.Symbol)
						}
					}
				}
			}
		}()
	}
	wg.Wait()
	close(results)
	resWg.Wait()
	cancel()

	var totalBars, totalSignals int
	for _, n := range barsPerSymbol {
		totalBars += n
	}
	for _, r := range collectedPtr {
		totalSignals += len(r.Signals)
	}
	logger.Info("summary", "total_bars", totalBars, "signals", totalSignals, "success", success, "failed", failed)
	if len(barsPerSymbol) > 0 {
		symbols := make([]string, 0, len(barsPerSymbol))
		for s := range barsPerSymbol {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		for _, s := range symbols {
			logger.Info("summary symbol", "symbol", s, "bars", barsPerSymbol[s])
		}
	}
	if len(barsPerKey) > 0 {
		keys := make([]string, 0, len(barsPerKey))
		for k := range barsPerKey {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			logger.Info("summary key", "key", k, "bars", barsPerKey[k])
		}
	}
	if len(failedListPtr) > 0 {
		logger.Info("summary failed", "count", len(failedListPtr), "reasons", joinFailedReasons(failedListPtr))
	}

	return success, failed, successListPtr, failedListPtr, collectedPtr
}

// RunSequential processes jobs one at a time with the provider's own
// pacing. Used when the provider does not expose per-request keys.
func RunSequential(
	dp provider.DataProvider,
	jobs []Job,
	opts Options,
	progressUpdates chan<- ProgressUpdate,
	shutdown <-chan struct{},
) (successCount, failedCount int, successList []string, failedList []failedEntry, collected []*Result) {
	for i, job := range jobs {
		select {
		case <-shutdown:
			slog.Info("shutdown requested, stopping scan", "done", i, "total", len(jobs))
			return
		default:
		}

		slog.Info("scan start", "symbol", job.Symbol, "job", i+1, "total", len(jobs))
		res, err := ProcessSymbol(job.Symbol, dp.FetchMinuteBars, opts)
		dateRange := job.From.Format("2006-01-02") + ".." + job.To.Format("2006-01-02")
		if err != nil {
			failedCount++
			failedList = append(failedList, failedEntry{Symbol: job.Symbol, DateRange: dateRange, Reason: err.Error()})
			slog.Error("scan fail", "symbol", job.Symbol, "date_range", dateRange, "error", err)
			continue
		}
		if res.Bars == 0 {
			failedCount++
			failedList = append(failedList, failedEntry{Symbol: job.Symbol, DateRange: dateRange, Reason: "no data"})
			slog.Error("scan fail", "symbol", job.Symbol, "date_range", dateRange, "reason", "no data")
			continue
		}
		successCount++
		successList = appendSuccess(successList, job.Symbol)
		collected = append(collected, res)
		slog.Info("scan ok", "symbol", job.Symbol, "bars", res.Bars, "signals", len(res.Signals))
		select {
		case progressUpdates <- ProgressUpdate{Symbol: job.Symbol, Date: job.To.Format("2006-01-02")}:
		default:
		}
	}
	return
}
