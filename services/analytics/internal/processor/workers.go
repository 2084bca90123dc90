package processor

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"shenanigigs/services/analytics/internal/queries"
	"shenanigigs/services/analytics/internal/relations"
)

type reportTask struct {
	index  int
	report queries.Report
}

type workerManager struct {
	runner *ReportRunner
	logger *zap.Logger
}

func newWorkerManager(runner *ReportRunner, logger *zap.Logger) *workerManager {
	return &workerManager{
		runner: runner,
		logger: logger,
	}
}

// startWorkers drains taskChan into results and errs, which are indexed by
// task. The store is shared read-only between workers.
func (w *workerManager) startWorkers(ctx context.Context, numWorkers int, store *relations.Store, stats *runStats, taskChan <-chan reportTask, results []Result, errs []error) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				if err := ctx.Err(); err != nil {
					errs[task.index] = err
					continue
				}
				res, err := w.runner.runReport(ctx, store, task.report)
				if err != nil {
					w.logger.Error("Failed to run report",
						zap.String("report", string(task.report)),
						zap.Error(err))
					errs[task.index] = err
					continue
				}
				results[task.index] = res
				atomic.AddInt32(&stats.reportsCompleted, 1)
				atomic.AddInt64(&stats.rowsProduced, int64(res.RowCount()))
			}
		}()
	}
	return &wg
}

func feedReports(reports []queries.Report, taskChan chan<- reportTask) {
	for i, r := range reports {
		taskChan <- reportTask{index: i, report: r}
	}
	close(taskChan)
}
