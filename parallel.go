package transmem

import (
	"context"
	"sync"
)

// DocumentJob is one document submission for batch translation.
type DocumentJob struct {
	Path    string
	Content string
	Pair    string
}

// DocumentResult is the outcome of one DocumentJob.
type DocumentResult struct {
	Job  DocumentJob
	Text string
	Err  error
}

// TranslateDocuments translates independent documents concurrently with at
// most workers in flight. Each document is still translated strictly in
// source order internally; only whole documents run in parallel. Version
// assignment stays safe because the store computes versions in a single
// insert statement. Results come back in job order.
func (e *Engine) TranslateDocuments(ctx context.Context, jobs []DocumentJob, workers int) []DocumentResult {
	results := make([]DocumentResult, len(jobs))
	if len(jobs) == 0 {
		return results
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	type indexed struct {
		idx int
		job DocumentJob
	}

	work := make(chan indexed)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				text, err := e.TranslateDocument(ctx, item.job.Path, item.job.Content, item.job.Pair, nil)
				results[item.idx] = DocumentResult{Job: item.job, Text: text, Err: err}
			}
		}()
	}

	for i, job := range jobs {
		work <- indexed{idx: i, job: job}
	}
	close(work)
	wg.Wait()

	return results
}
