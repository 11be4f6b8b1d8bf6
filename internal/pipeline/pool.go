package pipeline

import (
	"context"
	"sync"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Pool fans document conversions out across a bounded set of workers.
// Workers communicate results back over a channel; the collector folds
// them into an indexed slice, so no aggregate state is shared during
// the concurrent phase.
type Pool struct {
	adapter  *Adapter
	workers  int
	onResult func(domain.DocumentResult)
}

// NewPool creates a pool running at most workers conversions at once.
func NewPool(adapter *Adapter, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		adapter: adapter,
		workers: workers,
	}
}

// OnResult registers a callback invoked from the collector goroutine as
// each result arrives. Arrival order is completion order, not selection
// order.
func (p *Pool) OnResult(fn func(domain.DocumentResult)) {
	p.onResult = fn
}

// Run converts every document and returns one result per input, placed
// by selection index. It blocks until all documents have a terminal
// outcome; a failure on one document never stops the others.
func (p *Pool) Run(ctx context.Context, docs []domain.Document) []domain.DocumentResult {
	if len(docs) == 0 {
		return []domain.DocumentResult{}
	}

	workers := p.workers
	if workers > len(docs) {
		workers = len(docs)
	}

	work := make(chan domain.Document, len(docs))
	for _, doc := range docs {
		work <- doc
	}
	close(work)

	out := make(chan domain.DocumentResult, len(docs))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range work {
				out <- p.adapter.Process(ctx, doc)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]domain.DocumentResult, len(docs))
	for res := range out {
		results[res.Document.Index] = res
		if p.onResult != nil {
			p.onResult(res)
		}
	}

	return results
}
