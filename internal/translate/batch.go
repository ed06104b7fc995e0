package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type batchFunc func(ctx context.Context, items []TranslationItem) ([]TranslationResult, error)

func splitBatches(items []TranslationItem, size int) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}

// translateBatches splits items into batches of size and runs fn over them
// with up to concurrency workers. The first failure cancels the rest. Results
// come back sorted by item index.
func translateBatches(
	ctx context.Context,
	items []TranslationItem,
	size, concurrency int,
	fn batchFunc,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	batches := splitBatches(items, size)
	if len(batches) == 1 {
		return fn(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		Index   int
		Results []TranslationResult
		Error   error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Go(func() {
			for batchIdx := range workChan {
				if ctx.Err() != nil {
					return
				}
				results, err := fn(ctx, batches[batchIdx])
				if err != nil {
					cancel()
				}
				resultChan <- batchResult{Index: batchIdx, Results: results, Error: err}
			}
		})
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var (
		allResults []TranslationResult
		firstErr   error
	)
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", result.Index, result.Error)
			}
			continue
		}
		allResults = append(allResults, result.Results...)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(allResults) < len(items) {
		return nil, err
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})
	return allResults, nil
}
