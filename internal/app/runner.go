package service

import (
	"context"
	"sync"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// maxConcurrentGames bounds the worker fan-out for one batch request.
// Games are independent, so they parallelize freely; the cap just keeps a
// single request from monopolizing the process.
const maxConcurrentGames = 4

type gameResult struct {
	idx    int
	record model.GameRecord
	err    error
}

// PlayGames runs n games between the same two bots on a bounded worker
// pool and returns the stored records in request order. The first failure
// cancels the remaining games.
func (s *Service) PlayGames(ctx context.Context, userID, bot1ID, bot2ID string, n int) ([]model.GameRecord, error) {
	if n < 1 {
		n = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := maxConcurrentGames
	if n < workers {
		workers = n
	}

	jobs := make(chan int)
	results := make(chan gameResult, n)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				record, err := s.PlayGame(ctx, userID, bot1ID, bot2ID)
				results <- gameResult{idx: idx, record: record, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]model.GameRecord, n)
	var firstErr error
	done := 0
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		records[res.idx] = res.record
		done++
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return records[:done], nil
}
