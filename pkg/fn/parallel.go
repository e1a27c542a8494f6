package fn

import "sync"

// ParMap applies f to each item with bounded concurrency, preserving input
// order in the output regardless of completion order.
func ParMap[T, U any](items []T, workers int, f func(T) U) []U {
	out := make([]U, len(items))
	if len(items) == 0 {
		return out
	}
	if workers <= 0 {
		workers = len(items)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, v := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, v T) {
			defer func() { <-sem; wg.Done() }()
			out[i] = f(v)
		}(i, v)
	}
	wg.Wait()
	return out
}
