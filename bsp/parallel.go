package bsp

// Runs the applicator on every thread shard in parallel and sums the returned
// counts. Collecting from the channel is the phase barrier: no caller code
// runs until every worker's writes are visible.
func (e *Engine[A, M]) parallelFor(applicator func(tidx int) (accumulated int)) (accumulator int) {
	res := make(chan int, e.numThreads)
	for t := 0; t < len(e.ranges); t++ {
		go func(tidx int) {
			res <- applicator(tidx)
		}(t)
	}
	for t := 0; t < len(e.ranges); t++ {
		accumulator += <-res
	}
	return accumulator
}
