package utils

import (
	"sync/atomic"
)

//go:nosplit
func AtomicMinUint32(targetVal *uint32, new uint32) (old uint32) {
	for {
		old = atomic.LoadUint32(targetVal)
		if new >= old || atomic.CompareAndSwapUint32(targetVal, old, new) {
			return old
		}
	}
}
