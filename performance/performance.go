package performance

import (
	"context"
	"time"

	"github.com/dlshle/lrucache/logging"
)

func Measure(task func()) time.Duration {
	from := time.Now()
	task()
	return time.Since(from)
}

// MeasureWithLog logs how long task took under name.
func MeasureWithLog(logger logging.Logger, name string, task func()) time.Duration {
	elapsed := Measure(task)
	logger.Infof(context.Background(), "%s took %s", name, elapsed)
	return elapsed
}

// MeasureOps runs op n times and returns the mean duration per call.
func MeasureOps(n int, op func(i int)) time.Duration {
	if n <= 0 {
		return 0
	}
	elapsed := Measure(func() {
		for i := 0; i < n; i++ {
			op(i)
		}
	})
	return elapsed / time.Duration(n)
}
