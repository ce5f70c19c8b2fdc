package parbench

import (
	"context"

	"github.com/tymbaca/parbench-go/pkg/caller"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

// Partition splits data into k contiguous segments whose sizes differ by
// at most one: the first n%k segments get the extra element. Segments
// are subslices of data, laid out with no gaps or overlaps, so
// concatenating them in order reproduces data exactly. k larger than
// len(data) is legal and yields empty trailing segments.
func Partition(ctx context.Context, data []int64, k int) ([][]int64, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	if k < 1 {
		return nil, ErrInvalidWorkers
	}

	n := len(data)
	base := n / k
	rem := n % k

	segments := make([][]int64, 0, k)
	idx := 0
	for i := range k {
		size := base
		if i < rem {
			size++
		}
		segments = append(segments, data[idx:idx+size])
		idx += size
	}

	return segments, nil
}
