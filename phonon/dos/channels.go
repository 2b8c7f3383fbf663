package dos

import "github.com/cwbudde/algo-vecmath"

// SumChannels adds up the partial DOS rows of each group. groups holds
// zero-based channel indices; nil groups gives one group per channel.
//
// Every index is checked before anything is summed. An index outside
// [0, len(pdos)) yields an *IndexError and no result.
func SumChannels(pdos [][]float64, groups [][]int) ([][]float64, error) {
	if groups == nil {
		groups = make([][]int, len(pdos))
		for i := range groups {
			groups[i] = []int{i}
		}
	}
	for _, group := range groups {
		for _, i := range group {
			switch {
			case i < 0:
				return nil, &IndexError{Index: i + 1, NumChannels: len(pdos), Err: ErrNegativeIndex}
			case i >= len(pdos):
				return nil, &IndexError{Index: i + 1, NumChannels: len(pdos), Err: ErrIndexOutOfRange}
			}
		}
	}

	n := 0
	if len(pdos) > 0 {
		n = len(pdos[0])
	}
	out := newMatrix(len(groups), n)
	for g, group := range groups {
		for _, i := range group {
			vecmath.AddBlockInPlace(out[g], pdos[i])
		}
	}
	return out, nil
}

// SumGroupsTotal adds the group sums of SumChannels into one curve.
func SumGroupsTotal(sums [][]float64) []float64 {
	if len(sums) == 0 {
		return nil
	}
	total := make([]float64, len(sums[0]))
	for _, row := range sums {
		vecmath.AddBlockInPlace(total, row)
	}
	return total
}
