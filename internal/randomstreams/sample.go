package randomstreams

import (
	"gostreams/domain/stream"
	"gostreams/ports"
)

// sample fills one output tensor for spec, consuming gen in row-major order.
func sample(gen ports.Generator, spec stream.DrawSpec) stream.Tensor {
	out := stream.NewTensor(spec.OutputShape())

	switch spec.Dist {
	case stream.DistUniform:
		span := spec.High - spec.Low
		for i := range out.Data {
			out.Data[i] = spec.Low + span*gen.RandomSample()
		}
	case stream.DistNormal:
		for i := range out.Data {
			out.Data[i] = spec.Low + spec.High*gen.Gauss()
		}
	case stream.DistRandomIntegers:
		span := uint64(spec.IntHigh - spec.IntLow)
		for i := range out.Data {
			out.Data[i] = float64(spec.IntLow + int64(gen.Interval(span)))
		}
	case stream.DistPermutation:
		for _, row := range out.Rows() {
			permute(gen, row)
		}
	}
	return out
}

// permute writes a shuffled 0..len(row)-1 into row, walking i downward and
// swapping with a uniformly chosen j in [0, i].
func permute(gen ports.Generator, row []float64) {
	for i := range row {
		row[i] = float64(i)
	}
	for i := len(row) - 1; i > 0; i-- {
		j := int(gen.Interval(uint64(i)))
		row[i], row[j] = row[j], row[i]
	}
}
