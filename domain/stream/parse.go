package stream

import (
	"fmt"
	"strconv"
	"strings"

	"gostreams/domain/core"
)

// ParseShape reads "2x3" (or "2,3") into a validated Shape.
func ParseShape(s string) (Shape, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == ',' })
	shape := make(Shape, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, core.NewShapeError(shape, fmt.Sprintf("bad dimension %q", f))
		}
		shape = append(shape, d)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return shape, nil
}

// ParseDrawSpec reads the command-line form of a draw:
//
//	uniform:SHAPE[:LOW:HIGH]
//	normal:SHAPE[:AVG:STD]
//	random_integers:SHAPE:LOW:HIGH
//	permutation:SHAPE:N
func ParseDrawSpec(s string) (DrawSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return DrawSpec{}, fmt.Errorf("%w: draw %q needs at least dist:shape", core.ErrInvalidBounds, s)
	}
	shape, err := ParseShape(parts[1])
	if err != nil {
		return DrawSpec{}, err
	}
	args := parts[2:]
	spec := DrawSpec{Dist: Distribution(parts[0]), Shape: shape}

	switch spec.Dist {
	case DistUniform, DistNormal:
		spec.Low, spec.High = 0, 1
		if len(args) == 0 {
			return spec, nil
		}
		if len(args) != 2 {
			return DrawSpec{}, fmt.Errorf("%w: %s takes two parameters, got %d", core.ErrInvalidBounds, spec.Dist, len(args))
		}
		if spec.Low, err = strconv.ParseFloat(args[0], 64); err != nil {
			return DrawSpec{}, fmt.Errorf("%w: %v", core.ErrInvalidBounds, err)
		}
		if spec.High, err = strconv.ParseFloat(args[1], 64); err != nil {
			return DrawSpec{}, fmt.Errorf("%w: %v", core.ErrInvalidBounds, err)
		}
	case DistRandomIntegers:
		if len(args) != 2 {
			return DrawSpec{}, fmt.Errorf("%w: random_integers needs LOW:HIGH", core.ErrInvalidBounds)
		}
		if spec.IntLow, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return DrawSpec{}, fmt.Errorf("%w: %v", core.ErrInvalidBounds, err)
		}
		if spec.IntHigh, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			return DrawSpec{}, fmt.Errorf("%w: %v", core.ErrInvalidBounds, err)
		}
	case DistPermutation:
		if len(args) != 1 {
			return DrawSpec{}, fmt.Errorf("%w: permutation needs N", core.ErrInvalidBounds)
		}
		if spec.N, err = strconv.Atoi(args[0]); err != nil {
			return DrawSpec{}, fmt.Errorf("%w: %v", core.ErrInvalidBounds, err)
		}
	default:
		return DrawSpec{}, fmt.Errorf("%w: unknown distribution %q", core.ErrInvalidBounds, parts[0])
	}
	return spec, nil
}
