package primitives

// DiscreteValue is a non-negative integer step count.
type DiscreteValue struct {
	v uint32
}

func NewDiscreteValue(v uint32) DiscreteValue { return DiscreteValue{v: v} }

func (d DiscreteValue) Get() uint32 { return d.v }

func (d DiscreteValue) IsZero() bool { return d.v == 0 }

// ToIncrement converts d into a DiscreteIncrement carrying the given sign.
// Returns false if d is zero - a zero-magnitude increment is meaningless.
func (d DiscreteValue) ToIncrement(signum int) (DiscreteIncrement, bool) {
	if d.IsZero() {
		return DiscreteIncrement{}, false
	}
	n := int32(d.v)
	if signum < 0 {
		n = -n
	}
	return NewDiscreteIncrement(n), true
}

func (d DiscreteValue) ClampToInterval(iv Interval[DiscreteValue]) DiscreteValue {
	if d.v < iv.min.v {
		return iv.min
	}
	if d.v > iv.max.v {
		return iv.max
	}
	return d
}

// DiscreteIncrement is a signed, never-zero step count.
type DiscreteIncrement struct {
	v int32
}

// NewDiscreteIncrement panics on zero: an increment that doesn't move
// anything isn't an increment, it's a programmer error at the call site.
func NewDiscreteIncrement(v int32) DiscreteIncrement {
	if v == 0 {
		panic("primitives: discrete increment must not be zero")
	}
	return DiscreteIncrement{v: v}
}

func (i DiscreteIncrement) Get() int32 { return i.v }

func (i DiscreteIncrement) IsPositive() bool { return i.v >= 0 }

func (i DiscreteIncrement) Signum() int {
	if i.IsPositive() {
		return 1
	}
	return -1
}

// Inverse switches the direction of i.
func (i DiscreteIncrement) Inverse() DiscreteIncrement { return NewDiscreteIncrement(-i.v) }

// ToValue converts i into a DiscreteValue, discarding its direction.
func (i DiscreteIncrement) ToValue() DiscreteValue {
	mag := i.v
	if mag < 0 {
		mag = -mag
	}
	return NewDiscreteValue(uint32(mag))
}

func (i DiscreteIncrement) ClampToInterval(iv Interval[DiscreteValue]) DiscreteIncrement {
	clamped := i.ToValue().ClampToInterval(iv)
	result, ok := clamped.ToIncrement(i.Signum())
	if !ok {
		// Clamped magnitude collapsed to zero (interval bottomed out at 0);
		// there is no valid increment left, callers must check for this
		// via ToIncrement themselves when that matters. Preserve the
		// smallest possible nonzero magnitude in i's direction instead of
		// panicking on a hot path.
		return NewDiscreteIncrement(i.Signum())
	}
	return result
}

// ToUnitIncrement converts i into a UnitIncrement by scaling its magnitude
// with atomicUnitValue (the minimum step size), clamped to (0,1].
func (i DiscreteIncrement) ToUnitIncrement(atomicUnitValue Unit) (UnitIncrement, bool) {
	magnitude := float64(i.ToValue().Get()) * atomicUnitValue.Get()
	if magnitude > 1 {
		magnitude = 1
	}
	if magnitude == 0 {
		return UnitIncrement{}, false
	}
	if i.v < 0 {
		magnitude = -magnitude
	}
	return NewUnitIncrement(magnitude), true
}

// Encoder relative-increment decoding schemes, per MIDI CC value 0..127.
// These mirror the "Relative 1/2/3" protocols REAPER and most controller
// firmwares use for absolute-style encoders that emit fixed-zero CC values.

// DiscreteIncrementFromEncoder1 implements the Encoder1 scheme: 0 rejects,
// 1..=63 increments, 64..=127 decrements.
func DiscreteIncrementFromEncoder1(value uint8) (DiscreteIncrement, bool) {
	if value == 0 {
		return DiscreteIncrement{}, false
	}
	if value <= 63 {
		return NewDiscreteIncrement(int32(value)), true
	}
	return NewDiscreteIncrement(-int32(128 - int(value))), true
}

// DiscreteIncrementFromEncoder2 implements the Encoder2 scheme: 64 rejects
// (the centered zero), 65..=127 increments, 0..=63 decrements.
func DiscreteIncrementFromEncoder2(value uint8) (DiscreteIncrement, bool) {
	if value == 64 {
		return DiscreteIncrement{}, false
	}
	if value >= 64 {
		return NewDiscreteIncrement(int32(value) - 64), true
	}
	return NewDiscreteIncrement(-int32(64 - int(value))), true
}

// DiscreteIncrementFromEncoder3 implements the Encoder3 scheme: 0 rejects,
// 1..=64 increments, 65..=127 decrements.
func DiscreteIncrementFromEncoder3(value uint8) (DiscreteIncrement, bool) {
	if value == 0 {
		return DiscreteIncrement{}, false
	}
	if value <= 64 {
		return NewDiscreteIncrement(int32(value)), true
	}
	return NewDiscreteIncrement(-int32(int(value) - 64)), true
}

// Fraction represents a discrete position within a discrete range:
// actual <= max.
type Fraction struct {
	actual uint32
	max    uint32
}

// NewFraction panics if actual > max.
func NewFraction(actual, max uint32) Fraction {
	if actual > max {
		panic("primitives: fraction actual must be <= max")
	}
	return Fraction{actual: actual, max: max}
}

func (f Fraction) Actual() uint32 { return f.actual }
func (f Fraction) Max() uint32    { return f.max }

// ToUnit returns the continuous projection actual/max. If max is zero the
// range has a single possible value, which we treat as 0.
func (f Fraction) ToUnit() Unit {
	if f.max == 0 {
		return NewUnit(0)
	}
	return NewUnit(float64(f.actual) / float64(f.max))
}
