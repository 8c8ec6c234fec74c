package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/esqet/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

var ErrTooShort = errors.New("series too short for a spectrum")

// Spectrum holds power against frequency (or wavenumber), DC excluded.
type Spectrum struct {
	Freq  []float64
	Power []float64
}

// PowerSpectrum is the magnitude of the positive-frequency half of the
// DFT of data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-floats.Sum(data)/float64(len(data)), centered)

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// spectrum bins data sampled every step apart.
func spectrum(data []float64, step float64) Spectrum {
	ps := PowerSpectrum(data)
	span := step * float64(len(data))
	s := Spectrum{
		Freq:  make([]float64, len(ps)-1),
		Power: ps[1:],
	}
	for k := range s.Freq {
		s.Freq[k] = float64(k+1) / span
	}
	return s
}

// EvenSnapshots returns the leading run of snapshots taken at a constant
// step interval. The final snapshot is dropped when it falls off the stride.
func EvenSnapshots(history dynamo.History) dynamo.History {
	if len(history) < 3 {
		return history
	}
	gap := history[1].Step - history[0].Step
	n := 2
	for n < len(history) && history[n].Step-history[n-1].Step == gap {
		n++
	}
	return history[:n]
}

// TemporalSpectrum is the spectrum of the field at grid index i over time.
func TemporalSpectrum(history dynamo.History, i int) (Spectrum, error) {
	even := EvenSnapshots(history)
	if len(even) < 4 {
		return Spectrum{}, fmt.Errorf("%d evenly spaced snapshots: %w", len(even), ErrTooShort)
	}
	if i < 0 || i >= len(even[0].Values) {
		return Spectrum{}, fmt.Errorf("index %d outside %d points: %w", i, len(even[0].Values), dynamo.ErrDimensionMismatch)
	}

	data := make([]float64, len(even))
	for k, s := range even {
		data[k] = s.Values[i]
	}
	return spectrum(data, even[1].Time-even[0].Time), nil
}

// SpatialSpectrum resamples values onto n uniform points over x and
// returns the spectrum against wavenumber (cycles per unit length).
func SpatialSpectrum(x, values []float64, n int) (Spectrum, error) {
	if n < 4 {
		return Spectrum{}, fmt.Errorf("%d samples: %w", n, ErrTooShort)
	}
	if len(x) != len(values) {
		return Spectrum{}, fmt.Errorf("%d positions, %d values: %w", len(x), len(values), dynamo.ErrDimensionMismatch)
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(x, values); err != nil {
		return Spectrum{}, err
	}

	lo, hi := x[0], x[len(x)-1]
	pos := floats.Span(make([]float64, n), lo, hi)
	data := make([]float64, n)
	for k, p := range pos {
		data[k] = pl.Predict(p)
	}
	return spectrum(data, (hi-lo)/float64(n-1)), nil
}

// Dominant returns the frequency with the largest power.
func Dominant(s Spectrum) (freq, power float64) {
	if len(s.Power) == 0 {
		return 0, 0
	}
	k := floats.MaxIdx(s.Power)
	return s.Freq[k], s.Power[k]
}
