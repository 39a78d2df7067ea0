// Package audioproc provides the audio front end: sample-rate conversion and
// energy-based voice activity detection over raw capture frames.
package audioproc

import "math"

// DefaultVADThreshold is the RMS level above which a frame counts as speech,
// on full-scale [-1, 1] samples. Chosen empirically for near-field speech
// with browser echo cancellation enabled.
const DefaultVADThreshold = 0.009

// Frontend converts capture frames from the input rate to the target rate
// and classifies each frame as voice or silence. It is a pure function of
// its input and configuration; smoothing across frames is the segment
// assembler's job.
type Frontend struct {
	inputRate  int
	targetRate int
	threshold  float64
}

// NewFrontend creates a front end for the given rates. A zero threshold
// selects DefaultVADThreshold.
func NewFrontend(inputRate, targetRate int, threshold float64) *Frontend {
	if threshold == 0 {
		threshold = DefaultVADThreshold
	}
	return &Frontend{
		inputRate:  inputRate,
		targetRate: targetRate,
		threshold:  threshold,
	}
}

// TargetRate returns the output sample rate.
func (f *Frontend) TargetRate() int { return f.targetRate }

// Process resamples one frame and reports whether it contains voice. The
// voice decision is made on the resampled frame so it matches what travels
// downstream.
func (f *Frontend) Process(frame []float32) ([]float32, bool) {
	resampled := Resample(frame, f.inputRate, f.targetRate)
	return resampled, RMS(resampled) >= f.threshold
}

// Resample converts samples from inputRate to targetRate by nearest-index
// selection. O(n) and lossy by design; downstream transcription tolerates
// the aliasing and the capture callback cannot afford interpolation.
// Resampling to the input rate returns the frame unchanged.
func Resample(samples []float32, inputRate, targetRate int) []float32 {
	if inputRate == targetRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(inputRate) / float64(targetRate)
	newLength := int(math.Round(float64(len(samples)) / ratio))
	if newLength <= 0 {
		return nil
	}

	result := make([]float32, newLength)
	for i := range result {
		src := int(math.Round(float64(i) * ratio))
		if src >= len(samples) {
			src = len(samples) - 1
		}
		result[i] = samples[src]
	}
	return result
}

// RMS computes the root mean square of the samples.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
