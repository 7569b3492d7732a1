package voice

import (
	"math"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

const (
	frameSize = 2048
	hopSize   = 1024

	// Pitch search band covers normal speech F0.
	minPitchHz = 50
	maxPitchHz = 500
)

// extractFeatures computes framewise pitch (autocorrelation F0), RMS volume,
// zero-crossing rate as a speech-rate proxy, and a spectral-centroid estimate
// as an energy/brightness proxy.
func extractFeatures(samples []float64, sampleRate int) analysis.VoiceFeatures {
	var pitches, volumes, rates, energies []float64

	for start := 0; start+frameSize <= len(samples); start += hopSize {
		frame := samples[start : start+frameSize]

		rms := frameRMS(frame)
		volumes = append(volumes, rms)
		rates = append(rates, zeroCrossingRate(frame))
		energies = append(energies, spectralCentroid(frame, sampleRate))

		// Skip near-silent frames for pitch; autocorrelation on noise
		// produces junk estimates.
		if rms > 0.01 {
			if f0 := framePitch(frame, sampleRate); f0 > 0 {
				pitches = append(pitches, f0)
			}
		}
	}

	// Short clips still get one frame's worth of features.
	if len(volumes) == 0 && len(samples) > 0 {
		volumes = append(volumes, frameRMS(samples))
		rates = append(rates, zeroCrossingRate(samples))
		energies = append(energies, spectralCentroid(samples, sampleRate))
	}

	pitchMean, pitchStd := meanStd(pitches)
	volMean, volStd := meanStd(volumes)
	rateMean, _ := meanStd(rates)
	energyMean, _ := meanStd(energies)

	return analysis.VoiceFeatures{
		Pitch:      analysis.FeatureStat{Mean: round3(pitchMean), Std: round3(pitchStd), Level: categorizePitch(pitchMean)},
		Volume:     analysis.FeatureStat{Mean: round3(volMean), Std: round3(volStd), Level: categorizeVolume(volMean)},
		SpeechRate: analysis.FeatureStat{Mean: round3(rateMean), Level: categorizeSpeechRate(rateMean)},
		Energy:     analysis.FeatureStat{Mean: round3(energyMean), Level: categorizeEnergy(energyMean)},
	}
}

func frameRMS(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func zeroCrossingRate(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1) / 2
}

// framePitch estimates F0 by picking the autocorrelation peak within the
// speech band. Returns 0 when no lag shows enough periodicity.
func framePitch(frame []float64, sampleRate int) float64 {
	minLag := sampleRate / maxPitchHz
	maxLag := sampleRate / minPitchHz
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	if minLag < 1 || minLag >= maxLag {
		return 0
	}

	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if energy == 0 {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += frame[i] * frame[i+lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	// Periodicity gate: the peak must carry a meaningful share of the
	// frame energy, otherwise the frame is treated as unvoiced.
	if bestLag == 0 || bestCorr < 0.3*energy {
		return 0
	}
	return float64(sampleRate) / float64(bestLag)
}

// spectralCentroid approximates the centroid in Hz from the ratio of the
// first-difference energy to the signal energy.
func spectralCentroid(frame []float64, sampleRate int) float64 {
	if len(frame) < 2 {
		return 0
	}
	var diffEnergy, energy float64
	for i := 1; i < len(frame); i++ {
		d := frame[i] - frame[i-1]
		diffEnergy += d * d
		energy += frame[i] * frame[i]
	}
	if energy == 0 {
		return 0
	}
	return float64(sampleRate) / (2 * math.Pi) * math.Sqrt(diffEnergy/energy)
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var varSum float64
	for _, v := range values {
		varSum += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(varSum / float64(len(values)))
}

func categorizePitch(hz float64) string {
	switch {
	case hz > 250:
		return "high"
	case hz > 150:
		return "normal"
	default:
		return "low"
	}
}

func categorizeVolume(rms float64) string {
	switch {
	case rms > 0.1:
		return "loud"
	case rms > 0.05:
		return "normal"
	default:
		return "soft"
	}
}

func categorizeSpeechRate(zcr float64) string {
	switch {
	case zcr > 0.1:
		return "fast"
	case zcr > 0.05:
		return "normal"
	default:
		return "slow"
	}
}

func categorizeEnergy(hz float64) string {
	switch {
	case hz > 2000:
		return "high"
	case hz > 1000:
		return "normal"
	default:
		return "low"
	}
}
