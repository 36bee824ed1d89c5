package de

import "math"

// adaptiveState tracks the SAM-style linearly-decreasing sampling weight and
// the power-mean-updated location parameters for F and CR.
type adaptiveState struct {
	cfg AdaptiveConfig

	fM, crM     float64
	successfulF []float64
	successfulC []float64
	currentW    float64
}

func newAdaptiveState(cfg AdaptiveConfig) *adaptiveState {
	return &adaptiveState{cfg: cfg, fM: cfg.FM, crM: cfg.CrM, currentW: cfg.WMax}
}

func (a *adaptiveState) sampleF(rng *rngSource) float64 {
	perturb := (rng.Float64() - 0.5) * 0.2
	return clamp(a.fM+perturb, 0, 2)
}

func (a *adaptiveState) sampleCR(rng *rngSource) float64 {
	perturb := (rng.Float64() - 0.5) * 0.2
	return clamp(a.crM+perturb, 0, 1)
}

func (a *adaptiveState) recordSuccess(f, cr float64) {
	a.successfulF = append(a.successfulF, f)
	a.successfulC = append(a.successfulC, cr)
}

// update applies the linearly-decreasing weight schedule and the
// power-mean update of fM/crM from this generation's successful trials,
// then clears them for the next generation.
func (a *adaptiveState) update(iter, maxIter int) {
	ratio := float64(iter) / float64(maxIter)
	a.currentW = a.cfg.WMax - (a.cfg.WMax-a.cfg.WMin)*ratio

	if len(a.successfulF) > 0 {
		a.fM = (1-a.cfg.WF)*a.fM + a.cfg.WF*powerMean(a.successfulF)
	}
	if len(a.successfulC) > 0 {
		a.crM = (1-a.cfg.WCr)*a.crM + a.cfg.WCr*powerMean(a.successfulC)
	}

	a.successfulF = a.successfulF[:0]
	a.successfulC = a.successfulC[:0]
}

func powerMean(values []float64) float64 {
	if len(values) == 0 {
		return 0.5
	}

	var sumP float64
	for _, v := range values {
		if v > 0 {
			sumP += math.Pow(v, 1.5)
		}
	}
	return math.Pow(sumP/float64(len(values)), 1/1.5)
}
