package dispatch

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/autoeq/autoeqerr"
	"github.com/cwbudde/autoeq/de"
	"github.com/cwbudde/autoeq/objective"
)

// OptimizeFilters is the single entry point every caller (workflow,
// cmd/autoeq) uses: it resolves algoID against AllAlgorithms and routes
// to the matching nlopt:*/mh:*/autoeq:de branch, mutating x in place with
// the best candidate found. Per spec.md §6.4, success and failure share
// the same return shape; failure still carries the best-so-far value.
func OptimizeFilters(x, lower, upper []float64, data objective.Data, algoID string, population, maxeval int) (status string, fBest float64, err error) {
	return optimizeFilters(x, lower, upper, data, algoID, population, maxeval, nil)
}

// OptimizeFiltersWithCallback is identical to OptimizeFilters but also
// invokes callback after every DE generation. Only the autoeq:de branch
// currently honors it — mh:* and nlopt:* backends report progress through
// their own opaque solve loop, matching perform_optimization_with_callback's
// "only used for AutoEQ DE" comment in the reference implementation.
func OptimizeFiltersWithCallback(x, lower, upper []float64, data objective.Data, algoID string, population, maxeval int, callback func(de.Intermediate) de.CallbackAction) (status string, fBest float64, err error) {
	return optimizeFilters(x, lower, upper, data, algoID, population, maxeval, callback)
}

func optimizeFilters(x, lower, upper []float64, data objective.Data, algoID string, population, maxeval int, callback func(de.Intermediate) de.CallbackAction) (string, float64, error) {
	if len(x) != len(lower) || len(x) != len(upper) {
		return "", objEnergyOrInf(data, x), autoeqerr.NewConfigError("bounds", "x/lower/upper length mismatch")
	}

	info, ok := FindAlgorithmInfo(algoID)
	if !ok {
		return "", objEnergyOrInf(data, x), autoeqerr.NewConfigError("algo", fmt.Sprintf("unrecognized algorithm id %q", algoID))
	}

	switch {
	case info.Name == "autoeq:de":
		return optimizeFiltersAutoEQ(x, lower, upper, data, population, maxeval, callback)

	case strings.HasPrefix(info.Name, "nlopt:"):
		suffix := strings.TrimPrefix(info.Name, "nlopt:")
		return optimizeFiltersNLopt(x, lower, upper, data, suffix, population, maxeval)

	case strings.HasPrefix(info.Name, "mh:"):
		suffix := strings.TrimPrefix(info.Name, "mh:")
		return optimizeFiltersMH(x, lower, upper, data, suffix, population, maxeval)

	default:
		return "", objEnergyOrInf(data, x), autoeqerr.NewConfigError("algo", fmt.Sprintf("unroutable algorithm %q", algoID))
	}
}

func objEnergyOrInf(data objective.Data, x []float64) float64 {
	if len(x) == 0 {
		return math.Inf(1)
	}
	return data.ComputeFitnessPenalties(x)
}
