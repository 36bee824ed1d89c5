// Package dispatch implements the algorithm catalog and the three
// dispatch branches (nlopt:*, mh:*, autoeq:de) that every entry in the
// catalog resolves to, composing the shared objective.Data fitness
// functions with each backend's own constraint-handling conventions.
package dispatch

import "strings"

// AlgorithmType classifies an algorithm as a global explorer or a local
// refiner, matching the distinction the optim.rs catalog draws.
type AlgorithmType int

const (
	Global AlgorithmType = iota
	Local
)

// AlgorithmInfo describes one entry in the recognized algorithm catalog.
type AlgorithmInfo struct {
	Name                        string
	Library                     string
	Type                        AlgorithmType
	SupportsLinearConstraints   bool
	SupportsNonlinearConstraints bool
}

// AllAlgorithms is the full 21-entry catalog: 15 NLopt algorithms, 5
// metaheuristics.nature-equivalent algorithms (via eaopt), and the
// in-tree AutoEQ-native Differential Evolution solver.
var AllAlgorithms = []AlgorithmInfo{
	{Name: "nlopt:isres", Library: "NLOPT", Type: Global, SupportsLinearConstraints: true, SupportsNonlinearConstraints: true},
	{Name: "nlopt:ags", Library: "NLOPT", Type: Global, SupportsNonlinearConstraints: true},
	{Name: "nlopt:origdirect", Library: "NLOPT", Type: Global, SupportsNonlinearConstraints: true},
	{Name: "nlopt:crs2lm", Library: "NLOPT", Type: Global},
	{Name: "nlopt:direct", Library: "NLOPT", Type: Global},
	{Name: "nlopt:directl", Library: "NLOPT", Type: Global},
	{Name: "nlopt:gmlsl", Library: "NLOPT", Type: Global},
	{Name: "nlopt:gmlsllds", Library: "NLOPT", Type: Global},
	{Name: "nlopt:sbplx", Library: "NLOPT", Type: Local},
	{Name: "nlopt:slsqp", Library: "NLOPT", Type: Local, SupportsLinearConstraints: true, SupportsNonlinearConstraints: true},
	{Name: "nlopt:stogo", Library: "NLOPT", Type: Global},
	{Name: "nlopt:stogorand", Library: "NLOPT", Type: Global},
	{Name: "nlopt:bobyqa", Library: "NLOPT", Type: Local},
	{Name: "nlopt:cobyla", Library: "NLOPT", Type: Local, SupportsLinearConstraints: true, SupportsNonlinearConstraints: true},
	{Name: "nlopt:neldermead", Library: "NLOPT", Type: Local},
	{Name: "mh:de", Library: "eaopt", Type: Global},
	{Name: "mh:pso", Library: "eaopt", Type: Global},
	{Name: "mh:rga", Library: "eaopt", Type: Global},
	{Name: "mh:tlbo", Library: "eaopt", Type: Global},
	{Name: "mh:firefly", Library: "eaopt", Type: Global},
	{Name: "autoeq:de", Library: "AutoEQ", Type: Global, SupportsLinearConstraints: true, SupportsNonlinearConstraints: true},
}

// FindAlgorithmInfo resolves a user-supplied algorithm id, first by exact
// (case-insensitive) name match, then by matching the suffix after the
// library prefix for backward-compatible unprefixed names ("de" ->
// "autoeq:de" is ambiguous and intentionally resolves to the first match
// in catalog order, i.e. "mh:de", matching the original's iteration order).
func FindAlgorithmInfo(name string) (AlgorithmInfo, bool) {
	for _, a := range AllAlgorithms {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}

	lower := strings.ToLower(name)
	for _, a := range AllAlgorithms {
		if idx := strings.Index(a.Name, ":"); idx >= 0 {
			if strings.EqualFold(a.Name[idx+1:], lower) {
				return a, true
			}
		}
	}

	return AlgorithmInfo{}, false
}
