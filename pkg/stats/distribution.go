package stats

import "gonum.org/v1/gonum/stat/distuv"

// Distribution is a univariate distribution with a cumulative distribution
// function. distuv types satisfy it.
type Distribution interface {
	CDF(x float64) float64
}

// DistributionFunc builds a Distribution for the given degrees of freedom.
type DistributionFunc func(dof float64) Distribution

// ChiSquared returns the chi-square distribution with dof degrees of freedom.
func ChiSquared(dof float64) Distribution {
	return distuv.ChiSquared{K: dof}
}
