package pricing

// Config carries the published rate card.
type Config struct {
	BaseFee      float64
	PerMileRate  float64
	PerKgRate    float64
}

// Estimator derives shipment cost from distance and weight using the
// closed-form formula base + distance*perMile + weight*perKg. The
// function is total over non-negative inputs and has no failure modes.
type Estimator struct {
	cfg Config
}

// NewEstimator wires up the estimator with a rate card.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate returns the cost for a shipment of the given distance and
// weight. Deterministic and monotonically non-decreasing in both
// arguments.
func (e *Estimator) Estimate(distanceMiles, weightKg float64) float64 {
	return e.cfg.BaseFee + distanceMiles*e.cfg.PerMileRate + weightKg*e.cfg.PerKgRate
}
