package scoring

// Config controls how a prize pool is distributed across ranked participants.
type Config struct {
	PrizePool             float64
	PlatformFeePercentage float64
	MinimumPlayers        int
}

// DefaultConfig matches the reference implementation's defaults: no
// platform fee, at least two players required to pay out.
func DefaultConfig(prizePool float64) Config {
	return Config{PrizePool: prizePool, PlatformFeePercentage: 0, MinimumPlayers: 2}
}

// Validate checks the configuration's invariants.
func (c Config) Validate() error {
	if c.PrizePool <= 0 {
		return ErrInvalidPrizePool
	}
	if c.PlatformFeePercentage < 0 || c.PlatformFeePercentage >= 100 {
		return ErrInvalidPlatformFee
	}
	if c.MinimumPlayers == 0 {
		return ErrMinimumPlayers
	}
	return nil
}

// AvailablePool returns the prize pool after the platform fee is deducted.
func (c Config) AvailablePool() float64 {
	return c.PrizePool - c.PlatformFee()
}

// PlatformFee returns the absolute platform fee taken from the prize pool.
func (c Config) PlatformFee() float64 {
	return c.PrizePool * (c.PlatformFeePercentage / 100.0)
}

// Calculator distributes a prize pool across ranked participants using a
// position-based scoring system: payout depends only on finishing position,
// not on the magnitude of the similarity score, and ties split the combined
// payout of the positions they occupy evenly.
type Calculator struct {
	config Config
}

// NewCalculator returns a Calculator with the default configuration for the
// given prize pool.
func NewCalculator(prizePool float64) *Calculator {
	return &Calculator{config: DefaultConfig(prizePool)}
}

// NewCalculatorWithConfig returns a Calculator using a custom configuration.
func NewCalculatorWithConfig(config Config) *Calculator {
	return &Calculator{config: config}
}

// Config returns the calculator's current configuration.
func (c *Calculator) Config() Config {
	return c.config
}

// SetPrizePool updates the prize pool, rejecting non-positive values.
func (c *Calculator) SetPrizePool(prizePool float64) error {
	if prizePool <= 0 {
		return ErrInvalidPrizePool
	}
	c.config.PrizePool = prizePool
	return nil
}

// SetPlatformFee updates the platform fee percentage, rejecting values
// outside [0, 100).
func (c *Calculator) SetPlatformFee(feePercentage float64) error {
	if feePercentage < 0 || feePercentage >= 100 {
		return ErrInvalidPlatformFee
	}
	c.config.PlatformFeePercentage = feePercentage
	return nil
}

// rankedResult pairs a key with its score. CalculatePayouts does not use it;
// it takes keys and scores as two parallel slices.
type rankedResult struct {
	key   string
	score float64
}

// CalculatePayouts distributes the available pool across the entries of keys
// and scoresDesc (assumed already sorted by descending score) and returns one
// payout per entry in the same order. Ties (exactly equal scores) split
// the combined payout of the positions they span evenly; the sum of all
// payouts equals the available pool to within IEEE-754 rounding error.
func (c *Calculator) CalculatePayouts(keys []string, scoresDesc []float64) ([]float64, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if c.config.PrizePool <= 0 {
		return nil, ErrInvalidPrizePool
	}
	totalPlayers := len(keys)
	if totalPlayers < c.config.MinimumPlayers {
		return nil, ErrMinimumPlayers
	}

	availablePool := c.config.AvailablePool()

	denominator := 0
	for i := 1; i <= totalPlayers; i++ {
		denominator += i
	}

	// Group consecutive equal-score positions.
	type group struct {
		indices []int
		score   float64
	}
	var groups []group
	for i, s := range scoresDesc {
		if len(groups) > 0 && groups[len(groups)-1].score == s {
			groups[len(groups)-1].indices = append(groups[len(groups)-1].indices, i)
			continue
		}
		groups = append(groups, group{indices: []int{i}, score: s})
	}

	payouts := make([]float64, totalPlayers)
	position := 0
	for _, g := range groups {
		groupSize := len(g.indices)
		groupPoints := 0
		for i := 0; i < groupSize; i++ {
			groupPoints += totalPlayers - (position + i)
		}
		pointsPerPosition := float64(groupPoints) / float64(groupSize)
		score := pointsPerPosition / float64(denominator)
		payout := score * availablePool

		for _, idx := range g.indices {
			payouts[idx] = payout
		}
		position += groupSize
	}

	return payouts, nil
}
