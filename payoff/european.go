package payoff

// Call is a European call.
type Call struct {
	Strike float64
}

// NewCall creates a European call struck at k.
func NewCall(k float64) (*Call, error) {
	if err := checkStrike(k); err != nil {
		return nil, err
	}
	return &Call{Strike: k}, nil
}

func (c *Call) Payout(s float64) float64 { return Vanilla(s, c.Strike, true) }

func (c *Call) PathPayout(path []float64) float64 { return c.Payout(last(path)) }

func (c *Call) PathDependent() bool { return false }

// Put is a European put.
type Put struct {
	Strike float64
}

// NewPut creates a European put struck at k.
func NewPut(k float64) (*Put, error) {
	if err := checkStrike(k); err != nil {
		return nil, err
	}
	return &Put{Strike: k}, nil
}

func (p *Put) Payout(s float64) float64 { return Vanilla(s, p.Strike, false) }

func (p *Put) PathPayout(path []float64) float64 { return p.Payout(last(path)) }

func (p *Put) PathDependent() bool { return false }
