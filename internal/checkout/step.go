package checkout

type Step string

const (
	StepCart         Step = "CART"
	StepDetails      Step = "DETAILS"
	StepPayment      Step = "PAYMENT"
	StepConfirmation Step = "CONFIRMATION"
)

var order = []Step{StepCart, StepDetails, StepPayment, StepConfirmation}

func (s Step) index() int {
	for i, step := range order {
		if step == s {
			return i
		}
	}
	return 0
}

// Prev returns the step one back, used by the "back to previous step"
// action. Going back past the cart, or out of a finished checkout, stays
// put.
func (s Step) Prev() Step {
	i := s.index()
	if i == 0 || s == StepConfirmation {
		return s
	}
	return order[i-1]
}

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}
