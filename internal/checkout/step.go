package checkout

// Step 结算步骤
type Step int

const (
	StepAddress      Step = 1
	StepDelivery     Step = 2
	StepPayment      Step = 3
	StepConfirmation Step = 4
)

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "address"
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

// Valid 是否为合法步骤
func (s Step) Valid() bool {
	return s >= StepAddress && s <= StepConfirmation
}

// Terminal 是否为终态
func (s Step) Terminal() bool {
	return s == StepConfirmation
}
