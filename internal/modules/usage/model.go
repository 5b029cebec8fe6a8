package usage

import "errors"

// ErrQuotaExhausted is returned when a caller has no agent calls left this month.
var ErrQuotaExhausted = errors.New("agent quota exhausted")

// DefaultMonthlyCalls is the allowance granted at each monthly reset.
const DefaultMonthlyCalls = 100

const monthLayout = "2006-01"
