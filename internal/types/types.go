// README: Shared value objects used across modules.
package types

import "fmt"

// ID is a stable record identifier. Users are keyed by their phone/channel
// address; rides by a generated id.
type ID string

type Point struct {
	Lat float64
	Lng float64
}

type Money struct {
	Amount   int64
	Currency string
}

// Display renders the amount the way it appears in user-facing messages.
func (m Money) Display() string {
	switch m.Currency {
	// The zero value renders as dollars; USD is the default currency.
	case "USD", "":
		return fmt.Sprintf("$%d", m.Amount)
	default:
		return fmt.Sprintf("%d %s", m.Amount, m.Currency)
	}
}
