package model

// Congestion levels shown on the queue map.
const (
	CongestionLow    = "low"
	CongestionMedium = "medium"
	CongestionHigh   = "high"
)

// MinutesPerPerson is the estimated service time per queued customer.
const MinutesPerPerson = 2

// Stall is a food counter in the cafeteria and the length of its queue.
type Stall struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	QueueLength int      `json:"queue_length"`
	MenuItems   []string `json:"menu_items"`
}

// EstimatedWaitMinutes is QueueLength × MinutesPerPerson.
func (s Stall) EstimatedWaitMinutes() int { return s.QueueLength * MinutesPerPerson }

// Congestion classifies the queue: more than 10 people is high, more than
// 5 is medium, anything else is low.
func (s Stall) Congestion() string {
	switch {
	case s.QueueLength > 10:
		return CongestionHigh
	case s.QueueLength > 5:
		return CongestionMedium
	default:
		return CongestionLow
	}
}
