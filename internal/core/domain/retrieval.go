package domain

// StoreStatus is the process-wide availability of the similarity store.
// It is resolved once during startup and only ever moves from Unknown to
// Available or Unavailable; per-call failures later on degrade that call,
// not the cached status.
type StoreStatus int

const (
	StoreStatusUnknown StoreStatus = iota
	StoreStatusAvailable
	StoreStatusUnavailable
)

func (s StoreStatus) String() string {
	switch s {
	case StoreStatusAvailable:
		return "available"
	case StoreStatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// RetrievedQuestion is a read-only similarity hit used to enrich generation
// prompts. Ranking is implicit in slice order.
type RetrievedQuestion struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}
