package domain

// StatusState is the canonical commit status vocabulary shared by every
// provider. It is a closed set: adapters translate their vendor's strings into
// these three values and fail loudly on anything else.
type StatusState string

const (
	StatusPending StatusState = "pending"
	StatusSuccess StatusState = "success"
	StatusFailed  StatusState = "failed"
)

// Valid reports whether s is a member of the canonical vocabulary.
func (s StatusState) Valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

func (s StatusState) String() string {
	return string(s)
}
