package domain

// RequestStatus represents the processing state of a generation request.
type RequestStatus string

// Possible request status values. A request advances pending → prompting →
// normalizing → exporting → done; failed is terminal and reachable from any
// non-terminal state. Cancelled marks a request abandoned by its caller
// before any model work was spent on it.
const (
	RequestStatusPending     RequestStatus = "pending"
	RequestStatusPrompting   RequestStatus = "prompting"
	RequestStatusNormalizing RequestStatus = "normalizing"
	RequestStatusExporting   RequestStatus = "exporting"
	RequestStatusDone        RequestStatus = "done"
	RequestStatusFailed      RequestStatus = "failed"
	RequestStatusCancelled   RequestStatus = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusDone || s == RequestStatusFailed || s == RequestStatusCancelled
}
