package model

import "time"

// Request is an officer-submitted intent. It carries no inventory state;
// approving it is what triggers the pool lifecycle operation.
type Request struct {
	ID             int64      `json:"id"`
	RequestID      string     `json:"request_id"`
	RequestedBy    int64      `json:"requested_by"`
	PoolID         int64      `json:"pool_id"`
	AssignedUniqueID string   `json:"assigned_unique_id,omitempty"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason"`
	Condition      string     `json:"condition,omitempty"`
	FIRNumber      string     `json:"fir_number,omitempty"`
	FIRDate        *time.Time `json:"fir_date,omitempty"`
	AdminNotes     string     `json:"admin_notes,omitempty"`
	ProcessedBy    *int64     `json:"processed_by,omitempty"`
	ProcessedDate  *time.Time `json:"processed_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	PoolName      string `json:"pool_name,omitempty"`
	OfficerName   string `json:"officer_name,omitempty"`
	OfficerID     string `json:"officer_id,omitempty"`
	Designation   string `json:"designation,omitempty"`
}

// Request types.
const (
	RequestIssue       = "Issue"
	RequestReturn      = "Return"
	RequestMaintenance = "Maintenance"
	RequestLost        = "Lost"
)

// Request statuses.
const (
	RequestPending   = "Pending"
	RequestApproved  = "Approved"
	RequestRejected  = "Rejected"
	RequestCompleted = "Completed"
	RequestCancelled = "Cancelled"
)

// ValidRequestType reports whether t is a known request type.
func ValidRequestType(t string) bool {
	switch t {
	case RequestIssue, RequestReturn, RequestMaintenance, RequestLost:
		return true
	}
	return false
}
