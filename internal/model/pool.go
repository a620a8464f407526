package model

import "time"

// Pool represents a named group of interchangeable equipment items of one
// model (e.g. "Glock 17 Service Pistols"). The pool owns its items; all
// counts are derived from item statuses and never edited directly.
type Pool struct {
	ID                      int64     `json:"id"`
	PoolName                string    `json:"pool_name"`
	Category                string    `json:"category"`
	Model                   string    `json:"model"`
	Manufacturer            string    `json:"manufacturer,omitempty"`
	IDPrefix                string    `json:"id_prefix"`
	AuthorizedDesignations  []string  `json:"authorized_designations"`
	TotalQuantity           int       `json:"total_quantity"`
	AvailableCount          int       `json:"available_count"`
	IssuedCount             int       `json:"issued_count"`
	MaintenanceCount        int       `json:"maintenance_count"`
	DamagedCount            int       `json:"damaged_count"`
	Items                   []Item    `json:"items"`
	ImageMime               string    `json:"image_mime,omitempty"`
	Version                 int64     `json:"-"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Item is one physical, individually tracked unit within a pool.
type Item struct {
	UniqueID  string     `json:"unique_id"`
	Status    string     `json:"status"`
	Condition string     `json:"condition"`

	// LostPending marks an item sitting in Maintenance while a loss report
	// is under investigation. Only valid together with StatusMaintenance.
	LostPending bool `json:"lost_pending,omitempty"`

	CurrentlyIssuedTo *Custody `json:"currently_issued_to,omitempty"`

	UsageHistory       []UsageEntry       `json:"usage_history"`
	MaintenanceHistory []MaintenanceEntry `json:"maintenance_history"`
	LostHistory        []LossReport       `json:"lost_history"`
}

// Custody identifies the officer currently holding an issued item.
type Custody struct {
	UserID      int64     `json:"user_id"`
	OfficerID   string    `json:"officer_id"`
	OfficerName string    `json:"officer_name"`
	Designation string    `json:"designation"`
	IssuedDate  time.Time `json:"issued_date"`
	Purpose     string    `json:"purpose"`
}

// UsageEntry records one custody period. An entry is open while ReturnedDate
// is nil; each item has at most one open entry at any time.
type UsageEntry struct {
	UserID            int64      `json:"user_id"`
	OfficerID         string     `json:"officer_id"`
	OfficerName       string     `json:"officer_name"`
	Designation       string     `json:"designation"`
	IssuedDate        time.Time  `json:"issued_date"`
	ReturnedDate      *time.Time `json:"returned_date,omitempty"`
	DaysUsed          int        `json:"days_used,omitempty"`
	Purpose           string     `json:"purpose"`
	ConditionAtIssue  string     `json:"condition_at_issue"`
	ConditionAtReturn string     `json:"condition_at_return,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
	IssuedBy          int64      `json:"issued_by,omitempty"`
	ReturnedTo        int64      `json:"returned_to,omitempty"`
}

// MaintenanceEntry records one problem report. Open while FixedDate is nil.
type MaintenanceEntry struct {
	Date       time.Time  `json:"date"`
	Type       string     `json:"type"`
	Reason     string     `json:"reason"`
	ReportedBy string     `json:"reported_by,omitempty"`
	FixedDate  *time.Time `json:"fixed_date,omitempty"`
	Action     string     `json:"action,omitempty"`
	FixedBy    string     `json:"fixed_by,omitempty"`
	Cost       float64    `json:"cost,omitempty"`
}

// LossReport records an officially reported loss (FIR: First Information
// Report). Open while InvestigationStatus is Under Investigation.
type LossReport struct {
	FIRNumber           string     `json:"fir_number"`
	FIRDate             time.Time  `json:"fir_date"`
	Description         string     `json:"description"`
	ReportedDate        time.Time  `json:"reported_date"`
	InvestigationStatus string     `json:"investigation_status"`
	ClosedDate          *time.Time `json:"closed_date,omitempty"`
	Resolution          string     `json:"resolution,omitempty"`
}

// Item statuses.
const (
	StatusAvailable   = "Available"
	StatusIssued      = "Issued"
	StatusMaintenance = "Maintenance"
	StatusDamaged     = "Damaged"
	StatusLost        = "Lost"
	StatusRetired     = "Retired"
)

// Item conditions. ConditionOutOfService is input-only: it is accepted in
// return/report payloads and normalized to Poor before storage.
const (
	ConditionExcellent    = "Excellent"
	ConditionGood         = "Good"
	ConditionFair         = "Fair"
	ConditionPoor         = "Poor"
	ConditionOutOfService = "Out of Service"
)

// Maintenance entry types.
const (
	MaintenanceRoutine    = "Routine"
	MaintenanceRepair     = "Repair"
	MaintenanceInspection = "Inspection"
	MaintenanceUpgrade    = "Upgrade"
	MaintenanceCleaning   = "Cleaning"
)

// Loss report investigation statuses.
const (
	InvestigationOpen   = "Under Investigation"
	InvestigationClosed = "Closed"
)

// Pool categories.
var Categories = []string{
	"Firearm",
	"Ammunition",
	"Protective Gear",
	"Communication Device",
	"Vehicle",
	"Tactical Equipment",
	"Less-Lethal Weapon",
	"Forensic Equipment",
	"Medical Supplies",
	"Office Equipment",
	"Other",
}

// Officer designations eligible for pool authorization lists.
var Designations = []string{
	"Director General of Police (DGP)",
	"Superintendent of Police (SP)",
	"Deputy Commissioner of Police (DCP)",
	"Deputy Superintendent of Police (DSP)",
	"Police Inspector (PI)",
	"Sub-Inspector (SI)",
	"Police Sub-Inspector (PSI)",
	"Head Constable (HC)",
	"Police Constable (PC)",
}

// ValidCategory reports whether c is a known pool category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidDesignation reports whether d is a known officer designation.
func ValidDesignation(d string) bool {
	for _, v := range Designations {
		if v == d {
			return true
		}
	}
	return false
}

// StoredCondition reports whether c is a condition value that may be stored
// on an item (Out of Service is accepted as input only).
func StoredCondition(c string) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// NormalizeCondition maps a reported condition to its stored form. The
// transient Out of Service value becomes Poor; needsMaintenance reports
// whether the item should be routed to maintenance during return triage.
func NormalizeCondition(reported string) (stored string, needsMaintenance bool) {
	switch reported {
	case ConditionOutOfService:
		return ConditionPoor, true
	case ConditionPoor:
		return ConditionPoor, true
	default:
		return reported, false
	}
}
