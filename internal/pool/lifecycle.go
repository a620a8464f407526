package pool

import (
	"fmt"
	"time"

	"github.com/svelankar/armory/internal/model"
)

// DefaultPurpose is recorded when an issue request carries no purpose.
const DefaultPurpose = "Regular Duty"

// Custodian identifies the officer an item is issued to.
type Custodian struct {
	UserID      int64
	OfficerID   string
	OfficerName string
	Designation string
}

// Issue hands the best available item to the custodian. The custodian's
// designation must be in the pool's authorized list and at least one item
// must be issuable. Opens a new usage history entry.
func Issue(p *model.Pool, c Custodian, purpose string, issuedBy int64) (*model.Item, error) {
	authorized := false
	for _, d := range p.AuthorizedDesignations {
		if d == c.Designation {
			authorized = true
			break
		}
	}
	if !authorized {
		return nil, fmt.Errorf("%w: %s", ErrNotAuthorized, c.Designation)
	}

	item := SelectForIssue(p)
	if item == nil {
		return nil, ErrNoAvailableItems
	}

	if purpose == "" {
		purpose = DefaultPurpose
	}

	issuedAt := now()
	item.Status = model.StatusIssued
	item.CurrentlyIssuedTo = &model.Custody{
		UserID:      c.UserID,
		OfficerID:   c.OfficerID,
		OfficerName: c.OfficerName,
		Designation: c.Designation,
		IssuedDate:  issuedAt,
		Purpose:     purpose,
	}
	item.UsageHistory = append(item.UsageHistory, model.UsageEntry{
		UserID:           c.UserID,
		OfficerID:        c.OfficerID,
		OfficerName:      c.OfficerName,
		Designation:      c.Designation,
		IssuedDate:       issuedAt,
		Purpose:          purpose,
		ConditionAtIssue: item.Condition,
		IssuedBy:         issuedBy,
	})

	RecomputeCounts(p)
	return item, nil
}

// Return closes the item's open custody period and triages it: Poor or
// Out of Service routes the item to maintenance with an auto-opened problem
// report, anything else puts it straight back in the available stock.
func Return(p *model.Pool, uniqueID, reportedCondition, remarks string, returnedTo int64) (*model.Item, error) {
	item := FindItem(p, uniqueID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, uniqueID)
	}
	if item.Status != model.StatusIssued {
		return nil, fmt.Errorf("%w: %s", ErrNotIssued, uniqueID)
	}
	if reportedCondition == "" {
		reportedCondition = item.Condition
	}
	if !model.StoredCondition(reportedCondition) && reportedCondition != model.ConditionOutOfService {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCondition, reportedCondition)
	}

	entry := openUsageEntry(item)
	if entry == nil {
		// Custody invariant violated upstream; refuse rather than guess.
		return nil, fmt.Errorf("%w: %s has no open usage entry", ErrInvalidTransition, uniqueID)
	}

	returnedAt := now()
	stored, needsMaintenance := model.NormalizeCondition(reportedCondition)

	entry.ReturnedDate = &returnedAt
	entry.ConditionAtReturn = stored
	entry.Remarks = remarks
	entry.ReturnedTo = returnedTo
	entry.DaysUsed = daysUsed(entry.IssuedDate, returnedAt)

	item.CurrentlyIssuedTo = nil
	item.Condition = stored

	if needsMaintenance {
		reason := remarks
		if reason == "" {
			reason = "N/A"
		}
		item.Status = model.StatusMaintenance
		item.MaintenanceHistory = append(item.MaintenanceHistory, model.MaintenanceEntry{
			Date:   returnedAt,
			Type:   model.MaintenanceInspection,
			Reason: fmt.Sprintf("Item returned in %s condition. Reason: %s.", reportedCondition, reason),
		})
	} else {
		item.Status = model.StatusAvailable
	}

	RecomputeCounts(p)
	return item, nil
}

// ReportProblem sends an Available or Issued item to maintenance on an
// explicit officer report. An Issued item has its custody period closed
// first so the usage ledger stays consistent.
func ReportProblem(p *model.Pool, uniqueID, description, reportedBy string) (*model.Item, error) {
	item := FindItem(p, uniqueID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, uniqueID)
	}
	if item.Status != model.StatusAvailable && item.Status != model.StatusIssued {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, uniqueID, item.Status)
	}

	reportedAt := now()
	if item.Status == model.StatusIssued {
		if entry := openUsageEntry(item); entry != nil {
			entry.ReturnedDate = &reportedAt
			entry.ConditionAtReturn = model.ConditionPoor
			entry.Remarks = description
			entry.DaysUsed = daysUsed(entry.IssuedDate, reportedAt)
		}
		item.CurrentlyIssuedTo = nil
	}

	item.Status = model.StatusMaintenance
	item.Condition = model.ConditionPoor
	item.MaintenanceHistory = append(item.MaintenanceHistory, model.MaintenanceEntry{
		Date:       reportedAt,
		Type:       model.MaintenanceRepair,
		Reason:     description,
		ReportedBy: reportedBy,
	})

	RecomputeCounts(p)
	return item, nil
}

// CompleteRepair closes the item's open maintenance entry and returns it to
// the available stock. Repaired equipment comes back as Good or Excellent
// only: a repair either fully restores the item or it goes through
// write-off instead.
func CompleteRepair(p *model.Pool, uniqueID, action, newCondition, fixedBy string, cost float64) (*model.Item, error) {
	item := FindItem(p, uniqueID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, uniqueID)
	}
	if item.Status != model.StatusMaintenance {
		return nil, fmt.Errorf("%w: %s", ErrNotInMaintenance, uniqueID)
	}
	if item.LostPending {
		return nil, fmt.Errorf("%w: %s has an open loss report", ErrInvalidTransition, uniqueID)
	}
	if newCondition != model.ConditionGood && newCondition != model.ConditionExcellent {
		return nil, fmt.Errorf("%w: repaired condition must be Good or Excellent, got %q", ErrInvalidCondition, newCondition)
	}

	fixedAt := now()
	if entry := openMaintenanceEntry(item); entry != nil {
		entry.FixedDate = &fixedAt
		entry.Action = action
		entry.FixedBy = fixedBy
		entry.Cost = cost
	}

	item.Status = model.StatusAvailable
	item.Condition = newCondition

	RecomputeCounts(p)
	return item, nil
}

// MarkLost moves an Issued item into the lost-pending sub-state of
// Maintenance and opens a loss report with the FIR details. The custody
// period is closed so the usage ledger never shows a lost item as held.
func MarkLost(p *model.Pool, uniqueID, firNumber string, firDate time.Time, description string) (*model.Item, error) {
	item := FindItem(p, uniqueID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, uniqueID)
	}
	if item.Status != model.StatusIssued {
		return nil, fmt.Errorf("%w: only issued items can be reported lost", ErrInvalidTransition)
	}

	reportedAt := now()
	if entry := openUsageEntry(item); entry != nil {
		entry.ReturnedDate = &reportedAt
		entry.ConditionAtReturn = item.Condition
		entry.Remarks = fmt.Sprintf("Reported lost (FIR %s)", firNumber)
		entry.DaysUsed = daysUsed(entry.IssuedDate, reportedAt)
	}
	item.CurrentlyIssuedTo = nil

	item.Status = model.StatusMaintenance
	item.LostPending = true
	item.LostHistory = append(item.LostHistory, model.LossReport{
		FIRNumber:           firNumber,
		FIRDate:             firDate,
		Description:         description,
		ReportedDate:        reportedAt,
		InvestigationStatus: model.InvestigationOpen,
	})

	RecomputeCounts(p)
	return item, nil
}

// WriteOff closes a lost-pending item's investigation as unrecovered. The
// item becomes Lost, a terminal state that never re-enters the available
// stock.
func WriteOff(p *model.Pool, uniqueID, notes string) (*model.Item, error) {
	item := FindItem(p, uniqueID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, uniqueID)
	}
	report := openLossReport(item)
	if item.Status != model.StatusMaintenance || !item.LostPending || report == nil {
		return nil, fmt.Errorf("%w: %s has no pending loss investigation", ErrInvalidTransition, uniqueID)
	}

	closedAt := now()
	report.InvestigationStatus = model.InvestigationClosed
	report.ClosedDate = &closedAt
	report.Resolution = notes

	item.Status = model.StatusLost
	item.LostPending = false

	RecomputeCounts(p)
	return item, nil
}

// Recover closes a lost-pending item's investigation as recovered. The item
// goes back to the available stock, or into ordinary maintenance when it
// came back in Poor shape.
func Recover(p *model.Pool, uniqueID, notes, condition string) (*model.Item, error) {
	item := FindItem(p, uniqueID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, uniqueID)
	}
	report := openLossReport(item)
	if item.Status != model.StatusMaintenance || !item.LostPending || report == nil {
		return nil, fmt.Errorf("%w: %s has no pending loss investigation", ErrInvalidTransition, uniqueID)
	}
	if !model.StoredCondition(condition) && condition != model.ConditionOutOfService {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCondition, condition)
	}

	closedAt := now()
	report.InvestigationStatus = model.InvestigationClosed
	report.ClosedDate = &closedAt
	report.Resolution = notes

	stored, needsMaintenance := model.NormalizeCondition(condition)
	item.Condition = stored
	item.LostPending = false

	if needsMaintenance {
		item.Status = model.StatusMaintenance
		item.MaintenanceHistory = append(item.MaintenanceHistory, model.MaintenanceEntry{
			Date:   closedAt,
			Type:   model.MaintenanceInspection,
			Reason: fmt.Sprintf("Recovered in %s condition. Notes: %s", condition, notes),
		})
	} else {
		item.Status = model.StatusAvailable
	}

	RecomputeCounts(p)
	return item, nil
}
