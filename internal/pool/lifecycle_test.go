package pool

import (
	"errors"
	"testing"
	"time"

	"github.com/svelankar/armory/internal/model"
)

func newTestPool(t *testing.T, qty int) *model.Pool {
	t.Helper()
	p, err := New("Service Pistols", "Firearm", "G17", "Glock", "PST", qty,
		[]string{"Police Inspector (PI)", "Sub-Inspector (SI)"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func testCustodian() Custodian {
	return Custodian{
		UserID:      7,
		OfficerID:   "OFF-007",
		OfficerName: "R. Deshmukh",
		Designation: "Police Inspector (PI)",
	}
}

// fixNow pins the package clock and restores it when the test ends.
func fixNow(t *testing.T, at time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = old })
}

func TestNewPoolGeneratesItems(t *testing.T) {
	p := newTestPool(t, 3)

	if len(p.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(p.Items))
	}
	if p.Items[0].UniqueID != "PST-001" || p.Items[2].UniqueID != "PST-003" {
		t.Errorf("unexpected unique IDs: %s .. %s", p.Items[0].UniqueID, p.Items[2].UniqueID)
	}
	for _, item := range p.Items {
		if item.Status != model.StatusAvailable || item.Condition != model.ConditionExcellent {
			t.Errorf("item %s: expected Available/Excellent, got %s/%s",
				item.UniqueID, item.Status, item.Condition)
		}
	}
	if p.AvailableCount != 3 || p.IssuedCount != 0 {
		t.Errorf("expected counts 3/0, got %d/%d", p.AvailableCount, p.IssuedCount)
	}
}

func TestNewPoolValidation(t *testing.T) {
	tests := []struct {
		name     string
		category string
		prefix   string
		qty      int
	}{
		{"", "Firearm", "PST", 5},
		{"Pistols", "Kitchenware", "PST", 5},
		{"Pistols", "Firearm", "P", 5},
		{"Pistols", "Firearm", "PISTOL", 5},
		{"Pistols", "Firearm", "PST", 0},
	}
	for _, tt := range tests {
		if _, err := New(tt.name, tt.category, "G17", "", tt.prefix, tt.qty, nil); err == nil {
			t.Errorf("New(%q, %q, %q, %d): expected error", tt.name, tt.category, tt.prefix, tt.qty)
		}
	}

	if _, err := New("Pistols", "Firearm", "G17", "", "PST", 5, []string{"Janitor"}); err == nil {
		t.Error("expected error for unknown designation")
	}
}

func TestIssueSelectsBestConditionFirst(t *testing.T) {
	p := newTestPool(t, 4)
	p.Items[0].Condition = model.ConditionFair
	p.Items[1].Condition = model.ConditionGood
	p.Items[2].Condition = model.ConditionExcellent
	p.Items[3].Condition = model.ConditionPoor

	want := []string{"PST-003", "PST-002", "PST-001"}
	for _, expected := range want {
		item, err := Issue(p, testCustodian(), "", 1)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if item.UniqueID != expected {
			t.Errorf("expected %s issued, got %s", expected, item.UniqueID)
		}
	}

	// Only the Poor item is left, and Poor is never issuable.
	if _, err := Issue(p, testCustodian(), "", 1); !errors.Is(err, ErrNoAvailableItems) {
		t.Errorf("expected ErrNoAvailableItems, got %v", err)
	}
}

func TestIssueRejectsUnauthorizedDesignation(t *testing.T) {
	p := newTestPool(t, 1)

	c := testCustodian()
	c.Designation = "Head Constable (HC)"
	if _, err := Issue(p, c, "", 1); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
	if p.IssuedCount != 0 {
		t.Errorf("failed issue must not change counts, issued=%d", p.IssuedCount)
	}
}

func TestIssueRecordsCustodyAndHistory(t *testing.T) {
	issuedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fixNow(t, issuedAt)

	p := newTestPool(t, 2)
	item, err := Issue(p, testCustodian(), "", 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if item.Status != model.StatusIssued {
		t.Errorf("expected Issued, got %s", item.Status)
	}
	if item.CurrentlyIssuedTo == nil {
		t.Fatal("expected custody record")
	}
	if item.CurrentlyIssuedTo.Purpose != DefaultPurpose {
		t.Errorf("empty purpose should default to %q, got %q", DefaultPurpose, item.CurrentlyIssuedTo.Purpose)
	}
	if !item.CurrentlyIssuedTo.IssuedDate.Equal(issuedAt) {
		t.Errorf("unexpected issue date %v", item.CurrentlyIssuedTo.IssuedDate)
	}

	if len(item.UsageHistory) != 1 {
		t.Fatalf("expected 1 usage entry, got %d", len(item.UsageHistory))
	}
	entry := item.UsageHistory[0]
	if entry.ReturnedDate != nil {
		t.Error("fresh usage entry must be open")
	}
	if entry.ConditionAtIssue != model.ConditionExcellent {
		t.Errorf("expected condition at issue Excellent, got %s", entry.ConditionAtIssue)
	}
	if entry.IssuedBy != 42 {
		t.Errorf("expected issued_by 42, got %d", entry.IssuedBy)
	}

	if p.AvailableCount != 1 || p.IssuedCount != 1 {
		t.Errorf("expected counts 1/1, got %d/%d", p.AvailableCount, p.IssuedCount)
	}
}

func TestReturnGoodConditionBackToStock(t *testing.T) {
	issuedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fixNow(t, issuedAt)

	p := newTestPool(t, 1)
	item, err := Issue(p, testCustodian(), "Night patrol", 1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	fixNow(t, issuedAt.Add(50*time.Hour))
	item, err = Return(p, item.UniqueID, model.ConditionGood, "scuffed grip", 2)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}

	if item.Status != model.StatusAvailable {
		t.Errorf("expected Available, got %s", item.Status)
	}
	if item.Condition != model.ConditionGood {
		t.Errorf("expected Good, got %s", item.Condition)
	}
	if item.CurrentlyIssuedTo != nil {
		t.Error("custody must be cleared on return")
	}

	entry := item.UsageHistory[0]
	if entry.ReturnedDate == nil {
		t.Fatal("usage entry must be closed")
	}
	if entry.DaysUsed != 3 {
		t.Errorf("50h of use should round up to 3 days, got %d", entry.DaysUsed)
	}
	if entry.ReturnedTo != 2 {
		t.Errorf("expected returned_to 2, got %d", entry.ReturnedTo)
	}
	if len(item.MaintenanceHistory) != 0 {
		t.Error("good return must not open a maintenance entry")
	}
}

func TestReturnPoorConditionTriagedToMaintenance(t *testing.T) {
	p := newTestPool(t, 1)
	item, err := Issue(p, testCustodian(), "", 1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	item, err = Return(p, item.UniqueID, model.ConditionPoor, "slide jams", 2)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}

	if item.Status != model.StatusMaintenance {
		t.Errorf("expected Maintenance, got %s", item.Status)
	}
	if len(item.MaintenanceHistory) != 1 {
		t.Fatalf("expected auto-opened maintenance entry, got %d", len(item.MaintenanceHistory))
	}
	entry := item.MaintenanceHistory[0]
	if entry.Type != model.MaintenanceInspection {
		t.Errorf("expected Inspection entry, got %s", entry.Type)
	}
	want := "Item returned in Poor condition. Reason: slide jams."
	if entry.Reason != want {
		t.Errorf("expected reason %q, got %q", want, entry.Reason)
	}
	if entry.FixedDate != nil {
		t.Error("auto-opened entry must be open")
	}
	if p.MaintenanceCount != 1 || p.AvailableCount != 0 {
		t.Errorf("expected counts maintenance=1 available=0, got %d/%d",
			p.MaintenanceCount, p.AvailableCount)
	}
}

func TestReturnOutOfServiceStoredAsPoor(t *testing.T) {
	p := newTestPool(t, 1)
	item, err := Issue(p, testCustodian(), "", 1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	item, err = Return(p, item.UniqueID, model.ConditionOutOfService, "", 2)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}

	if item.Condition != model.ConditionPoor {
		t.Errorf("Out of Service must be stored as Poor, got %s", item.Condition)
	}
	if item.Status != model.StatusMaintenance {
		t.Errorf("expected Maintenance, got %s", item.Status)
	}
	want := "Item returned in Out of Service condition. Reason: N/A."
	if got := item.MaintenanceHistory[0].Reason; got != want {
		t.Errorf("expected reason %q, got %q", want, got)
	}
}

func TestReturnFairConditionStaysAvailable(t *testing.T) {
	p := newTestPool(t, 1)
	item, _ := Issue(p, testCustodian(), "", 1)

	item, err := Return(p, item.UniqueID, model.ConditionFair, "", 2)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if item.Status != model.StatusAvailable {
		t.Errorf("Fair return should stay Available, got %s", item.Status)
	}
}

func TestReturnRequiresIssuedItem(t *testing.T) {
	p := newTestPool(t, 1)

	if _, err := Return(p, "PST-001", model.ConditionGood, "", 1); !errors.Is(err, ErrNotIssued) {
		t.Errorf("expected ErrNotIssued, got %v", err)
	}
	if _, err := Return(p, "PST-999", model.ConditionGood, "", 1); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDaysUsedRoundsUp(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{time.Minute, 1},
		{24 * time.Hour, 1},
		{25 * time.Hour, 2},
		{72 * time.Hour, 3},
	}
	for _, tt := range tests {
		if got := daysUsed(base, base.Add(tt.elapsed)); got != tt.want {
			t.Errorf("daysUsed(+%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestReportProblemOnIssuedItemClosesCustody(t *testing.T) {
	p := newTestPool(t, 1)
	item, _ := Issue(p, testCustodian(), "", 1)

	item, err := ReportProblem(p, item.UniqueID, "barrel cracked", "R. Deshmukh")
	if err != nil {
		t.Fatalf("ReportProblem: %v", err)
	}

	if item.Status != model.StatusMaintenance || item.Condition != model.ConditionPoor {
		t.Errorf("expected Maintenance/Poor, got %s/%s", item.Status, item.Condition)
	}
	if item.CurrentlyIssuedTo != nil {
		t.Error("custody must be cleared")
	}
	if item.UsageHistory[0].ReturnedDate == nil {
		t.Error("usage entry must be closed when an issued item is reported")
	}
	if item.MaintenanceHistory[0].Type != model.MaintenanceRepair {
		t.Errorf("expected Repair entry, got %s", item.MaintenanceHistory[0].Type)
	}
}

func TestReportProblemRejectsMaintenanceItem(t *testing.T) {
	p := newTestPool(t, 1)
	if _, err := ReportProblem(p, "PST-001", "first report", "x"); err != nil {
		t.Fatalf("ReportProblem: %v", err)
	}
	if _, err := ReportProblem(p, "PST-001", "second report", "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCompleteRepairRestoresItem(t *testing.T) {
	p := newTestPool(t, 1)
	ReportProblem(p, "PST-001", "sights bent", "x")

	item, err := CompleteRepair(p, "PST-001", "replaced sights", model.ConditionExcellent, "armorer", 450)
	if err != nil {
		t.Fatalf("CompleteRepair: %v", err)
	}

	if item.Status != model.StatusAvailable || item.Condition != model.ConditionExcellent {
		t.Errorf("expected Available/Excellent, got %s/%s", item.Status, item.Condition)
	}
	entry := item.MaintenanceHistory[0]
	if entry.FixedDate == nil {
		t.Fatal("maintenance entry must be closed")
	}
	if entry.Action != "replaced sights" || entry.FixedBy != "armorer" || entry.Cost != 450 {
		t.Errorf("unexpected repair details: %+v", entry)
	}
	if p.AvailableCount != 1 || p.MaintenanceCount != 0 {
		t.Errorf("expected counts 1/0, got %d/%d", p.AvailableCount, p.MaintenanceCount)
	}
}

func TestCompleteRepairRequiresFullRestoration(t *testing.T) {
	p := newTestPool(t, 1)
	ReportProblem(p, "PST-001", "x", "x")

	for _, cond := range []string{model.ConditionFair, model.ConditionPoor, ""} {
		if _, err := CompleteRepair(p, "PST-001", "patched", cond, "x", 0); err == nil {
			t.Errorf("expected error for repaired condition %q", cond)
		}
	}
}

func TestCompleteRepairRejectsNonMaintenanceItem(t *testing.T) {
	p := newTestPool(t, 1)
	if _, err := CompleteRepair(p, "PST-001", "x", model.ConditionGood, "x", 0); !errors.Is(err, ErrNotInMaintenance) {
		t.Errorf("expected ErrNotInMaintenance, got %v", err)
	}
}

func TestMarkLostOpensInvestigation(t *testing.T) {
	reportedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	fixNow(t, reportedAt)

	p := newTestPool(t, 1)
	item, _ := Issue(p, testCustodian(), "", 1)

	firDate := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	item, err := MarkLost(p, item.UniqueID, "FIR/2025/0042", firDate, "lost during riot duty")
	if err != nil {
		t.Fatalf("MarkLost: %v", err)
	}

	if item.Status != model.StatusMaintenance || !item.LostPending {
		t.Errorf("expected lost-pending Maintenance, got %s (pending=%v)", item.Status, item.LostPending)
	}
	if item.CurrentlyIssuedTo != nil {
		t.Error("custody must be cleared")
	}
	if got := item.UsageHistory[0].Remarks; got != "Reported lost (FIR FIR/2025/0042)" {
		t.Errorf("unexpected closure remarks %q", got)
	}

	if len(item.LostHistory) != 1 {
		t.Fatalf("expected 1 loss report, got %d", len(item.LostHistory))
	}
	report := item.LostHistory[0]
	if report.InvestigationStatus != model.InvestigationOpen {
		t.Errorf("expected open investigation, got %s", report.InvestigationStatus)
	}
	if !report.FIRDate.Equal(firDate) || report.FIRNumber != "FIR/2025/0042" {
		t.Errorf("unexpected FIR details: %+v", report)
	}
	if p.MaintenanceCount != 1 {
		t.Errorf("lost-pending item must count as maintenance, got %d", p.MaintenanceCount)
	}
}

func TestMarkLostRequiresIssuedItem(t *testing.T) {
	p := newTestPool(t, 1)
	if _, err := MarkLost(p, "PST-001", "FIR/1", time.Now(), ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestLostPendingItemCannotBeRepaired(t *testing.T) {
	p := newTestPool(t, 1)
	item, _ := Issue(p, testCustodian(), "", 1)
	MarkLost(p, item.UniqueID, "FIR/1", time.Now(), "")

	if _, err := CompleteRepair(p, item.UniqueID, "x", model.ConditionGood, "x", 0); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestWriteOffIsTerminal(t *testing.T) {
	p := newTestPool(t, 2)
	item, _ := Issue(p, testCustodian(), "", 1)
	MarkLost(p, item.UniqueID, "FIR/1", time.Now(), "")

	item, err := WriteOff(p, item.UniqueID, "investigation closed, not found")
	if err != nil {
		t.Fatalf("WriteOff: %v", err)
	}

	if item.Status != model.StatusLost || item.LostPending {
		t.Errorf("expected terminal Lost, got %s (pending=%v)", item.Status, item.LostPending)
	}
	report := item.LostHistory[0]
	if report.InvestigationStatus != model.InvestigationClosed || report.ClosedDate == nil {
		t.Error("loss report must be closed")
	}
	if report.Resolution != "investigation closed, not found" {
		t.Errorf("unexpected resolution %q", report.Resolution)
	}

	// Lost items are out of every counter.
	if p.AvailableCount != 1 || p.MaintenanceCount != 0 || p.IssuedCount != 0 {
		t.Errorf("unexpected counts %d/%d/%d", p.AvailableCount, p.IssuedCount, p.MaintenanceCount)
	}

	// No further transitions.
	if _, err := WriteOff(p, item.UniqueID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := Recover(p, item.UniqueID, "", model.ConditionGood); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestWriteOffRequiresPendingInvestigation(t *testing.T) {
	p := newTestPool(t, 1)
	ReportProblem(p, "PST-001", "x", "x")

	if _, err := WriteOff(p, "PST-001", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ordinary maintenance item must not be written off, got %v", err)
	}
}

func TestRecoverGoodConditionBackToStock(t *testing.T) {
	p := newTestPool(t, 1)
	item, _ := Issue(p, testCustodian(), "", 1)
	MarkLost(p, item.UniqueID, "FIR/1", time.Now(), "")

	item, err := Recover(p, item.UniqueID, "found in locker", model.ConditionGood)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}

	if item.Status != model.StatusAvailable || item.LostPending {
		t.Errorf("expected Available, got %s (pending=%v)", item.Status, item.LostPending)
	}
	if item.LostHistory[0].InvestigationStatus != model.InvestigationClosed {
		t.Error("loss report must be closed")
	}
	if p.AvailableCount != 1 {
		t.Errorf("expected available=1, got %d", p.AvailableCount)
	}
}

func TestRecoverPoorConditionGoesToMaintenance(t *testing.T) {
	p := newTestPool(t, 1)
	item, _ := Issue(p, testCustodian(), "", 1)
	MarkLost(p, item.UniqueID, "FIR/1", time.Now(), "")

	item, err := Recover(p, item.UniqueID, "recovered from river", model.ConditionPoor)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}

	if item.Status != model.StatusMaintenance || item.LostPending {
		t.Errorf("expected ordinary Maintenance, got %s (pending=%v)", item.Status, item.LostPending)
	}
	// The auto-opened inspection is the second maintenance entry: none was
	// opened when the item went lost-pending.
	if len(item.MaintenanceHistory) != 1 {
		t.Fatalf("expected 1 maintenance entry, got %d", len(item.MaintenanceHistory))
	}
	entry := item.MaintenanceHistory[0]
	if entry.Type != model.MaintenanceInspection || entry.FixedDate != nil {
		t.Errorf("expected open Inspection entry, got %+v", entry)
	}
	want := "Recovered in Poor condition. Notes: recovered from river"
	if entry.Reason != want {
		t.Errorf("expected reason %q, got %q", want, entry.Reason)
	}

	// Now it behaves like any maintenance item.
	if _, err := CompleteRepair(p, item.UniqueID, "full overhaul", model.ConditionGood, "armorer", 0); err != nil {
		t.Fatalf("CompleteRepair after recovery: %v", err)
	}
}

func TestCountsStayConsistentThroughLifecycle(t *testing.T) {
	p := newTestPool(t, 5)

	first, _ := Issue(p, testCustodian(), "", 1)
	second, _ := Issue(p, testCustodian(), "", 1)
	Return(p, first.UniqueID, model.ConditionPoor, "damaged", 1)
	MarkLost(p, second.UniqueID, "FIR/9", time.Now(), "")
	WriteOff(p, second.UniqueID, "")

	if !CountsConsistent(p) {
		t.Fatal("counts drifted from item statuses")
	}
	if p.AvailableCount != 3 || p.IssuedCount != 0 || p.MaintenanceCount != 1 {
		t.Errorf("unexpected counts %d/%d/%d", p.AvailableCount, p.IssuedCount, p.MaintenanceCount)
	}

	// One item is Lost; the live counters cover the remaining four.
	total := p.AvailableCount + p.IssuedCount + p.MaintenanceCount + p.DamagedCount
	if total != 4 {
		t.Errorf("expected 4 items in live counters, got %d", total)
	}
}
