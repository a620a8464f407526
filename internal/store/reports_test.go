package store

import (
	"context"
	"testing"
	"time"

	"github.com/svelankar/armory/internal/db"
	"github.com/svelankar/armory/internal/model"
	"github.com/svelankar/armory/internal/pool"
)

func TestSummaryRollsUpStatuses(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	officer := createOfficer(t, database, "kulkarni", "Police Inspector (PI)")

	pistols := createRequestPool(t, database)
	radios, _ := pool.New("Radios", "Communication Device", "MTR", "", "RAD", 3, nil)
	if _, err := CreatePool(ctx, database, radios); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	custodian := pool.Custodian{
		UserID:      officer.ID,
		OfficerID:   officer.OfficerID,
		OfficerName: officer.FullName,
		Designation: officer.Designation,
	}

	issued, _, err := IssueFromPool(ctx, database, pistols.ID, custodian, "", 1)
	if err != nil {
		t.Fatalf("IssueFromPool: %v", err)
	}
	if _, _, err := MarkItemLost(ctx, database, pistols.ID, issued.UniqueID, "FIR/1", time.Now(), ""); err != nil {
		t.Fatalf("MarkItemLost: %v", err)
	}

	if _, err := CreateRequest(ctx, database, &model.Request{
		RequestedBy: officer.ID, PoolID: pistols.ID, Type: model.RequestIssue, Reason: "patrol",
	}); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	s, err := Summary(ctx, database)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if s.TotalEquipment != 5 {
		t.Errorf("expected 5 total, got %d", s.TotalEquipment)
	}
	if s.CategoryTotals["Firearm"] != 2 || s.CategoryTotals["Communication Device"] != 3 {
		t.Errorf("unexpected category totals: %v", s.CategoryTotals)
	}
	if s.StatusBreakdown[model.StatusAvailable] != 4 {
		t.Errorf("expected 4 available, got %d", s.StatusBreakdown[model.StatusAvailable])
	}
	if s.StatusBreakdown[model.StatusMaintenance] != 1 {
		t.Errorf("expected 1 in maintenance, got %d", s.StatusBreakdown[model.StatusMaintenance])
	}
	if s.OpenLossReports != 1 {
		t.Errorf("expected 1 open loss report, got %d", s.OpenLossReports)
	}
	if s.ItemsInRepair != 0 {
		t.Errorf("lost-pending item must not count as in repair, got %d", s.ItemsInRepair)
	}
	if s.PendingRequests != 1 {
		t.Errorf("expected 1 pending request, got %d", s.PendingRequests)
	}
}
