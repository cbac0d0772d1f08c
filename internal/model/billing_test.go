package model

import "testing"

func TestIsValidInvoiceStatus(t *testing.T) {
	valid := []string{
		StatusInvoiceReceive,
		StatusInvoiceInward,
		StatusAccountVerification,
		StatusPHSignature,
		StatusPortalUpdate,
		StatusDelayed,
		StatusIssue,
	}
	for _, s := range valid {
		if !IsValidInvoiceStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "shipped", "Invoice_Receive", "paid", "inward issue"}
	for _, s := range invalid {
		if IsValidInvoiceStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestStageIndex(t *testing.T) {
	cases := []struct {
		status string
		want   int
	}{
		{"", -1},
		{StatusInvoiceReceive, 0},
		{StatusInvoiceInward, 1},
		{StatusAccountVerification, 2},
		{StatusPHSignature, 3},
		{StatusPortalUpdate, 4},
		{StatusDelayed, 0},
		{StatusIssue, 0},
		{"unknown", -1},
	}
	for _, tc := range cases {
		if got := StageIndex(tc.status); got != tc.want {
			t.Errorf("StageIndex(%q) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

func TestOrderedStagesShape(t *testing.T) {
	if len(OrderedStages) != 5 {
		t.Fatalf("expected 5 ordered stages, got %d", len(OrderedStages))
	}
	if OrderedStages[0] != StatusInvoiceReceive || OrderedStages[4] != StatusPortalUpdate {
		t.Fatalf("unexpected stage ordering: %v", OrderedStages)
	}
}
