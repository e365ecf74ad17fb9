package enums

import "testing"

func TestParseProductionStatus(t *testing.T) {
	got, err := ParseProductionStatus("ready_to_print")
	if err != nil || got != ProductionStatusReadyToPrint {
		t.Fatalf("unexpected parse result %q err=%v", got, err)
	}
	if _, err := ParseProductionStatus("printed"); err == nil {
		t.Fatal("printed is not a workflow state")
	}
}

func TestStageTargetsAreDisjoint(t *testing.T) {
	for _, s := range DesignTargets {
		if s.In(ProductionTargets) {
			t.Fatalf("%s appears in both stage target sets", s)
		}
	}
	if !ProductionStatusPickedUp.IsTerminal() || ProductionStatusCompleted.IsTerminal() {
		t.Fatal("only picked_up is terminal")
	}
}

func TestRoleAndOptionParsing(t *testing.T) {
	cases := []struct {
		name  string
		parse func(string) error
		ok    []string
		bad   string
	}{
		{"role", func(v string) error { _, err := ParseRole(v); return err }, []string{"admin", "kasir", "desainer", "operator", "manajer"}, "agent"},
		{"payment option", func(v string) error { _, err := ParsePaymentOption(v); return err }, []string{"full", "dp", "later"}, "credit"},
		{"inventory log type", func(v string) error { _, err := ParseInventoryLogType(v); return err }, []string{"in", "out", "opname"}, "adjust"},
		{"transaction type", func(v string) error { _, err := ParseTransactionType(v); return err }, []string{"in", "out"}, "transfer"},
		{"pickup action", func(v string) error { _, err := ParsePickupAction(v); return err }, []string{"pickup_now", "pay_only"}, "ship"},
		{"payment status", func(v string) error { _, err := ParsePaymentStatus(v); return err }, []string{"unpaid", "partial", "paid"}, "settled"},
	}
	for _, tc := range cases {
		for _, v := range tc.ok {
			if err := tc.parse(v); err != nil {
				t.Fatalf("%s: %q should parse: %v", tc.name, v, err)
			}
		}
		if err := tc.parse(tc.bad); err == nil {
			t.Fatalf("%s: %q should be rejected", tc.name, tc.bad)
		}
	}
}

func TestProductionStatusStrings(t *testing.T) {
	got := ProductionStatusStrings(ProductionQueueStatuses)
	if len(got) != 2 || got[0] != "ready_to_print" || got[1] != "in_production" {
		t.Fatalf("unexpected strings %v", got)
	}
}
