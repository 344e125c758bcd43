package catalog

import "testing"

func TestToolName_Normalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"accounts_list", "accounts_list"},
		{"Accounts.List", "accounts_list"},
		{"GET__widgets__id_", "get_widgets_id"},
		{"get-widget-by-id", "get_widget_by_id"},
		{"___already___ugly___", "already_ugly"},
		{"CamelCaseOp", "camelcaseop"},
		{"v1/orders/{id}", "v1_orders_id"},
	}
	for _, tc := range cases {
		if got := ToolName(tc.in); got != tc.want {
			t.Errorf("ToolName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToolName_Idempotent(t *testing.T) {
	inputs := []string{"accounts_list", "Accounts.List", "GET /widgets/{id}", "a--b__c"}
	for _, in := range inputs {
		once := ToolName(in)
		twice := ToolName(once)
		if once != twice {
			t.Errorf("ToolName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestToolName_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if got := ToolName("Orders.Create!"); got != "orders_create" {
			t.Fatalf("ToolName changed across calls: %q", got)
		}
	}
}

func TestToolName_PunctuationCollisions(t *testing.T) {
	// Known collision-prone behavior: punctuation-only differences collapse.
	a := ToolName("orders.create")
	b := ToolName("orders-create")
	if a != b {
		t.Errorf("expected punctuation variants to collide: %q vs %q", a, b)
	}
}
