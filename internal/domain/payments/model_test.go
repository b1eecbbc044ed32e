package payments

import "testing"

func TestValidMSISDN(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"telma", "0341234567", true},
		{"orange 32", "0321234567", true},
		{"airtel 33", "0331234567", true},
		{"orange 38", "0381234567", true},
		{"landline prefix", "0201234567", false},
		{"too short", "034123456", false},
		{"too long", "03412345678", false},
		{"letters", "034123456a", false},
		{"missing leading zero", "341234567", false},
		{"international format", "+261341234567", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidMSISDN(tc.input); got != tc.want {
				t.Errorf("ValidMSISDN(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestMethod_Valid(t *testing.T) {
	if !MethodCash.Valid() || !MethodMobileMoney.Valid() {
		t.Error("expected cash and mobile_money to be valid methods")
	}
	if Method("card").Valid() {
		t.Error("expected unknown method to be invalid")
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !StatusSucceeded.Terminal() || !StatusFailed.Terminal() {
		t.Error("succeeded and failed must be terminal")
	}
}
