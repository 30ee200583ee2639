package commands

import (
	"errors"
	"testing"
)

func TestParseTaskNumber(t *testing.T) {
	num, err := ParseTaskNumber([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 5 {
		t.Errorf("expected 5, got %d", num)
	}
}

func TestParseTaskNumber_LeadingZeros(t *testing.T) {
	num, err := ParseTaskNumber([]string{"007"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 7 {
		t.Errorf("expected 7, got %d", num)
	}
}

func TestParseTaskNumber_Required(t *testing.T) {
	_, err := ParseTaskNumber(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskNumber_Errors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a1"}, "invalid task reference: a1"},
		{[]string{"-1"}, "invalid task reference: -1"},
		{[]string{"1.5"}, "invalid task reference: 1.5"},
		{[]string{"٣"}, "invalid task reference: ٣"},
		{[]string{"0"}, "task number out of range: 0"},
		{[]string{"1", "2"}, "unexpected argument: 2"},
		{[]string{"99999999999999999999999"}, "invalid task reference: 99999999999999999999999"},
	}

	for _, tt := range tests {
		_, err := ParseTaskNumber(tt.args)
		if err == nil {
			t.Errorf("ParseTaskNumber(%q): expected error", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("ParseTaskNumber(%q): expected %q, got %q", tt.args, tt.want, err.Error())
		}
	}
}
