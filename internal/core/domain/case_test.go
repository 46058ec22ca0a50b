package domain

import "testing"

func TestCaseStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    CaseStatus
		to      CaseStatus
		allowed bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusHearing, false},
		{StatusDraft, StatusCompleted, false},
		{StatusSubmitted, StatusHearing, true},
		{StatusSubmitted, StatusCancelled, true},
		{StatusSubmitted, StatusNegotiating, false},
		{StatusHearing, StatusNegotiating, true},
		{StatusHearing, StatusCancelled, true},
		{StatusHearing, StatusCompleted, false},
		{StatusNegotiating, StatusCompleted, true},
		{StatusNegotiating, StatusCancelled, true},
		{StatusNegotiating, StatusDraft, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusDraft, false},
		{StatusCancelled, StatusSubmitted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestCaseStatus_Terminal(t *testing.T) {
	for _, s := range []CaseStatus{StatusCompleted, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []CaseStatus{StatusDraft, StatusSubmitted, StatusHearing, StatusNegotiating} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestCaseStatus_DisplayLabel(t *testing.T) {
	want := map[CaseStatus]string{
		StatusDraft:       "下書き",
		StatusSubmitted:   "提出済み",
		StatusHearing:     "ヒアリング中",
		StatusNegotiating: "交渉中",
		StatusCompleted:   "完了",
		StatusCancelled:   "キャンセル",
	}
	for status, label := range want {
		if got := status.DisplayLabel(); got != label {
			t.Errorf("DisplayLabel(%s) = %q, want %q", status, got, label)
		}
		// Pure function: re-invocation yields the same output.
		if got := status.DisplayLabel(); got != label {
			t.Errorf("DisplayLabel(%s) not stable, got %q", status, got)
		}
	}
	if got := CaseStatus("bogus").DisplayLabel(); got != "不明" {
		t.Errorf("DisplayLabel(bogus) = %q, want 不明", got)
	}
}

func TestCaseStatus_ProgressValue(t *testing.T) {
	want := map[CaseStatus]int{
		StatusDraft:       10,
		StatusSubmitted:   20,
		StatusHearing:     40,
		StatusNegotiating: 70,
		StatusCompleted:   100,
		StatusCancelled:   0,
	}
	for status, progress := range want {
		if got := status.ProgressValue(); got != progress {
			t.Errorf("ProgressValue(%s) = %d, want %d", status, got, progress)
		}
	}
}

func TestCaseStatus_IsValid(t *testing.T) {
	for _, s := range []CaseStatus{StatusDraft, StatusSubmitted, StatusHearing, StatusNegotiating, StatusCompleted, StatusCancelled} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if CaseStatus("shipped").IsValid() {
		t.Error("unknown status should not be valid")
	}
}
