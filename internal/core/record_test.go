package core

import (
	"strings"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		id := NewID()
		if id == "" {
			t.Fatalf("iteration %d produced empty id", i)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("iteration %d produced duplicate id %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestValidateDate(t *testing.T) {
	cases := []struct {
		date string
		ok   bool
	}{
		{"2024-01-05", true},
		{"", true}, // sparse records are allowed
		{"2024-13-05", false},
		{"05/01/2024", false},
		{"not-a-date", false},
	}
	for i, tc := range cases {
		err := Record{Date: tc.date}.ValidateDate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error for %q", i, tc.date)
		}
	}
}

func TestRecordLess(t *testing.T) {
	newer := Record{ID: "a", Date: "2024-02-01"}
	older := Record{ID: "z", Date: "2024-01-01"}
	if !newer.Less(older) {
		t.Fatalf("newer date should sort first")
	}
	if older.Less(newer) {
		t.Fatalf("older date should not sort first")
	}

	// Ties on date break by descending id.
	hi := Record{ID: "b", Date: "2024-01-01"}
	lo := Record{ID: "a", Date: "2024-01-01"}
	if !hi.Less(lo) {
		t.Fatalf("higher id should sort first on equal dates")
	}
}

func TestDefaultVocabularies(t *testing.T) {
	if len(DefaultSpecialties) == 0 || len(DefaultRegionals) == 0 {
		t.Fatalf("vocabularies must not be empty")
	}
	for _, s := range DefaultSpecialties {
		if strings.TrimSpace(s) == "" {
			t.Fatalf("blank specialty entry")
		}
	}
}
