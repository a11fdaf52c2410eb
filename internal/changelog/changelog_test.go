package changelog

import (
	"fmt"
	"testing"
	"time"
)

func TestAppend_NewestFirstAndBounded(t *testing.T) {
	l := New(DefaultLimit)
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.Local)
	for i := range 8 {
		l.Append(Record{Kind: KindEdit, BlockID: fmt.Sprintf("9-%d", i), At: at})
	}

	if l.Len() != 5 {
		t.Fatalf("got %d records, want 5", l.Len())
	}
	recs := l.Records()
	for i, r := range recs {
		want := fmt.Sprintf("9-%d", 7-i)
		if r.BlockID != want {
			t.Errorf("record %d: got %s, want %s", i, r.BlockID, want)
		}
	}
}

func TestRecords_ReturnsCopy(t *testing.T) {
	l := New(0)
	l.Append(Record{BlockID: "a"})
	recs := l.Records()
	recs[0].BlockID = "changed"

	if r, _ := l.Latest(); r.BlockID != "a" {
		t.Error("Records must not expose internal storage")
	}
}

func TestRecords_CopiesAffected(t *testing.T) {
	l := New(0)
	l.Append(Record{Kind: KindPush, BlockID: "a", Affected: []string{"b", "c"}})
	recs := l.Records()
	recs[0].Affected[0] = "changed"

	if r, _ := l.Latest(); r.Affected[0] != "b" {
		t.Errorf("Affected = %v, want internal storage untouched", r.Affected)
	}
}

func TestPop(t *testing.T) {
	l := New(3)
	if _, ok := l.Pop(); ok {
		t.Fatal("pop on empty log should report false")
	}
	l.Append(Record{BlockID: "a"})
	l.Append(Record{BlockID: "b"})

	r, ok := l.Pop()
	if !ok || r.BlockID != "b" {
		t.Fatalf("got %v %v, want b", r.BlockID, ok)
	}
	if l.Len() != 1 {
		t.Errorf("got %d records, want 1", l.Len())
	}

	l.Clear()
	if l.Len() != 0 {
		t.Error("clear left records behind")
	}
}
