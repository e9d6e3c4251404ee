package domain

import (
	"reflect"
	"testing"
)

func strptr(s string) *string { return &s }

func TestProjectGroups_SortsByOrderIndex(t *testing.T) {
	ms := []Membership{
		{BookmarkID: "bmk-1", GroupID: "grp-c", OrderIndex: 2},
		{BookmarkID: "bmk-1", GroupID: "grp-a", OrderIndex: 0},
		{BookmarkID: "bmk-1", GroupID: "grp-b", OrderIndex: 1},
	}

	got := ProjectGroups(ms)
	want := []string{"grp-a", "grp-b", "grp-c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProjectGroups: got %v, want %v", got, want)
	}
}

func TestProjectGroups_TiesBreakByGroupID(t *testing.T) {
	ms := []Membership{
		{GroupID: "grp-z", OrderIndex: 1},
		{GroupID: "grp-a", OrderIndex: 1},
	}

	got := ProjectGroups(ms)
	want := []string{"grp-a", "grp-z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProjectGroups: got %v, want %v", got, want)
	}
}

func TestProjectGroups_DoesNotMutateInput(t *testing.T) {
	ms := []Membership{
		{GroupID: "grp-b", OrderIndex: 1},
		{GroupID: "grp-a", OrderIndex: 0},
	}

	_ = ProjectGroups(ms)
	if ms[0].GroupID != "grp-b" {
		t.Error("ProjectGroups mutated its input")
	}
}

func TestGroupOrderIndexes_AlignedWithGroupIDs(t *testing.T) {
	b := &Bookmark{
		Memberships: []Membership{
			{GroupID: "grp-c", OrderIndex: 7},
			{GroupID: "grp-a", OrderIndex: 0},
			{GroupID: "grp-b", OrderIndex: 3},
		},
	}

	ids := b.GroupIDs()
	indexes := b.GroupOrderIndexes()
	if !reflect.DeepEqual(ids, []string{"grp-a", "grp-b", "grp-c"}) {
		t.Fatalf("GroupIDs: got %v", ids)
	}
	if !reflect.DeepEqual(indexes, []int{0, 3, 7}) {
		t.Errorf("GroupOrderIndexes: got %v, want [0 3 7]", indexes)
	}
}

func TestReconcileTabs_PrimaryPreservedAndMovedFirst(t *testing.T) {
	primary, ordered := ReconcileTabs(strptr("tab-a"), []string{"tab-c", "tab-a", "tab-b"})

	if primary == nil || *primary != "tab-a" {
		t.Fatalf("primary: got %v, want tab-a", primary)
	}
	want := []string{"tab-a", "tab-c", "tab-b"}
	if !reflect.DeepEqual(ordered, want) {
		t.Errorf("ordered: got %v, want %v", ordered, want)
	}
}

func TestReconcileTabs_PrimaryGoneFallsBackToFirst(t *testing.T) {
	primary, ordered := ReconcileTabs(strptr("tab-a"), []string{"tab-b", "tab-c"})

	if primary == nil || *primary != "tab-b" {
		t.Fatalf("primary: got %v, want tab-b", primary)
	}
	want := []string{"tab-b", "tab-c"}
	if !reflect.DeepEqual(ordered, want) {
		t.Errorf("ordered: got %v, want %v", ordered, want)
	}
}

func TestReconcileTabs_EmptySetClearsPrimary(t *testing.T) {
	primary, ordered := ReconcileTabs(strptr("tab-a"), nil)

	if primary != nil {
		t.Errorf("primary: got %q, want nil", *primary)
	}
	if len(ordered) != 0 {
		t.Errorf("ordered: got %v, want empty", ordered)
	}
}

func TestReconcileTabs_NoPriorPrimary(t *testing.T) {
	primary, ordered := ReconcileTabs(nil, []string{"tab-x", "tab-y"})

	if primary == nil || *primary != "tab-x" {
		t.Fatalf("primary: got %v, want tab-x", primary)
	}
	if !reflect.DeepEqual(ordered, []string{"tab-x", "tab-y"}) {
		t.Errorf("ordered: got %v", ordered)
	}
}
