package rules

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/formlogic/internal/types"
)

func TestPurgeReferences_DropsConditionKeepsLogic(t *testing.T) {
	fields := []types.Field{
		field("A", nil),
		field("C", nil),
		field("B", logic(types.ActionShow, types.GroupAnd,
			cond("A", types.OpEquals, "1"),
			cond("C", types.OpEquals, "2"),
		)),
	}

	out, report := PurgeWithReport(fields, types.NewIDSet("A"))

	want := []types.Field{
		field("C", nil),
		field("B", logic(types.ActionShow, types.GroupAnd, cond("C", types.OpEquals, "2"))),
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("PurgeWithReport() mismatch (-want +got):\n%s", diff)
	}
	if report.ConditionsDropped != 1 || report.GroupsDropped != 0 {
		t.Errorf("report = %+v, want 1 condition and 0 groups dropped", report)
	}
	if diff := cmp.Diff([]string{"A"}, report.RemovedFields); diff != "" {
		t.Errorf("RemovedFields mismatch (-want +got):\n%s", diff)
	}
}

func TestPurgeReferences_CollapsesToNoLogic(t *testing.T) {
	fields := []types.Field{
		field("A", nil),
		field("B", logic(types.ActionShow, types.GroupOr, and(cond("A", types.OpEquals, "1")))),
	}

	out, report := PurgeWithReport(fields, types.NewIDSet("A"))

	if len(out) != 1 || out[0].ID != "B" {
		t.Fatalf("PurgeWithReport() = %+v, want only B", out)
	}
	if out[0].Logic != nil {
		t.Errorf("B.Logic = %+v, want nil", out[0].Logic)
	}
	if report.GroupsDropped != 1 || report.ConditionsDropped != 1 {
		t.Errorf("report = %+v, want 1 group and 1 condition dropped", report)
	}
	if diff := cmp.Diff([]string{"B"}, report.LogicCleared); diff != "" {
		t.Errorf("LogicCleared mismatch (-want +got):\n%s", diff)
	}
	// B now resolves visible instead of being hidden forever
	if got := Resolve(out[0], nil, out); got != types.Visible {
		t.Errorf("Resolve(B) = %v, want visible", got)
	}
}

func TestPurgeReferences_NestedGroupDropped(t *testing.T) {
	tests := []struct {
		name       string
		logic      *types.LogicRule
		want       *types.LogicRule
		wantGroups int
	}{
		{
			name:       "nested OR emptied, root AND keeps its leaf",
			logic:      logic(types.ActionShow, types.GroupAnd, cond("X", types.OpEquals, "1"), or(cond("A", types.OpEquals, "2"))),
			want:       logic(types.ActionShow, types.GroupAnd, cond("X", types.OpEquals, "1")),
			wantGroups: 1,
		},
		{
			name: "doubly nested group emptied",
			logic: logic(types.ActionHide, types.GroupOr,
				and(cond("A", types.OpIsEmpty, ""), or(cond("A", types.OpEquals, "3"))),
				cond("X", types.OpIsNotEmpty, "")),
			want:       logic(types.ActionHide, types.GroupOr, cond("X", types.OpIsNotEmpty, "")),
			wantGroups: 2,
		},
		{
			name:       "nested group keeps surviving leaf",
			logic:      logic(types.ActionRequire, types.GroupAnd, or(cond("A", types.OpEquals, "2"), cond("X", types.OpEquals, "3"))),
			want:       logic(types.ActionRequire, types.GroupAnd, or(cond("X", types.OpEquals, "3"))),
			wantGroups: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := []types.Field{field("A", nil), field("X", nil), field("B", tt.logic)}

			out, report := PurgeWithReport(fields, types.NewIDSet("A"))

			want := []types.Field{field("X", nil), field("B", tt.want)}
			if diff := cmp.Diff(want, out); diff != "" {
				t.Errorf("PurgeWithReport() mismatch (-want +got):\n%s", diff)
			}
			if report.GroupsDropped != tt.wantGroups {
				t.Errorf("GroupsDropped = %d, want %d", report.GroupsDropped, tt.wantGroups)
			}
			if len(report.LogicCleared) != 0 {
				t.Errorf("LogicCleared = %v, want none", report.LogicCleared)
			}
		})
	}
}

func TestPurgeReferences_Batch(t *testing.T) {
	fields := []types.Field{
		field("A", nil),
		field("B", nil),
		field("C", nil),
		field("D", logic(types.ActionRequire, types.GroupAnd,
			cond("A", types.OpIsEmpty, ""),
			or(cond("B", types.OpEquals, "x"), cond("C", types.OpEquals, "y")),
			cond("C", types.OpContains, "z"),
		)),
	}

	out := RemoveFields(fields, "A", "B")

	want := []types.Field{
		field("C", nil),
		field("D", logic(types.ActionRequire, types.GroupAnd,
			or(cond("C", types.OpEquals, "y")),
			cond("C", types.OpContains, "z"),
		)),
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("RemoveFields() mismatch (-want +got):\n%s", diff)
	}
}

func TestPurgeReferences_InputUnchanged(t *testing.T) {
	fields := []types.Field{
		field("A", nil),
		field("B", logic(types.ActionShow, types.GroupAnd,
			cond("A", types.OpEquals, "1"),
			and(cond("A", types.OpEquals, "2")),
		)),
	}
	before := cloneFields(fields)

	_ = PurgeReferences(fields, types.NewIDSet("A"))

	if diff := cmp.Diff(before, fields); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestPurgeReferences_TotalOnMissingRules(t *testing.T) {
	fields := []types.Field{
		field("B", &types.LogicRule{Action: types.ActionShow, ConditionGroup: types.ConditionGroup{Operator: types.GroupAnd}}),
		field("C", logic(types.ActionHide, types.GroupAnd, types.RuleNode{}, cond("B", types.OpEquals, ""))),
	}

	out, report := PurgeWithReport(fields, types.NewIDSet())

	if out[0].Logic != nil {
		t.Errorf("B.Logic = %+v, want nil (empty root cleared)", out[0].Logic)
	}
	if got := len(out[1].Logic.ConditionGroup.Rules); got != 1 {
		t.Errorf("len(C rules) = %d, want 1 (malformed node dropped)", got)
	}
	if report.GroupsDropped != 1 {
		t.Errorf("GroupsDropped = %d, want 1", report.GroupsDropped)
	}
}

func TestPurgeReport_Changed(t *testing.T) {
	fields := []types.Field{field("A", nil), field("B", logic(types.ActionShow, types.GroupAnd, cond("A", types.OpEquals, "1")))}

	if _, r := PurgeWithReport(fields, types.NewIDSet("ghost")); r.Changed() {
		t.Errorf("Changed() = true for unknown id, want false")
	}
	if _, r := PurgeWithReport(fields, types.NewIDSet("A")); !r.Changed() {
		t.Errorf("Changed() = false, want true")
	}
}

func TestRemoveSection(t *testing.T) {
	def := types.Definition{
		Sections: []types.Section{{ID: "s1", Title: "Site"}, {ID: "s2", Title: "Crew"}},
		Fields: []types.Field{
			{ID: "a", Name: "a", SectionID: "s1"},
			{ID: "b", Name: "b", SectionID: "s1"},
			{ID: "c", Name: "c", SectionID: "s2", Logic: logic(types.ActionShow, types.GroupOr,
				cond("a", types.OpEquals, "1"),
				cond("b", types.OpEquals, "2"),
			)},
			{ID: "d", Name: "d", SectionID: "s2", Logic: logic(types.ActionHide, types.GroupAnd,
				cond("a", types.OpIsEmpty, ""),
				cond("c", types.OpIsEmpty, ""),
			)},
		},
	}

	out, report := RemoveSection(def, "s1")

	if len(out.Sections) != 1 || out.Sections[0].ID != "s2" {
		t.Errorf("Sections = %+v, want only s2", out.Sections)
	}
	if len(out.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(out.Fields))
	}
	if out.Fields[0].Logic != nil {
		t.Errorf("c.Logic = %+v, want nil", out.Fields[0].Logic)
	}
	wantD := logic(types.ActionHide, types.GroupAnd, cond("c", types.OpIsEmpty, ""))
	if diff := cmp.Diff(wantD, out.Fields[1].Logic); diff != "" {
		t.Errorf("d.Logic mismatch (-want +got):\n%s", diff)
	}
	if report.ConditionsDropped != 3 {
		t.Errorf("ConditionsDropped = %d, want 3", report.ConditionsDropped)
	}
}

func TestPurge_PropertyInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	// randomRemoval picks a random subset of the form's ids plus "ghost".
	randomRemoval := func(r *rand.Rand, fields []types.Field) types.IDSet {
		removed := types.NewIDSet()
		for _, f := range fields {
			if r.Intn(3) == 0 {
				removed[f.ID] = struct{}{}
			}
		}
		if r.Intn(2) == 0 {
			removed["ghost"] = struct{}{}
		}
		return removed
	}

	properties.Property("no reference to a removed id survives", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			fields := randomForm(r, 6)
			removed := randomRemoval(r, fields)
			for _, f := range PurgeReferences(fields, removed) {
				if removed.Has(f.ID) {
					return false
				}
				if f.Logic == nil {
					continue
				}
				for _, ref := range collectRefs(&f.Logic.ConditionGroup, nil) {
					if removed.Has(ref) {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("no empty group survives", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			fields := randomForm(r, 6)
			for _, f := range PurgeReferences(fields, randomRemoval(r, fields)) {
				if f.Logic == nil {
					continue
				}
				if len(f.Logic.ConditionGroup.Rules) == 0 || hasEmptyGroup(&f.Logic.ConditionGroup) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("purge is idempotent", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			fields := randomForm(r, 6)
			removed := randomRemoval(r, fields)
			once := PurgeReferences(fields, removed)
			twice, report := PurgeWithReport(once, removed)
			return cmp.Equal(once, twice) && !report.Changed()
		},
		gen.Int64(),
	))

	properties.Property("input is never mutated", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			fields := randomForm(r, 6)
			before := cloneFields(fields)
			_ = PurgeReferences(fields, randomRemoval(r, fields))
			return cmp.Equal(before, fields)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func cloneFields(fields []types.Field) []types.Field {
	out := make([]types.Field, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}
