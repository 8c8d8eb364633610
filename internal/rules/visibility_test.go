package rules

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/formlogic/internal/types"
)

func TestApplyAction(t *testing.T) {
	tests := []struct {
		action  types.Action
		matched bool
		want    types.Visibility
	}{
		{types.ActionShow, true, types.Visible},
		{types.ActionShow, false, types.Hidden},
		{types.ActionHide, true, types.Hidden},
		{types.ActionHide, false, types.Visible},
		{types.ActionRequire, true, types.Required},
		{types.ActionRequire, false, types.Visible},
		{types.Action("highlight"), true, types.Visible},
		{types.Action(""), false, types.Visible},
	}

	for _, tt := range tests {
		if got := applyAction(tt.action, tt.matched); got != tt.want {
			t.Errorf("applyAction(%q, %v) = %v, want %v", tt.action, tt.matched, got, tt.want)
		}
	}
}

func TestResolve_ShowOnYes(t *testing.T) {
	a := field("A", nil)
	b := field("B", logic(types.ActionShow, types.GroupAnd, cond("A", types.OpEquals, "yes")))
	fields := []types.Field{a, b}

	if got := Resolve(b, types.ValueMap{"A": types.String("yes")}, fields); got != types.Visible {
		t.Errorf("Resolve(A=yes) = %v, want visible", got)
	}
	if got := Resolve(b, types.ValueMap{"A": types.String("no")}, fields); got != types.Hidden {
		t.Errorf("Resolve(A=no) = %v, want hidden", got)
	}
	if got := Resolve(b, types.ValueMap{}, fields); got != types.Hidden {
		t.Errorf("Resolve(A absent) = %v, want hidden", got)
	}
}

func TestResolve_RequireAboveThreshold(t *testing.T) {
	qty := types.Field{ID: "qty", Name: "qty", Type: types.FieldNumber}
	notes := field("notes", logic(types.ActionRequire, types.GroupAnd, cond("qty", types.OpGreaterThan, "10")))
	fields := []types.Field{qty, notes}

	if got := Resolve(notes, types.ValueMap{"qty": types.Number(12)}, fields); got != types.Required {
		t.Errorf("Resolve(qty=12) = %v, want required", got)
	}
	if got := Resolve(notes, types.ValueMap{"qty": types.Number(5)}, fields); got != types.Visible {
		t.Errorf("Resolve(qty=5) = %v, want visible", got)
	}
	if got := Resolve(notes, types.ValueMap{"qty": types.String("lots")}, fields); got != types.Visible {
		t.Errorf("Resolve(qty=lots) = %v, want visible", got)
	}
}

func TestResolve_NoLogicIsVisible(t *testing.T) {
	f := types.Field{ID: "x", Name: "x", Required: true}
	if got := Resolve(f, nil, nil); got != types.Visible {
		t.Errorf("Resolve() = %v, want visible", got)
	}
}

func TestResolve_DanglingReference(t *testing.T) {
	show := field("B", logic(types.ActionShow, types.GroupAnd, cond("deleted", types.OpIsEmpty, "")))
	hide := field("C", logic(types.ActionHide, types.GroupAnd, cond("deleted", types.OpIsEmpty, "")))
	fields := []types.Field{show, hide}

	if got := Resolve(show, nil, fields); got != types.Hidden {
		t.Errorf("Resolve(show on dangling) = %v, want hidden", got)
	}
	if got := Resolve(hide, nil, fields); got != types.Visible {
		t.Errorf("Resolve(hide on dangling) = %v, want visible", got)
	}
}

func TestResolveAll(t *testing.T) {
	fields := []types.Field{
		field("A", nil),
		field("B", logic(types.ActionShow, types.GroupAnd, cond("A", types.OpEquals, "yes"))),
		field("C", logic(types.ActionHide, types.GroupOr, cond("A", types.OpEquals, "yes"), cond("B", types.OpIsNotEmpty, ""))),
		field("D", logic(types.ActionRequire, types.GroupAnd)),
	}

	got := ResolveAll(fields, types.ValueMap{"A": types.String("yes")})
	want := map[string]types.Visibility{
		"A": types.Visible,
		"B": types.Visible,
		"C": types.Hidden,
		"D": types.Required,
	}
	if len(got) != len(want) {
		t.Fatalf("len(ResolveAll()) = %d, want %d", len(got), len(want))
	}
	for id, v := range want {
		if got[id] != v {
			t.Errorf("ResolveAll()[%s] = %v, want %v", id, got[id], v)
		}
	}
}

func TestForm_UnknownFieldIsVisible(t *testing.T) {
	form := Compile([]types.Field{field("A", nil)})
	if got := form.Resolve("nope", nil); got != types.Visible {
		t.Errorf("Resolve(unknown id) = %v, want visible", got)
	}
	if _, ok := form.Field("nope"); ok {
		t.Errorf("Field(unknown id) ok = true, want false")
	}
}

func TestCompile_IsolatedFromCallerEdits(t *testing.T) {
	fields := []types.Field{
		field("A", nil),
		field("B", logic(types.ActionShow, types.GroupAnd, cond("A", types.OpEquals, "yes"))),
	}
	form := Compile(fields)
	fields[0].Name = "renamed"
	fields[1].Logic.Action = types.ActionHide
	fields[1].Logic.ConditionGroup.Rules[0].Condition.Value = "no"

	if got := form.Resolve("B", types.ValueMap{"A": types.String("yes")}); got != types.Visible {
		t.Errorf("Resolve() after caller edit = %v, want visible", got)
	}
	if got, _ := form.Field("B"); got.Logic.Action != types.ActionShow {
		t.Errorf("Field(B).Logic.Action = %v, want show", got.Logic.Action)
	}
}

func TestResolve_RequireWhenNotEmpty(t *testing.T) {
	a := field("A", nil)
	c := field("C", logic(types.ActionRequire, types.GroupAnd, cond("A", types.OpIsNotEmpty, "")))
	fields := []types.Field{a, c}

	tests := []struct {
		name   string
		values types.ValueMap
		want   types.Visibility
	}{
		{name: "empty string", values: types.ValueMap{"A": types.String("")}, want: types.Visible},
		{name: "filled", values: types.ValueMap{"A": types.String("x")}, want: types.Required},
		{name: "absent", values: types.ValueMap{}, want: types.Visible},
		{name: "null", values: types.ValueMap{"A": types.Null()}, want: types.Visible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(c, tt.values, fields); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSectionVisible(t *testing.T) {
	fields := []types.Field{
		{ID: "a", Name: "a", SectionID: "s1"},
		{ID: "b", Name: "b", SectionID: "s1"},
		{ID: "c", Name: "c", SectionID: "s2"},
	}

	tests := []struct {
		name    string
		section string
		states  map[string]types.Visibility
		want    bool
	}{
		{name: "one visible", section: "s1", states: map[string]types.Visibility{"a": types.Hidden, "b": types.Visible}, want: true},
		{name: "required counts as shown", section: "s1", states: map[string]types.Visibility{"a": types.Hidden, "b": types.Required}, want: true},
		{name: "all hidden", section: "s1", states: map[string]types.Visibility{"a": types.Hidden, "b": types.Hidden}, want: false},
		{name: "missing state is visible", section: "s2", states: map[string]types.Visibility{}, want: true},
		{name: "no fields", section: "s3", states: map[string]types.Visibility{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SectionVisible(tt.section, fields, tt.states); got != tt.want {
				t.Errorf("SectionVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_PropertyCompiledAgrees(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("compiled ResolveAll matches per-field Resolve", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			fields := randomForm(r, 2+r.Intn(8))
			values := randomValues(r, fields)

			all := ResolveAll(fields, values)
			for _, f := range fields {
				if all[f.ID] != Resolve(f, values, fields) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("fields without logic are always visible", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			fields := randomForm(r, 6)
			values := randomValues(r, fields)
			for _, f := range fields {
				if f.Logic == nil && Resolve(f, values, fields) != types.Visible {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
