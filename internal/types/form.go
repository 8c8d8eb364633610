// Package types provides domain models shared across FormLogic components.
//
// Wire shapes mirror the form definition document that the form builder stores
// as opaque JSON: fields carry an optional logic rule whose condition group is a
// recursive tree of conditions and nested groups. Conversion from other wire
// formats (YAML files, gRPC requests) happens at the boundary packages.
package types

import (
	"encoding/json"
)

// FieldType is the input widget kind of a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldTable    FieldType = "table"
)

// Action is what a logic rule does to its field when the condition group holds.
type Action string

const (
	ActionShow    Action = "show"
	ActionHide    Action = "hide"
	ActionRequire Action = "require"
)

// GroupOperator combines the results of a group's rule nodes.
type GroupOperator string

const (
	GroupAnd GroupOperator = "AND"
	GroupOr  GroupOperator = "OR"
)

// Operator is a leaf comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
	OpIsEmpty     Operator = "is_empty"
	OpIsNotEmpty  Operator = "is_not_empty"
)

// Operators lists every leaf operator in builder order.
var Operators = []Operator{
	OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpContains, OpIsEmpty, OpIsNotEmpty,
}

// Known reports whether op is one of the seven leaf operators.
func (op Operator) Known() bool {
	for _, o := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// NeedsValue reports whether the operator compares against Condition.Value.
// is_empty and is_not_empty ignore the value entirely.
func (op Operator) NeedsValue() bool {
	return op != OpIsEmpty && op != OpIsNotEmpty
}

// Visibility is the resolved state of a field for the renderer and validator.
type Visibility string

const (
	Visible  Visibility = "visible"
	Hidden   Visibility = "hidden"
	Required Visibility = "required"
)

// MaxGroupDepth bounds nesting at build time: root group is depth 0, the
// deepest nested group is depth 2. Evaluation does not enforce it.
const MaxGroupDepth = 2

// Field is a single input definition in a form.
// ID is immutable once created; Name is the key into the ValueMap.
// Members the engine does not interpret (placeholder, help_text,
// table_columns, default_rows, ...) are kept in Extra and written back
// unchanged, so a rewritten definition loses nothing the builder stored.
type Field struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Label     string         `json:"label,omitempty"`
	Type      FieldType      `json:"type"`
	Required  bool           `json:"required"`
	SectionID string         `json:"section_id,omitempty"`
	Order     int            `json:"order,omitempty"`
	Options   []Option       `json:"options,omitempty"`
	Logic     *LogicRule     `json:"logic"`
	Extra     map[string]any `json:"-"`
}

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// fieldJSON has Field's layout without its methods.
type fieldJSON Field

// fieldKeys are the members decoded into Field's typed attributes.
var fieldKeys = []string{"id", "name", "label", "type", "required", "section_id", "order", "options", "logic"}

// UnmarshalJSON implements json.Unmarshaler, collecting unknown members into Extra.
func (f *Field) UnmarshalJSON(data []byte) error {
	var known fieldJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range fieldKeys {
		delete(all, k)
	}
	known.Extra = nil
	if len(all) > 0 {
		known.Extra = all
	}
	*f = Field(known)
	return nil
}

// MarshalJSON implements json.Marshaler. Extra members never override typed ones.
func (f Field) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(fieldJSON(f))
	if err != nil || len(f.Extra) == 0 {
		return data, err
	}
	merged := make(map[string]any, len(f.Extra)+len(fieldKeys))
	for k, v := range f.Extra {
		merged[k] = v
	}
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	for k, v := range typed {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Clone returns a deep copy of the field, including its rule tree.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Extra != nil {
		out.Extra = cloneAny(f.Extra).(map[string]any)
	}
	out.Logic = f.Logic.Clone()
	return out
}

// cloneAny deep-copies a decoded JSON value.
func cloneAny(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneAny(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneAny(e)
		}
		return out
	default:
		return v
	}
}

// LogicRule pairs an action with a root condition group.
// A rule is never retained with an empty root group; logic is cleared to nil instead.
type LogicRule struct {
	Action         Action         `json:"action"`
	ConditionGroup ConditionGroup `json:"condition_group"`
}

// Clone returns a deep copy of the rule. Nil-safe.
func (l *LogicRule) Clone() *LogicRule {
	if l == nil {
		return nil
	}
	return &LogicRule{
		Action:         l.Action,
		ConditionGroup: l.ConditionGroup.Clone(),
	}
}

// ConditionGroup is a boolean combinator over an ordered list of rule nodes.
type ConditionGroup struct {
	Operator GroupOperator `json:"operator"`
	Rules    []RuleNode    `json:"rules"`
}

// Clone returns a deep copy of the group.
func (g ConditionGroup) Clone() ConditionGroup {
	out := ConditionGroup{Operator: g.Operator}
	if g.Rules != nil {
		out.Rules = make([]RuleNode, len(g.Rules))
		for i, n := range g.Rules {
			out.Rules[i] = n.Clone()
		}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
// A "rules" member that is missing, null, or not an array decodes as no rules.
func (g *ConditionGroup) UnmarshalJSON(data []byte) error {
	var raw struct {
		Operator GroupOperator   `json:"operator"`
		Rules    json.RawMessage `json:"rules"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = ConditionGroup{Operator: raw.Operator}
	if len(raw.Rules) > 0 && raw.Rules[0] == '[' {
		if err := json.Unmarshal(raw.Rules, &g.Rules); err != nil {
			return err
		}
	}
	return nil
}

// Condition is a leaf comparison between one field's current value and a literal.
type Condition struct {
	FieldID  string   `json:"field_id"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// NodeType discriminates the two RuleNode variants on the wire.
type NodeType string

const (
	NodeCondition NodeType = "condition"
	NodeGroup     NodeType = "group"
)

// RuleNode is a tagged union: exactly one of Condition or Group is set.
// A node with neither set is malformed and behaves as an empty group.
type RuleNode struct {
	Condition *Condition
	Group     *ConditionGroup
}

// ConditionNode wraps a condition as a rule node.
func ConditionNode(c Condition) RuleNode {
	return RuleNode{Condition: &c}
}

// GroupNode wraps a nested group as a rule node.
func GroupNode(g ConditionGroup) RuleNode {
	return RuleNode{Group: &g}
}

// IsCondition reports whether the node is a leaf condition.
func (n RuleNode) IsCondition() bool {
	return n.Condition != nil
}

// Clone returns a deep copy of the node.
func (n RuleNode) Clone() RuleNode {
	switch {
	case n.Condition != nil:
		c := *n.Condition
		return RuleNode{Condition: &c}
	case n.Group != nil:
		g := n.Group.Clone()
		return RuleNode{Group: &g}
	default:
		return RuleNode{}
	}
}

// ruleNodeJSON is the flattened wire shape shared by both variants.
type ruleNodeJSON struct {
	Type     NodeType        `json:"type"`
	FieldID  *string         `json:"field_id,omitempty"`
	Operator string          `json:"operator,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Rules    json.RawMessage `json:"rules,omitempty"`
}

// MarshalJSON implements json.Marshaler using the "type" discriminator.
func (n RuleNode) MarshalJSON() ([]byte, error) {
	if n.Condition != nil {
		return json.Marshal(struct {
			Type NodeType `json:"type"`
			Condition
		}{NodeCondition, *n.Condition})
	}
	g := ConditionGroup{Operator: GroupAnd}
	if n.Group != nil {
		g = *n.Group
	}
	if g.Rules == nil {
		g.Rules = []RuleNode{}
	}
	return json.Marshal(struct {
		Type NodeType `json:"type"`
		ConditionGroup
	}{NodeGroup, g})
}

// UnmarshalJSON implements json.Unmarshaler.
// Any node not typed "condition" that carries "rules" is a group. A node with
// no "type" and a "field_id" is a condition, so hand-written files may omit
// the discriminator. Anything else decodes to a malformed node, which
// evaluates like an empty group, rather than failing.
func (n *RuleNode) UnmarshalJSON(data []byte) error {
	var raw ruleNodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	isGroup := raw.Type == NodeGroup || (raw.Type != NodeCondition && raw.Rules != nil)
	isCond := raw.Type == NodeCondition || (raw.Type == "" && !isGroup && raw.FieldID != nil)

	*n = RuleNode{}
	switch {
	case isGroup:
		var g ConditionGroup
		if err := g.UnmarshalJSON(data); err != nil {
			return err
		}
		n.Group = &g
	case isCond:
		c := Condition{Operator: Operator(raw.Operator)}
		if raw.FieldID != nil {
			c.FieldID = *raw.FieldID
		}
		c.Value = literalString(raw.Value)
		n.Condition = &c
	}
	return nil
}

// literalString reads a condition value that older builders stored as a bare
// JSON number or boolean. Strings pass through; null and objects become "".
func literalString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch v.(type) {
	case float64, bool:
		return string(raw)
	default:
		return ""
	}
}

// Section groups fields for display. Carried through untouched by the engine.
type Section struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// Definition is the form document: ordered sections plus a flat field list.
type Definition struct {
	Sections []Section `json:"sections"`
	Fields   []Field   `json:"fields"`
}

// NewLogicRule returns the rule seeded when a user enables logic on a field:
// show, AND group with one blank equals condition.
func NewLogicRule() *LogicRule {
	return &LogicRule{
		Action: ActionShow,
		ConditionGroup: ConditionGroup{
			Operator: GroupAnd,
			Rules:    []RuleNode{ConditionNode(Condition{Operator: OpEquals})},
		},
	}
}

// NewField creates a field with a generated id and no logic.
func NewField(name string, fieldType FieldType) Field {
	return Field{
		ID:   NewFieldID(),
		Name: name,
		Type: fieldType,
	}
}

// IDSet is a set of field ids, used for batch removal.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership. Nil-safe.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
