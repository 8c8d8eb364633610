package api

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/formlogic/internal/types"
)

// decodeValues normalises request values through structpb before mapping them
// onto types.Value. structpb accepts only the JSON value space; other Go types
// are rejected here rather than deep in the engine.
func decodeValues(raw map[string]any) (types.ValueMap, error) {
	out := make(types.ValueMap, len(raw))
	for name, x := range raw {
		pv, err := structpb.NewValue(x)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w: %v", name, types.ErrUnsupportedValue, err)
		}
		v, err := fromProto(pv)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// fromProto maps a protobuf Value onto the engine's value variants. Lists must
// hold only objects (table rows); bare objects have no variant.
func fromProto(pv *structpb.Value) (types.Value, error) {
	switch k := pv.GetKind().(type) {
	case *structpb.Value_NullValue, nil:
		return types.Null(), nil
	case *structpb.Value_StringValue:
		return types.String(k.StringValue), nil
	case *structpb.Value_NumberValue:
		return types.Number(k.NumberValue), nil
	case *structpb.Value_BoolValue:
		return types.Bool(k.BoolValue), nil
	case *structpb.Value_ListValue:
		items := k.ListValue.GetValues()
		rows := make([]types.Row, 0, len(items))
		for i, item := range items {
			s := item.GetStructValue()
			if s == nil {
				return types.Value{}, fmt.Errorf("%w: table row %d is not an object", types.ErrUnsupportedValue, i)
			}
			rows = append(rows, types.Row(s.AsMap()))
		}
		return types.Rows(rows), nil
	case *structpb.Value_StructValue:
		return types.Value{}, fmt.Errorf("%w: object", types.ErrUnsupportedValue)
	default:
		return types.Value{}, fmt.Errorf("%w: %T", types.ErrUnsupportedValue, k)
	}
}
