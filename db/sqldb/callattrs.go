package sqldb

import "context"

// CallAttrs are per-call, backend-specific execution attributes.
// They travel on the context so Handle/Tx signatures stay uniform.
// Backends honor the attrs they understand and ignore the rest.
//
// Known attrs:
//   - "simple_protocol": bool _ pgsql only. Use the simple query protocol
//     instead of extended (prepared) execution for the call.
type CallAttrs map[string]any

type callAttrsKey struct{}

// WithCallAttrs returns a context carrying attrs for subsequent
// Exec/Query calls made with it.
func WithCallAttrs(ctx context.Context, attrs CallAttrs) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	return context.WithValue(ctx, callAttrsKey{}, attrs)
}

// CallAttrsFrom extracts attrs from ctx. Returns nil when none set.
func CallAttrsFrom(ctx context.Context) CallAttrs {
	attrs, _ := ctx.Value(callAttrsKey{}).(CallAttrs)
	return attrs
}

// BoolAttr reads a boolean attr from ctx. Missing or non-bool -> false.
func BoolAttr(ctx context.Context, name string) bool {
	v, _ := CallAttrsFrom(ctx)[name].(bool)
	return v
}
