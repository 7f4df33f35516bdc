// Package jsonbind provides:
//
// - Reflective binding of JSON-like documents into Go structs (Parse/Bind/BindInto)
// - A fixed per-field precedence: field override, type override, primitive array,
//   primitive, date, nested record or array of records
// - A stable error model via Issues (JSON Pointer, code, message)
// - Pluggable JSON drivers with duplicate-key/depth/size enforcement, plus YAML
//   and HCL (source/hclsrc) inputs that bind into the same structs
// - A writer that renders structs back to JSON or YAML (Write/WriteYAML)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place token drivers under source/, ready-made overrides under codec/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	cfg := jsonbind.NewConfig().
//		SetTypeOverride(jsonbind.DateTypeName, codec.Date(time.DateOnly)).
//		SetFailureMode(jsonbind.FailReturn)
//	staff, err := jsonbind.Parse[Staff](ctx, data, cfg)
//
//	out, err := jsonbind.Write(staff)
package jsonbind
