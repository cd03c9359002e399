// Package formschema provides:
//
// - The Node model for declarative form schemas (JSON or YAML documents)
// - A stable error model via Issues (JSON Pointer, code, message)
// - The Validator interface and SafeParse/Validate/Is entry points
// - Bound/Specialize helpers shared by the compiler and the form package
//
// Design policy:
//   - Keep only the data model and public entry points in the root package.
//   - Compilation lives in compiler/, the state lifecycle and reshaping in form/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	n, err := formschema.LoadJSON(doc)
//	f := form.Create(n, nil)
//	f.State["email"] = "john@doe.com"
//	res := f.Validate(ctx)
//	out, err := form.NameReForm(f).Finalize()
package formschema
