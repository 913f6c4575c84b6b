package layout

import "embed"

//go:embed builtin/*.json
var builtinFS embed.FS

// Builtin layout slugs, in presentation order.
const (
	BuiltinWetEnd    = "dap-wet-end"
	BuiltinFinishing = "dap-finishing"
)

var builtinFiles = map[string]string{
	BuiltinWetEnd:    "builtin/dap_wetend.json",
	BuiltinFinishing: "builtin/dap_finishing.json",
}

// BuiltinSlugs returns the slugs of the layouts compiled into the binary.
func BuiltinSlugs() []string {
	return []string{BuiltinWetEnd, BuiltinFinishing}
}

// Builtin returns the raw bytes of a built-in layout, or false when the
// slug is unknown.
func Builtin(slug string) ([]byte, bool) {
	path, ok := builtinFiles[slug]
	if !ok {
		return nil, false
	}
	data, err := builtinFS.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}
