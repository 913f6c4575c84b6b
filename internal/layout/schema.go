package layout

import _ "embed"

//go:embed layout.schema.json
var layoutSchema string
