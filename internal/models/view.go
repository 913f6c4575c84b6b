package models

// ViewStatus represents the lifecycle state of a viewer session.
type ViewStatus string

const (
	ViewStatusActive   ViewStatus = "active"
	ViewStatusDisposed ViewStatus = "disposed"
)

// ViewerSession represents one live 3D view of a plant layout.
type ViewerSession struct {
	ID         string     `json:"id"`
	LayoutID   string     `json:"layoutId"`
	LayoutName string     `json:"layoutName"`
	Status     ViewStatus `json:"status"`
	Mode       string     `json:"mode"`
	Step       int        `json:"step"`
	MaxStep    int        `json:"maxStep"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	CreatedAt  int64      `json:"createdAt"`  // Unix ms
	LastActive int64      `json:"lastActive"` // Unix ms
	Tick       int64      `json:"tick"`
}

// ViewCommand is one client command against a viewer session. Type selects
// the operation; only the fields that operation needs are read.
type ViewCommand struct {
	Type string `json:"type" msgpack:"type"`

	// Resize
	Width  int `json:"width,omitempty" msgpack:"width,omitempty"`
	Height int `json:"height,omitempty" msgpack:"height,omitempty"`

	// Click
	X float32 `json:"x,omitempty" msgpack:"x,omitempty"`
	Y float32 `json:"y,omitempty" msgpack:"y,omitempty"`

	// Orbit / zoom
	DX  float32 `json:"dx,omitempty" msgpack:"dx,omitempty"`
	DY  float32 `json:"dy,omitempty" msgpack:"dy,omitempty"`
	Pct float32 `json:"pct,omitempty" msgpack:"pct,omitempty"`
}

// Command types accepted over the command endpoint and the websocket.
const (
	CmdToggleFlow       = "toggle-flow"
	CmdToggleLabels     = "toggle-labels"
	CmdToggleAutoRotate = "toggle-auto-rotate"
	CmdModeComplete     = "mode-complete"
	CmdModeStep         = "mode-step"
	CmdNextStep         = "next-step"
	CmdClick            = "click"
	CmdResize           = "resize"
	CmdOrbit            = "orbit"
	CmdZoom             = "zoom"
)
