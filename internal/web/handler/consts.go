package handler

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// ErrNilACDFatalLogMsg is used if the app or cfg or deps pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or deps is nil"
)
