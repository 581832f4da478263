package diagfmt

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	// PathModeAuto prints paths relative to the working directory when
	// possible and shortens long absolute ones to their base name.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color bool
	// source lines shown around the primary line
	Context   int8
	PathMode  PathMode
	ShowNotes bool
}
