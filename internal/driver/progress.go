package driver

import "time"

// Stage describes a per-file pipeline phase.
type Stage string

const (
	// StageRead loads the file and consults the cache.
	StageRead Stage = "read"
	// StageReorder lexes the file and sorts its derive lists.
	StageReorder Stage = "reorder"
	// StageVerify checks input and output with tree-sitter.
	StageVerify Stage = "verify"
	// StageWrite stores the result on disk.
	StageWrite Stage = "write"
	// StageRustfmt is the run-wide rustfmt post-pass.
	StageRustfmt Stage = "rustfmt"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is in the stage.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; files report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
