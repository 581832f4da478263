package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"derivefmt/internal/driver"
	"derivefmt/internal/ui"
)

// runFormatWithUI runs FormatFiles behind the progress view. The view quits
// when the driver closes the event channel.
func runFormatWithUI(ctx context.Context, title string, inputs []driver.Input, opts driver.FormatOptions) ([]driver.FormatResult, error) {
	events := make(chan driver.Event, 256)
	opts.Progress = driver.ChannelSink{Ch: events}

	var (
		results []driver.FormatResult
		runErr  error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer close(events)
		results, runErr = driver.FormatFiles(ctx, inputs, opts)
	}()

	_, uiErr := tea.NewProgram(ui.NewProgressModel(title, inputPaths(inputs), events), tea.WithOutput(os.Stdout)).Run()
	if uiErr != nil {
		// без читателя воркеры встанут на полном канале
		go func() {
			for range events {
			}
		}()
	}
	<-finished
	if uiErr != nil {
		return results, uiErr
	}
	return results, runErr
}
