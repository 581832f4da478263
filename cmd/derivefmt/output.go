package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/multierr"

	"derivefmt/internal/diffview"
	"derivefmt/internal/driver"
	"derivefmt/internal/observ"
)

func renderStdout(out, errOut io.Writer, results []driver.FormatResult) error {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "derivefmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if _, err := out.Write(res.Formatted); err != nil {
			return err
		}
	}
	return nil
}

func renderText(out, errOut io.Writer, results []driver.FormatResult, s settings, rustfmtErr error) error {
	errColor := color.New(color.FgRed, color.Bold)
	okColor := color.New(color.FgGreen)
	if s.color {
		errColor.EnableColor()
		okColor.EnableColor()
	} else {
		errColor.DisableColor()
		okColor.DisableColor()
	}
	printer := diffview.NewPrinter(out, s.color)

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "%s %s: %v\n", errColor.Sprint("error:"), res.Path, res.Err)
			continue
		}
		switch {
		case s.diff:
			if res.Diff != nil {
				if err := printer.Print(res.Diff); err != nil {
					return err
				}
			}
		case s.check:
			if res.Changed {
				if _, err := fmt.Fprintln(out, res.Path); err != nil {
					return err
				}
			}
		default:
			if res.Written && !s.quiet {
				if _, err := fmt.Fprintf(out, "%s %s\n", okColor.Sprint("sorted"), res.Path); err != nil {
					return err
				}
			}
		}
	}

	if rustfmtErr != nil {
		for _, e := range multierr.Errors(rustfmtErr) {
			fmt.Fprintf(errOut, "%s %v\n", errColor.Sprint("rustfmt:"), e)
		}
	}
	if s.timer != nil {
		if _, err := io.WriteString(errOut, s.timer.Summary()); err != nil {
			return err
		}
	}
	if s.quiet {
		return nil
	}
	sum := driver.Summarize(results)
	_, err := fmt.Fprintf(errOut, "%d files, %d %s, %d cached, %d failed\n",
		sum.Files, sum.Changed, changedWord(s), sum.Cached, sum.Failed)
	return err
}

func changedWord(s settings) string {
	if s.writes() {
		return "sorted"
	}
	return "unsorted"
}

type jsonSkip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Offset uint32 `json:"offset"`
}

type jsonDiffStat struct {
	Added   int32 `json:"added"`
	Changed int32 `json:"changed"`
	Deleted int32 `json:"deleted"`
}

type jsonResult struct {
	Path      string        `json:"path"`
	Edition   string        `json:"edition"`
	Changed   bool          `json:"changed"`
	Written   bool          `json:"written"`
	Cached    bool          `json:"cached"`
	Sites     int           `json:"sites"`
	Reordered int           `json:"reordered"`
	Skipped   []jsonSkip    `json:"skipped,omitempty"`
	Diff      *jsonDiffStat `json:"diff,omitempty"`
	Error     string        `json:"error,omitempty"`
	ElapsedMS float64       `json:"elapsed_ms"`
}

type jsonReport struct {
	Mode    string       `json:"mode"`
	Files   []jsonResult `json:"files"`
	Summary struct {
		Files   int `json:"files"`
		Changed int `json:"changed"`
		Written int `json:"written"`
		Cached  int `json:"cached"`
		Failed  int `json:"failed"`
	} `json:"summary"`
	Rustfmt []string       `json:"rustfmt_errors,omitempty"`
	Timings *observ.Report `json:"timings,omitempty"`
}

func renderJSON(out io.Writer, results []driver.FormatResult, s settings, rustfmtErr error) error {
	report := jsonReport{Mode: runMode(s), Files: make([]jsonResult, 0, len(results))}
	for _, res := range results {
		jr := jsonResult{
			Path:      res.Path,
			Edition:   res.Edition.String(),
			Changed:   res.Changed,
			Written:   res.Written,
			Cached:    res.Cached,
			Sites:     res.Sites,
			Reordered: res.Reordered,
			ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
		}
		for _, sk := range res.Skipped {
			jr.Skipped = append(jr.Skipped, jsonSkip{Name: sk.Name, Reason: sk.Reason.String(), Offset: sk.Span.Start})
		}
		if res.Diff != nil {
			st := res.Diff.Stat()
			jr.Diff = &jsonDiffStat{Added: st.Added, Changed: st.Changed, Deleted: st.Deleted}
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		report.Files = append(report.Files, jr)
	}

	sum := driver.Summarize(results)
	report.Summary.Files = sum.Files
	report.Summary.Changed = sum.Changed
	report.Summary.Written = sum.Written
	report.Summary.Cached = sum.Cached
	report.Summary.Failed = sum.Failed
	for _, e := range multierr.Errors(rustfmtErr) {
		report.Rustfmt = append(report.Rustfmt, e.Error())
	}
	if s.timer != nil {
		timings := s.timer.Report()
		report.Timings = &timings
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func runMode(s settings) string {
	switch {
	case s.check:
		return "check"
	case s.diff:
		return "diff"
	case s.stdout:
		return "stdout"
	default:
		return "write"
	}
}
