package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/input"
	"github.com/mikey/email-triage/internal/adapters/reply"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/dashboard"
	"github.com/mikey/email-triage/internal/utils"
)

const recentOnDashboard = 3

type classifyOutput struct {
	Category          core.Category `json:"category"`
	Confidence        float64       `json:"confidence"`
	SuggestedResponse string        `json:"suggested_response"`
	Reply             string        `json:"reply"`
	OriginalContent   string        `json:"original_content"`
	ProcessedAt       string        `json:"processed_at"`
	ComposeURL        string        `json:"compose_url"`
	SentTo            string        `json:"sent_to,omitempty"`
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func (a app) classify(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("classify", stderr)
	text := fs.String("text", "", "Email text to classify")
	file := fs.String("file", "", "Path to a .txt or .pdf file to classify")
	subject := fs.String("subject", "", "Email subject")
	replyText := fs.String("reply", "", "Use this reply instead of the suggested one")
	sendTo := fs.String("send-to", "", "Mail the reply to this address")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *text != "" && *file != "" {
		fmt.Fprintln(stderr, "use either -text or -file, not both")
		return exitUsage
	}

	in, err := a.readInput(*text, *file, *subject, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	result, err := a.Orchestrator.Submit(ctx, in)
	if err != nil {
		return a.reportSubmitError(err, stderr)
	}

	draft := core.NewDraft(*result)
	if *replyText != "" {
		draft.Edit(*replyText)
	}

	out := classifyOutput{
		Category:          result.Category,
		Confidence:        result.Confidence,
		SuggestedResponse: result.SuggestedResponse,
		Reply:             draft.Reply,
		OriginalContent:   result.OriginalContent,
		ProcessedAt:       result.ProcessedAt.Format("2006-01-02 15:04:05"),
		ComposeURL:        reply.ComposeURL(in.Subject, draft.Reply),
	}

	if *sendTo != "" {
		if err := a.Sender.Send(ctx, *sendTo, in.Subject, draft.Reply); err != nil {
			a.Logger.Error("Failed to send reply", zap.Error(err))
			fmt.Fprintf(stderr, "error: failed to send reply: %v\n", err)
			return exitError
		}
		out.SentTo = *sendTo
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return exitError
		}
		return exitOK
	}

	figures := a.Dashboard.Figures()
	fmt.Fprintf(stdout, "Category:    %s\n", out.Category)
	fmt.Fprintf(stdout, "Confidence:  %d%%\n", dashboard.ConfidencePercent(out.Confidence))
	fmt.Fprintf(stdout, "Processed:   %s\n", out.ProcessedAt)
	fmt.Fprintf(stdout, "\nSuggested reply:\n%s\n", out.Reply)
	fmt.Fprintf(stdout, "\nOpen in Gmail: %s\n", out.ComposeURL)
	if out.SentTo != "" {
		fmt.Fprintf(stdout, "Reply sent to %s\n", out.SentTo)
	}
	fmt.Fprintf(stdout, "\nToday: %d emails, %s saved\n", figures.EmailsToday, figures.TimeSaved)
	return exitOK
}

func (a app) readInput(text, file, subject string, stdin io.Reader) (core.ClassificationInput, error) {
	if file != "" {
		blob, err := input.LoadFile(file, a.Config.GetUpload().MaxBytes)
		if err != nil {
			return core.ClassificationInput{}, err
		}
		return core.FileInput(blob, subject), nil
	}

	if text == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return core.ClassificationInput{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	return a.Parser.Text(text, subject), nil
}

func (a app) reportSubmitError(err error, stderr io.Writer) int {
	var (
		validation *core.ValidationError
		failure    *core.TransportFailure
	)
	switch {
	case errors.Is(err, core.ErrCancelled):
		a.Logger.Debug("Classification cancelled")
		return exitOK
	case errors.As(err, &validation):
		fmt.Fprintf(stderr, "error: %s\n", validation.Reason)
	case errors.As(err, &failure):
		fmt.Fprintf(stderr, "error: %s\n", failure.Message())
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return exitError
}

func (a app) history(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("history", stderr)
	limit := fs.Int("limit", 0, "Show at most this many entries (0 shows all)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	var entries []core.HistoryEntry
	if *limit > 0 {
		entries = a.Dashboard.Recent(*limit)
	} else {
		entries = a.Dashboard.Recent(a.Orchestrator.Ledger().Len())
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No emails classified yet.")
		return exitOK
	}

	writeEntries(stdout, a.Text, entries)
	return exitOK
}

func writeEntries(w io.Writer, text *utils.TextProcessor, entries []core.HistoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCATEGORY\tCONFIDENCE\tSUBJECT\tPREVIEW")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\t%s\n",
			e.ProcessedAt.Local().Format("02/01/2006 15:04"),
			e.Category,
			dashboard.ConfidencePercent(e.Confidence),
			text.SubjectOrPlaceholder(e.Subject),
			text.Preview(e.OriginalContent, utils.PreviewRunes))
	}
	tw.Flush()
}

func (a app) dashboard(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("dashboard", stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	f := a.Dashboard.Figures()
	fmt.Fprintf(stdout, "Emails today:     %d\n", f.EmailsToday)
	fmt.Fprintf(stdout, "Time saved:       %s\n", f.TimeSaved)
	if f.HasConfidence {
		fmt.Fprintf(stdout, "Accuracy:         %d%%\n", f.AverageConfidence)
	} else {
		fmt.Fprintln(stdout, "Accuracy:         -")
	}
	fmt.Fprintf(stdout, "Productive:       %d\n", f.Counts.Productive)
	fmt.Fprintf(stdout, "Unproductive:     %d\n", f.Counts.Unproductive)
	fmt.Fprintf(stdout, "Total classified: %d\n", f.Total)

	if recent := a.Dashboard.Recent(recentOnDashboard); len(recent) > 0 {
		fmt.Fprintln(stdout, "\nRecent:")
		writeEntries(stdout, a.Text, recent)
	}
	return exitOK
}

func (a app) settings(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("settings", stderr)
	minutes := fs.Float64("minutes", 0, "Minutes saved per email (1-60)")
	theme := fs.String("theme", "", "Theme (light or dark)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	a.Settings.OnThemeChange(func(t core.Theme) {
		a.Logger.Info("Theme changed", zap.String("theme", string(t)))
	})

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["minutes"] {
		if _, err := a.Settings.SetMinutesPerEmail(ctx, *minutes); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitError
		}
	}
	if set["theme"] {
		if err := a.Settings.SetTheme(ctx, core.Theme(strings.ToLower(strings.TrimSpace(*theme)))); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitError
		}
	}

	s := a.Settings.Get()
	fmt.Fprintf(stdout, "Minutes per email: %d\n", s.MinutesPerEmail)
	fmt.Fprintf(stdout, "Theme:             %s\n", s.Theme)
	return exitOK
}
