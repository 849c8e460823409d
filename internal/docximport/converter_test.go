package docximport_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/docximport"
	"github.com/goliatone/go-richtext/internal/markdown"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

type recordedRun struct {
	name string
	args []string
}

func stubConverter(output string, runErr error, calls *[]recordedRun) *docximport.Converter {
	return docximport.New(
		docximport.WithLookPath(func(name string) (string, error) { return "/usr/bin/" + name, nil }),
		docximport.WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
			*calls = append(*calls, recordedRun{name: name, args: args})
			return []byte(output), runErr
		}),
	)
}

func TestFromDocxConvertsPandocMarkdown(t *testing.T) {
	var calls []recordedRun
	conv := stubConverter("# Report\n\nSee <u>this</u>\n", nil, &calls)

	doc, err := conv.FromDocx(context.Background(), "report \"q1\".docx", nil, markdown.NewGoldmarkParser(interfaces.ParseOptions{}))
	if err != nil {
		t.Fatalf("FromDocx: %v", err)
	}
	want := document.NewDocument(
		document.Heading(1, document.Text("Report")),
		document.Paragraph(document.Text("See "), document.Text("this", document.MarkUnderline)),
	)
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("unexpected document %#v", doc)
	}

	wantArgs := []string{"-f", "docx", "-t", "markdown_mmd+hard_line_breaks+startnum", "report \"q1\".docx"}
	if len(calls) != 1 || calls[0].name != "pandoc" || !reflect.DeepEqual(calls[0].args, wantArgs) {
		t.Fatalf("unexpected pandoc call %#v", calls)
	}
}

func TestToMarkdownAndTextSelectFormats(t *testing.T) {
	var calls []recordedRun
	conv := stubConverter("body", nil, &calls)

	if got, err := conv.ToMarkdown(context.Background(), "a.docx"); err != nil || got != "body" {
		t.Fatalf("ToMarkdown: %q %v", got, err)
	}
	if _, err := conv.ToText(context.Background(), "a.docx"); err != nil {
		t.Fatalf("ToText: %v", err)
	}
	if calls[0].args[3] != "markdown_mmd+hard_line_breaks+startnum-raw_html" || calls[1].args[3] != "plain" {
		t.Fatalf("unexpected formats %#v", calls)
	}
}

func TestMissingPandocIsReported(t *testing.T) {
	conv := docximport.New(
		docximport.WithBinary("pandoc-missing"),
		docximport.WithLookPath(func(string) (string, error) { return "", errors.New("not found") }),
		docximport.WithRunner(func(context.Context, string, ...string) ([]byte, error) {
			t.Fatalf("runner must not be called without pandoc")
			return nil, nil
		}),
	)
	if _, err := conv.ToText(context.Background(), "a.docx"); !errors.Is(err, docximport.ErrPandocMissing) {
		t.Fatalf("expected ErrPandocMissing, got %v", err)
	}
}

func TestRunnerErrorsAreWrapped(t *testing.T) {
	var calls []recordedRun
	failure := errors.New("exit status 1")
	conv := stubConverter("", failure, &calls)

	if _, err := conv.ToMarkdown(context.Background(), "broken.docx"); !errors.Is(err, failure) {
		t.Fatalf("expected runner error, got %v", err)
	}
	if _, err := conv.ToMarkdown(context.Background(), " "); !errors.Is(err, docximport.ErrFileRequired) {
		t.Fatalf("expected ErrFileRequired, got %v", err)
	}
}
