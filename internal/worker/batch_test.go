package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/legalese/internal/model"
)

// MockProcessor implements Processor
type MockProcessor struct {
	FailRefs map[string]bool
	Levels   map[string]model.RiskLevel

	mu   sync.Mutex
	seen []string
}

func (m *MockProcessor) ProcessRef(ctx context.Context, ref string) (*model.Report, error) {
	time.Sleep(time.Duration(len(ref)%3) * time.Millisecond) // Vary completion order

	m.mu.Lock()
	m.seen = append(m.seen, ref)
	m.mu.Unlock()

	if m.FailRefs[ref] {
		return nil, errors.New("analysis error")
	}

	level := model.RiskLow
	if l, ok := m.Levels[ref]; ok {
		level = l
	}
	return &model.Report{
		Source: model.SourceMeta{Name: ref, Origin: ref},
		Mode:   model.ModeBasic,
		Risk:   model.RiskAssessment{Level: level},
	}, nil
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessRefs(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)

	refs := []string{"a.txt", "https://example.com/terms", "contracts/lease.md", "b.txt"}
	results := processor.ProcessRefs(context.Background(), refs)

	if len(results) != len(refs) {
		t.Fatalf("expected %d results, got %d", len(refs), len(results))
	}

	for i, res := range results {
		if res.Ref != refs[i] {
			t.Errorf("expected result %d for %s, got %s", i, refs[i], res.Ref)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Ref, res.Error)
		}
		if res.Report == nil || res.Report.Source.Origin != refs[i] {
			t.Errorf("expected report for %s", refs[i])
		}
	}
}

func TestBatchProcessor_ProcessRefs_Error(t *testing.T) {
	mock := &MockProcessor{FailRefs: map[string]bool{"bad.txt": true}}
	processor := NewBatchProcessor(mock, 2, 0, 0)

	results := processor.ProcessRefs(context.Background(), []string{"good.txt", "bad.txt"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("expected success for good.txt, got %v", results[0].Error)
	}
	if results[1].Error == nil {
		t.Error("expected error for bad.txt, got nil")
	}
	if results[1].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_ProcessRefs_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)

	results := processor.ProcessRefs(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessRefs_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)
	results := processor.ProcessRefs(ctx, []string{"a.txt", "b.txt", "c.txt"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("expected context.Canceled for %s, got %v", res.Ref, res.Error)
		}
	}
}

func TestBatchProcessor_ProviderRateLimit(t *testing.T) {
	// 20 rps with burst 1: four calls need at least ~150ms
	processor := NewBatchProcessor(&MockProcessor{}, 4, 20, 1).WithProvider("openai")

	start := time.Now()
	results := processor.ProcessRefs(context.Background(), []string{"a", "b", "c", "d"})
	elapsed := time.Since(start)

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("expected provider rate limit to space calls, finished in %v", elapsed)
	}
}

func TestBatchProcessor_LimitKey(t *testing.T) {
	b := NewBatchProcessor(&MockProcessor{}, 1, 1, 1)
	if got := b.limitKey("https://example.com/tos"); got != "example.com" {
		t.Errorf("expected host key, got %q", got)
	}
	if got := b.limitKey("local.txt"); got != "" {
		t.Errorf("expected no key for local file, got %q", got)
	}

	b.WithProvider("anthropic")
	if got := b.limitKey("https://example.com/tos"); got != "anthropic" {
		t.Errorf("expected provider key, got %q", got)
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	r1 := &AnalyzeResult{Ref: "a.txt", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &AnalyzeResult{Ref: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestSummarize(t *testing.T) {
	mock := &MockProcessor{
		FailRefs: map[string]bool{"x": true},
		Levels:   map[string]model.RiskLevel{"h": model.RiskHigh, "m": model.RiskMedium},
	}
	results := NewBatchProcessor(mock, 2, 0, 0).ProcessRefs(context.Background(), []string{"h", "m", "l", "x"})

	summary := Summarize(results)
	if summary.Total != 4 || summary.Succeeded != 3 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.ByLevel[model.RiskHigh] != 1 || summary.ByLevel[model.RiskMedium] != 1 || summary.ByLevel[model.RiskLow] != 1 {
		t.Errorf("unexpected level counts: %v", summary.ByLevel)
	}
}

func TestReadRefsFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `https://example.com/terms
# comment
contracts/lease.txt
   
/abs/nda.txt   
https://example.com/terms`
	list := writeTemp(t, dir, "refs.txt", content)

	refs, err := ReadRefsFromFile(list)
	if err != nil {
		t.Fatalf("ReadRefsFromFile failed: %v", err)
	}

	expected := []string{
		"https://example.com/terms",
		filepath.Join(dir, "contracts", "lease.txt"),
		"/abs/nda.txt",
	}
	if len(refs) != len(expected) {
		t.Fatalf("expected %d refs, got %d: %v", len(expected), len(refs), refs)
	}
	for i, ref := range refs {
		if ref != expected[i] {
			t.Errorf("expected ref %s at index %d, got %s", expected[i], i, ref)
		}
	}
}

func TestReadRefsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadRefsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadRefs_Directory(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "b.txt", "b")
	writeTemp(t, dir, "a.md", "a")
	writeTemp(t, dir, "sub/c.HTML", "<p>c</p>")
	writeTemp(t, dir, "image.png", "x")
	writeTemp(t, dir, "contract.pdf", "x")
	writeTemp(t, dir, ".git/d.txt", "hidden")

	refs, err := ReadRefs(dir)
	if err != nil {
		t.Fatalf("ReadRefs failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "c.HTML"),
	}
	if strings.Join(refs, ",") != strings.Join(expected, ",") {
		t.Errorf("expected %v, got %v", expected, refs)
	}
}

func TestBatchProcessor_ProcessPath(t *testing.T) {
	dir := t.TempDir()
	list := writeTemp(t, dir, "batch.txt", "one.txt\ntwo.txt\n# comment\n\nthree.txt\n")

	results, err := NewBatchProcessor(&MockProcessor{}, 2, 0, 0).ProcessPath(context.Background(), list)
	if err != nil {
		t.Fatalf("ProcessPath failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessPath_NonExistent(t *testing.T) {
	_, err := NewBatchProcessor(&MockProcessor{}, 2, 0, 0).ProcessPath(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent path, got nil")
	}
}

func TestBatchProcessor_ProcessPath_Empty(t *testing.T) {
	list := writeTemp(t, t.TempDir(), "empty.txt", "")

	results, err := NewBatchProcessor(&MockProcessor{}, 2, 0, 0).ProcessPath(context.Background(), list)
	if err != nil {
		t.Fatalf("ProcessPath failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
