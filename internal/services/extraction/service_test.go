package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
	"github.com/gravamen/contractgraph-backend/internal/platform/openai"
)

type fakeLLM struct {
	content    string
	raw        json.RawMessage
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeLLM) GenerateJSON(_ context.Context, system, user string) (openai.Completion, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return openai.Completion{}, f.err
	}
	return openai.Completion{Content: f.content, Raw: f.raw}, nil
}

func (f *fakeLLM) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	return make([][]float32, len(inputs)), nil
}

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func testOptions(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	opts := Options{
		InputDir:  filepath.Join(root, "input"),
		OutputDir: filepath.Join(root, "output"),
		DebugDir:  filepath.Join(root, "debug"),
		MaxChars:  defaultMaxChars,
	}
	if err := os.MkdirAll(opts.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input: %v", err)
	}
	return opts
}

func writeInput(t *testing.T, opts Options, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(opts.InputDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write input %s: %v", name, err)
	}
}

const modelResponse = "```json\n" + `{
  "agreement": {
    "contract_type": "MSA",
    "parties": [{"role": "provider", "legal_name": "Acme Ltd", "country": "UK"}],
    "liability_cap": {"exists": true, "cap_amount": 1000000, "cap_type": "aggregate"}
  },
  "governing_law_and_dispute_resolution": {
    "governing_country": "UK",
    "dispute_resolution_method": "Arbitration"
  },
  "clauses": [{"clause_id": 7, "title": "Term"}]
}` + "\n```"

func TestRunExtractsContract(t *testing.T) {
	opts := testOptions(t)
	writeInput(t, opts, "msa_2024.txt", "MASTER SERVICES AGREEMENT between Acme Ltd and Gravamen Inc.")

	llm := &fakeLLM{content: modelResponse, raw: json.RawMessage(`{"id":"resp_1"}`)}
	svc := NewService(llm, testLogger())

	summary, err := svc.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 1 || summary.Successful != 1 || summary.Failed != 0 {
		t.Fatalf("summary: total=%d successful=%d failed=%d", summary.Total, summary.Successful, summary.Failed)
	}

	if llm.lastSystem == "" {
		t.Fatalf("system prompt not passed")
	}
	if !strings.Contains(llm.lastUser, textStartSentinel) || !strings.Contains(llm.lastUser, textEndSentinel) {
		t.Fatalf("user prompt missing sentinels:\n%s", llm.lastUser)
	}
	if !strings.Contains(llm.lastUser, "MASTER SERVICES AGREEMENT") {
		t.Fatalf("user prompt missing contract text")
	}

	raw, err := os.ReadFile(filepath.Join(opts.OutputDir, "msa_2024.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if doc["contract_id"] != "msa_2024" {
		t.Fatalf("contract_id fallback: got %v", doc["contract_id"])
	}
	if doc["file_name"] != "msa_2024.txt" {
		t.Fatalf("file_name: got %v", doc["file_name"])
	}
	agreement, _ := doc["agreement"].(map[string]any)
	if agreement == nil {
		t.Fatalf("output missing agreement block")
	}
	if agreement["agreement_type"] != "MSA" {
		t.Fatalf("contract_type not renamed: %v", agreement["agreement_type"])
	}
	if _, stale := agreement["contract_type"]; stale {
		t.Fatalf("legacy contract_type key survived normalization")
	}
	gl, _ := agreement["governing_law"].(map[string]any)
	if gl == nil || gl["country"] != "UK" {
		t.Fatalf("governing law not split: %v", agreement["governing_law"])
	}
	dr, _ := agreement["dispute_resolution"].(map[string]any)
	if dr == nil || dr["method"] != "arbitration" {
		t.Fatalf("dispute method not canonicalized: %v", agreement["dispute_resolution"])
	}

	debug, err := os.ReadFile(filepath.Join(opts.DebugDir, "complete_response_msa_2024.json"))
	if err != nil {
		t.Fatalf("read debug dump: %v", err)
	}
	if string(debug) != `{"id":"resp_1"}` {
		t.Fatalf("debug dump should carry the raw API payload, got %s", debug)
	}
}

func TestRunEnforcesLengthBudget(t *testing.T) {
	opts := testOptions(t)
	opts.MaxChars = 50
	writeInput(t, opts, "long.txt", strings.Repeat("liability and indemnity terms ", 10))

	llm := &fakeLLM{content: modelResponse}
	svc := NewService(llm, testLogger())

	summary, err := svc.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Failed != 1 || summary.Successful != 0 {
		t.Fatalf("summary: %+v", summary)
	}
	if llm.calls != 0 {
		t.Fatalf("over-budget contract should never reach the model")
	}
	if !strings.Contains(summary.Results[0].Reason, "exceeding the limit") {
		t.Fatalf("reason: %q", summary.Results[0].Reason)
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	opts := testOptions(t)
	writeInput(t, opts, "bad.txt", "some contract text")

	llm := &fakeLLM{content: "the model refused to answer with JSON"}
	svc := NewService(llm, testLogger())

	summary, err := svc.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("per-file parse failure must not abort the run: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary: %+v", summary)
	}
	if !strings.Contains(summary.Results[0].Reason, "parse model output") {
		t.Fatalf("reason: %q", summary.Results[0].Reason)
	}
}

func TestExtractOneExplicitOutput(t *testing.T) {
	opts := testOptions(t)
	writeInput(t, opts, "nda.txt", "NON-DISCLOSURE AGREEMENT")
	out := filepath.Join(t.TempDir(), "custom", "nda_extracted.json")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	svc := NewService(&fakeLLM{content: modelResponse}, testLogger())
	got, err := svc.ExtractOne(context.Background(), filepath.Join(opts.InputDir, "nda.txt"), out, opts)
	if err != nil {
		t.Fatalf("extract one: %v", err)
	}
	if got != out {
		t.Fatalf("output path: want=%s got=%s", out, got)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestRunWithoutClient(t *testing.T) {
	svc := NewService(nil, testLogger())
	_, err := svc.Run(context.Background(), Options{InputDir: t.TempDir()})
	if !errors.Is(err, apperrors.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestParseJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantKey string
		wantErr bool
	}{
		{"plain", `{"agreement": {}}`, "agreement", false},
		{"fenced", "```json\n{\"agreement\": {}}\n```", "agreement", false},
		{"prose wrapped", "Here is the extraction:\n{\"agreement\": {}}\nLet me know!", "agreement", false},
		{"no object", "I cannot process this document.", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseJSONObject(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if _, ok := got[tc.wantKey]; !ok {
				t.Fatalf("missing key %s in %v", tc.wantKey, got)
			}
		})
	}
}
