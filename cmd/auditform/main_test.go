package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/goliatone/go-auditform/pkg/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	var out, errOut bytes.Buffer
	root := newRootCommand(&out, &errOut)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func exitCode(err error) int {
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{
		"CCPP22_DEMIN_PLANT-CUSTOM\tcustom",
		"MANUAL-WATER-QUALITY\tcustom",
		"shift-log\tbundled",
		"water-treatment-daily\tbundled",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestLint_BundledFormsPass(t *testing.T) {
	defer goleak.VerifyNone(t)
	out, errOut, err := execute(t, "lint", "--strict")
	if err != nil {
		t.Fatalf("lint: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "3 file(s) checked, 0 finding(s)") {
		t.Fatalf("unexpected summary: %s", out)
	}
}

func TestLint_ReportsWarningsAndErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warn.json", `{"id":"w","title":"W","sections":[{"title":"s","fields":[
		{"name":"code","validators":[{"type":"pattern","value":"("}]}]}]}`)

	_, errOut, err := execute(t, "lint", dir)
	if err != nil {
		t.Fatalf("warnings alone should pass: %v", err)
	}
	if !strings.Contains(errOut, "s.code") {
		t.Fatalf("expected finding for s.code, got:\n%s", errOut)
	}

	if _, _, err := execute(t, "lint", "--strict", dir); exitCode(err) != 1 {
		t.Fatalf("expected strict failure, got %v", err)
	}

	writeFile(t, dir, "broken.yaml", "id: \"\"\nsections: []\n")
	if _, _, err := execute(t, "lint", dir); exitCode(err) != 1 {
		t.Fatalf("expected error finding to fail, got %v", err)
	}
}

func TestInspect_ShowsExpandedRows(t *testing.T) {
	out, _, err := execute(t, "inspect", "shift-log")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"[shifts] rows", "shiftA_operatorName", "shiftC_steamPressure"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSubmit_RequiresTenant(t *testing.T) {
	_, _, err := execute(t, "submit", "MANUAL-WATER-QUALITY")
	if exitCode(err) != 3 {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestSubmit_WritesSanitizedPayloadToFileSink(t *testing.T) {
	dir := t.TempDir()
	sinkPath := filepath.Join(dir, "submissions.jsonl")
	cfgPath := writeFile(t, dir, "config.yaml", "tenantCode: CCPP\nsink:\n  kind: file\n  path: "+sinkPath+"\n  sanitize: true\n")
	valuesPath := writeFile(t, dir, "values.json", `{"operator": {"remarks": "<b>all good</b>"}}`)

	out, errOut, err := execute(t, "--config", cfgPath, "submit", "manual-water-quality", "--values", valuesPath)
	if err != nil {
		t.Fatalf("submit: %v\n%s", err, errOut)
	}

	var printed map[string]any
	if err := json.Unmarshal([]byte(out), &printed); err != nil {
		t.Fatalf("decode stdout: %v\n%s", err, out)
	}
	if printed["tenant"] != "CCPP" || printed["auditId"] != "MANUAL-WATER-QUALITY" {
		t.Fatalf("unexpected payload header: %v", printed)
	}

	data, err := os.ReadFile(sinkPath)
	if err != nil {
		t.Fatalf("read sink: %v", err)
	}
	var stored struct {
		Sections map[string]map[string]any `json:"sections"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("decode sink: %v", err)
	}
	if got := stored.Sections["operator"]["remarks"]; got != "all good" {
		t.Fatalf("expected sanitized remarks, got %v", got)
	}
	if got := stored.Sections["operator"]["employeeId"]; got != "EMP-2024-015" {
		t.Fatalf("expected disabled employee id in raw values, got %v", got)
	}
	if _, ok := stored.Sections["analysis"]["conductivity"]; !ok {
		t.Fatalf("expected analysis values, got %v", stored.Sections["analysis"])
	}
}

func TestSubmit_InvalidFormIsBlocked(t *testing.T) {
	dir := t.TempDir()
	sinkPath := filepath.Join(dir, "submissions.jsonl")
	cfgPath := writeFile(t, dir, "config.yaml", "tenantCode: CCPP\nsink:\n  kind: file\n  path: "+sinkPath+"\n")

	_, errOut, err := execute(t, "--config", cfgPath, "submit", "chemical-dosing")
	if exitCode(err) != 2 {
		t.Fatalf("expected invalid exit code, got %v", err)
	}
	if !strings.Contains(errOut, "Date is required") {
		t.Fatalf("expected report in stderr, got:\n%s", errOut)
	}
	data, _ := os.ReadFile(sinkPath)
	if len(bytes.TrimSpace(data)) != 0 {
		t.Fatalf("sink must stay empty, got %s", data)
	}
}

func TestSubmit_GrowsDynamicRowsFromValues(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "tenantCode: CCPP\n")
	valuesPath := writeFile(t, dir, "values.yaml", `
general:
  date: "2024-11-29"
  supervisor: Ana
dosing:
  row0_chemical: HCL
  row0_quantity: 12
  row0_time: "08:00"
  row1_chemical: NAOH
  row1_quantity: 4.5
  row1_time: "10:30"
  row2_chemical: NAOCL
  row2_quantity: 1
  row2_time: "12:15"
`)
	out, errOut, err := execute(t, "--config", cfgPath, "submit", "chemical-dosing", "--values", valuesPath)
	if err != nil {
		t.Fatalf("submit: %v\n%s", err, errOut)
	}
	var printed struct {
		Sections map[string]map[string]any `json:"sections"`
	}
	if err := json.Unmarshal([]byte(out), &printed); err != nil {
		t.Fatalf("decode stdout: %v", err)
	}
	if got := printed.Sections["general"]["day"]; got != "Friday" {
		t.Fatalf("expected derived weekday, got %v", got)
	}
	if got := printed.Sections["dosing"]["row2_chemical"]; got != "NAOCL" {
		t.Fatalf("expected third row, got %v", got)
	}
}

func TestInspect_UnknownAuditID(t *testing.T) {
	_, _, err := execute(t, "inspect", "no-such-audit")
	if exitCode(err) != 4 {
		t.Fatalf("expected not found exit code, got %v", err)
	}
	if !strings.Contains(err.Error(), `audit form "no-such-audit" not found`) {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestRender_WritesThemedHTML(t *testing.T) {
	out, _, err := execute(t, "render", "shift-log", "--variant", "dark", "--action", "/submit")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`data-audit="shift-log"`,
		`data-variant="dark"`,
		`action="/submit"`,
		`name="shifts.shiftA_operatorName"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, `class="af-error"`) {
		t.Fatalf("untouched form should not render errors")
	}
}

func TestRender_ShowErrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shift-log.html")
	_, errOut, err := execute(t, "render", "shift-log", "--show-errors", "--out", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(errOut, "wrote "+path) {
		t.Fatalf("expected confirmation, got %q", errOut)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `class="af-error"`) || !strings.Contains(string(data), "af-summary") {
		t.Fatalf("expected validation errors in output:\n%s", data)
	}
}

func TestRender_UnknownVariant(t *testing.T) {
	_, _, err := execute(t, "render", "shift-log", "--variant", "sepia")
	if exitCode(err) != 3 {
		t.Fatalf("expected config exit code, got %v", err)
	}
}
