package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/output"
)

// captureOutput redirects the shared writer to buffers for the duration of the test.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	old := out
	out = output.NewWithWriters(stdout, stderr, false)
	t.Cleanup(func() { out = old })
	return stdout, stderr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// newProject creates a project with one fake installation per version.
func newProject(t *testing.T, config string, versions ...string) string {
	t.Helper()
	t.Setenv("TOOLPIN_MAIN_TOOLCHAIN", "")
	t.Setenv("TOOLPIN_TEST_TOOLCHAIN", "")
	t.Setenv("TOOLPIN_TOOLCHAIN_VENDOR", "")
	t.Setenv("TOOLPIN_INSTALLATIONS", "")

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".toolpin", "config.json"), config)
	for _, v := range versions {
		writeFile(t, filepath.Join(root, "jdks", "jdk-"+v, "release"),
			"JAVA_VERSION=\""+v+"\"\nIMPLEMENTOR=\"Toolpin Test Labs\"\n")
	}
	return root
}

const testConfig = `{
	"project": {"name": "demo"},
	"toolchains": {"vendor": "toolpin test"},
	"frontends": {"primary": true, "secondary": false, "benchmark": false},
	"installations": {"paths": ["jdks"]}
}`

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantProps     map[string]string
		wantDir       string
		wantJobs      int
		wantLogFormat string
		wantRemaining []string
		wantErr       bool
	}{
		{
			name:          "no flags",
			args:          []string{"run"},
			wantLogFormat: "text",
			wantRemaining: []string{"run"},
		},
		{
			name:          "-P with space",
			args:          []string{"-P", "mainToolchain=21", "plan"},
			wantProps:     map[string]string{"mainToolchain": "21"},
			wantLogFormat: "text",
			wantRemaining: []string{"plan"},
		},
		{
			name:          "-P attached",
			args:          []string{"run", "-PtestToolchain=22", "test"},
			wantProps:     map[string]string{"testToolchain": "22"},
			wantLogFormat: "text",
			wantRemaining: []string{"run", "test"},
		},
		{
			name:          "directory jobs and log format",
			args:          []string{"-C", "/tmp/p", "-j", "3", "--log-format=json", "run"},
			wantDir:       "/tmp/p",
			wantJobs:      3,
			wantLogFormat: "json",
			wantRemaining: []string{"run"},
		},
		{
			name:          "-- passthrough",
			args:          []string{"run", "--", "-P", "x"},
			wantLogFormat: "text",
			wantRemaining: []string{"run", "--", "-P", "x"},
		},
		{name: "-P without value", args: []string{"run", "-P"}, wantErr: true},
		{name: "-P without equals", args: []string{"-PmainToolchain", "run"}, wantErr: true},
		{name: "bad jobs", args: []string{"--jobs=0", "run"}, wantErr: true},
		{name: "bad log format", args: []string{"--log-format=xml", "run"}, wantErr: true},
		{name: "quiet and verbose", args: []string{"-q", "-v", "run"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			opts, remaining, err := parseGlobalFlags(tt.args)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(opts.Properties) != len(tt.wantProps) {
				t.Errorf("Properties = %v, want %v", opts.Properties, tt.wantProps)
			}
			for k, v := range tt.wantProps {
				if opts.Properties[k] != v {
					t.Errorf("Properties[%s] = %q, want %q", k, opts.Properties[k], v)
				}
			}
			if opts.Dir != tt.wantDir {
				t.Errorf("Dir = %q, want %q", opts.Dir, tt.wantDir)
			}
			if opts.Jobs != tt.wantJobs {
				t.Errorf("Jobs = %d, want %d", opts.Jobs, tt.wantJobs)
			}
			if opts.LogFormat != tt.wantLogFormat {
				t.Errorf("LogFormat = %q, want %q", opts.LogFormat, tt.wantLogFormat)
			}
			if strings.Join(remaining, " ") != strings.Join(tt.wantRemaining, " ") {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestWantsHelp(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"-h"}, true},
		{[]string{"test", "--help"}, true},
		{[]string{"--", "-h"}, false},
		{[]string{"test"}, false},
	}
	for _, tt := range tests {
		if got := wantsHelp(tt.args); got != tt.want {
			t.Errorf("wantsHelp(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestRun_Version(t *testing.T) {
	stdout, _ := captureOutput(t)

	if code := Run([]string{"version"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got := stdout.String(); got != "toolpin dev\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRun_Help(t *testing.T) {
	stdout, _ := captureOutput(t)

	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"resolve", "plan", "run [task...]", "TOOLPIN_MAIN_TOOLCHAIN"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	_, stderr := captureOutput(t)

	if code := Run([]string{"deploy"}); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
	if !strings.Contains(stderr.String(), `unknown command "deploy"`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_NotAProject(t *testing.T) {
	_, stderr := captureOutput(t)

	if code := Run([]string{"-C", t.TempDir(), "resolve"}); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
	if !strings.Contains(stderr.String(), "not a toolpin project") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Resolve(t *testing.T) {
	root := newProject(t, testConfig)
	writeFile(t, filepath.Join(root, "toolpin.properties"), "testToolchain=22\n")
	stdout, _ := captureOutput(t)

	if code := Run([]string{"-C", root, "-P", "mainToolchain=21", "resolve"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{
		"Main: 21 (command line)",
		"Test: 22 (toolpin.properties)",
		"Vendor: toolpin test (config.json)",
		"Primary front-end: active (forced)",
		"Secondary front-end: inactive (forced)",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRun_ResolveDefaults(t *testing.T) {
	root := newProject(t, `{"project": {"name": "demo"}}`)
	stdout, _ := captureOutput(t)

	if code := Run([]string{"-C", root, "resolve"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"Main: 17 (baseline)", "Test: 17 (inherited from main)", "Vendor: any"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRun_PlanJSON(t *testing.T) {
	root := newProject(t, testConfig)
	stdout, _ := captureOutput(t)

	if code := Run([]string{"-C", root, "-PtestToolchain=20", "plan", "--format=json"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	var doc planDocument
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if doc.Main != "17" || doc.Test != "20" {
		t.Errorf("versions = %s/%s, want 17/20", doc.Main, doc.Test)
	}
	if !doc.Frontends["primary"] || doc.Frontends["secondary"] {
		t.Errorf("frontends = %v", doc.Frontends)
	}

	byTask := map[string]int{}
	for i, b := range doc.Tasks {
		byTask[b.Task] = i
	}
	testTask := doc.Tasks[byTask["test"]]
	if testTask.Toolchain != "20 (toolpin test)" || !testTask.Launcher {
		t.Errorf("test binding = %+v", testTask)
	}
	if testTask.SystemProperties["net.bytebuddy.experimental"] != "true" {
		t.Errorf("test system properties = %v", testTask.SystemProperties)
	}
	if compile := doc.Tasks[byTask["compileJava"]]; compile.Release != "17" || compile.Compiler {
		t.Errorf("compileJava binding = %+v", compile)
	}
}

func TestRun_PlanInvalidFormat(t *testing.T) {
	root := newProject(t, testConfig)
	captureOutput(t)

	if code := Run([]string{"-C", root, "plan", "--format=xml"}); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestRun_Run(t *testing.T) {
	root := newProject(t, testConfig, "21.0.2")
	stdout, stderr := captureOutput(t)

	code := Run([]string{"-C", root, "-P", "mainToolchain=21", "run"})
	if code != 0 {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr.String())
	}

	jdk := filepath.Join(root, "jdks", "jdk-21.0.2")
	want := "Main toolchain: Toolpin Test Labs 21 (" + jdk + ")"
	if strings.Count(stdout.String(), "Main toolchain:") != 1 || !strings.Contains(stdout.String(), want) {
		t.Errorf("output missing single %q:\n%s", want, stdout.String())
	}
	if strings.Contains(stdout.String(), "Test toolchain") {
		t.Errorf("inherited test toolchain was reported:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "3 tasks succeeded") {
		t.Errorf("output = %s", stdout.String())
	}
}

func TestRun_RunReportFileUnwritable(t *testing.T) {
	root := newProject(t, `{
		"project": {"name": "demo"},
		"toolchains": {"vendor": "toolpin test"},
		"frontends": {"primary": true, "secondary": false, "benchmark": false},
		"installations": {"paths": ["jdks"]},
		"report": {"file": "blocked/toolchains.yaml"}
	}`, "21.0.2")
	writeFile(t, filepath.Join(root, "blocked"), "not a directory")
	stdout, stderr := captureOutput(t)

	code := Run([]string{"-C", root, "-P", "mainToolchain=21", "run"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "3 tasks succeeded") {
		t.Errorf("stdout = %s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "failed to write toolchain report") {
		t.Errorf("stderr = %s, want report warning", stderr.String())
	}
}

func TestRun_RunMissingToolchain(t *testing.T) {
	root := newProject(t, testConfig, "21.0.2")
	stdout, stderr := captureOutput(t)

	code := Run([]string{"-C", root, "-P", "mainToolchain=21", "-P", "testToolchain=25", "run", "test"})
	if code != errors.ExitToolchainError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitToolchainError)
	}
	if !strings.Contains(stderr.String(), "[compileTestJava] failed") {
		t.Errorf("stderr = %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "[test] skipped") {
		t.Errorf("stdout = %s", stdout.String())
	}
}

func TestRun_Toolchains(t *testing.T) {
	root := newProject(t, testConfig, "21.0.2")
	stdout, _ := captureOutput(t)

	if code := Run([]string{"-C", root, "toolchains"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), filepath.Join(root, "jdks", "jdk-21.0.2")) {
		t.Errorf("output = %s", stdout.String())
	}
}

func TestRun_ConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		wantCode int
		wantOut  string
	}{
		{"valid", testConfig, 0, "Configuration is valid."},
		{"invalid task kind", `{"project":{"name":"demo"},"tasks":[{"name":"a","kind":"scala"}]}`, errors.ExitConfigError, ""},
		{"invalid json", `{"project":`, errors.ExitConfigError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t, tt.config)
			stdout, _ := captureOutput(t)

			if code := Run([]string{"-C", root, "config", "validate"}); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantOut != "" && !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("output = %s", stdout.String())
			}
		})
	}
}

func TestRun_ConfigMissingSubcommand(t *testing.T) {
	captureOutput(t)

	if code := Run([]string{"config"}); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
}
