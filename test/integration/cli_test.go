package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

// moodlogBin is the path to the compiled binary, set by TestMain.
var moodlogBin string

func TestMain(m *testing.M) {
	// Build binary once for all tests.
	tmp, err := os.MkdirTemp("", "moodlog-integration-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	moodlogBin = filepath.Join(tmp, "moodlog")
	cmd := exec.Command("go", "build", "-o", moodlogBin, "./cmd/moodlog/")
	cmd.Dir = findModuleRoot()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.RemoveAll(tmp)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// =============================================================================
// Helpers
// =============================================================================

// findModuleRoot walks up from cwd to find go.mod.
func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("go.mod not found")
		}
		dir = parent
	}
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

// env isolates a run: its own data dir and home, no color.
func env(dir string) []string {
	return append(os.Environ(),
		"NO_COLOR=1",
		"HOME="+dir,
		"MOODLOG_DATA_DIR="+filepath.Join(dir, ".moodlog"),
	)
}

// runMoodlog executes the binary in dir with args, returns stdout, stderr, exit code.
func runMoodlog(t *testing.T, dir string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(moodlogBin, args...)
	cmd.Dir = dir
	cmd.Env = env(dir)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("exec error (not ExitError): %v", err)
		}
	}
	return
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exit := runMoodlog(t, dir, args...)
	if exit != 0 {
		t.Fatalf("moodlog %v: exit %d\nstdout: %s\nstderr: %s", args, exit, stdout, stderr)
	}
	return stdout
}

// startServer runs `moodlog serve` on a free port and waits for the port
// file. Returns the base URL and a stop func.
func startServer(t *testing.T, dir string, extra ...string) (string, func()) {
	t.Helper()
	args := append([]string{"serve", "--port", "0"}, extra...)
	cmd := exec.Command(moodlogBin, args...)
	cmd.Dir = dir
	cmd.Env = env(dir)
	if err := cmd.Start(); err != nil {
		t.Fatalf("serve: %v", err)
	}

	portFile := filepath.Join(dir, ".moodlog", "run", "http.port")
	deadline := time.Now().Add(5 * time.Second)
	var port string
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(portFile); err == nil && len(data) > 0 {
			port = strings.TrimSpace(string(data))
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if port == "" {
		cmd.Process.Kill()
		cmd.Wait()
		t.Fatal("server did not write its port file")
	}

	stop := func() {
		cmd.Process.Signal(syscall.SIGTERM)
		done := make(chan struct{})
		go func() { cmd.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			cmd.Process.Kill()
			<-done
		}
	}
	return "http://127.0.0.1:" + port, stop
}

// =============================================================================
// Standalone commands
// =============================================================================

func TestAnalyze_Text(t *testing.T) {
	dir := t.TempDir()
	stdout := mustRun(t, dir, "analyze", "오늘은 정말 행복하고 좋은 하루였다")
	for _, want := range []string{"매우 긍정적", "행복×1", "좋다×1", "2/5 tokens"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("analyze output missing %q:\n%s", want, stdout)
		}
	}
}

func TestAnalyze_JSON(t *testing.T) {
	dir := t.TempDir()
	stdout := mustRun(t, dir, "analyze", "--json", "너무 슬퍼")

	var an struct {
		Keywords  []string `json:"keywords"`
		Sentiment struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"sentiment"`
	}
	if err := json.Unmarshal([]byte(stdout), &an); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(an.Keywords) != 1 || an.Keywords[0] != "슬픔" {
		t.Errorf("keywords = %v", an.Keywords)
	}
	if an.Sentiment.Label != "very_negative" || an.Sentiment.Score != -1 {
		t.Errorf("sentiment = %+v", an.Sentiment)
	}
}

func TestAnalyze_Stdin(t *testing.T) {
	dir := t.TempDir()
	cmd := exec.Command(moodlogBin, "analyze")
	cmd.Dir = dir
	cmd.Env = env(dir)
	cmd.Stdin = strings.NewReader("good\n")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("analyze from stdin: %v", err)
	}
	if !strings.Contains(string(out), "좋다") {
		t.Errorf("stdin text not analyzed:\n%s", out)
	}
}

func TestConfig_Basic(t *testing.T) {
	dir := t.TempDir()
	stdout := mustRun(t, dir, "config")
	for _, want := range []string{"Config:", "Data:", "DB:", "Journal:", "Dictionary:", "not running"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfig_SetAndLoad(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "config", "set", "journal", "work")
	stdout := mustRun(t, dir, "config")
	if !strings.Contains(stdout, "Journal:     work") {
		t.Errorf("journal not applied:\n%s", stdout)
	}

	_, _, exit := runMoodlog(t, dir, "config", "set", "no.such.key", "x")
	if exit == 0 {
		t.Error("unknown key should fail")
	}
}

func TestDict_Stats(t *testing.T) {
	dir := t.TempDir()
	stdout := mustRun(t, dir, "dict")
	if !strings.Contains(stdout, "embedded:v1") || !strings.Contains(stdout, "Keys:") {
		t.Errorf("dict output:\n%s", stdout)
	}
}

func TestDict_UserFile(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "words.yaml")
	writeFile(t, dict, "- key: 커피\n  synonyms: [coffee]\n  sentiment: positive\n")

	mustRun(t, dir, "dict", "check", dict)
	stdout := mustRun(t, dir, "--dict", dict, "analyze", "coffee")
	if !strings.Contains(stdout, "커피") {
		t.Errorf("user dictionary not used:\n%s", stdout)
	}

	writeFile(t, dict, "- key: [\n")
	if _, _, exit := runMoodlog(t, dir, "dict", "check", dict); exit == 0 {
		t.Error("broken dictionary should fail the check")
	}
}

// =============================================================================
// Journal commands
// =============================================================================

func TestWrite_HistoryShowDelete(t *testing.T) {
	dir := t.TempDir()

	stdout := mustRun(t, dir, "write", "오늘은 정말 행복하고 좋은 하루였다")
	if !strings.Contains(stdout, "saved") || !strings.Contains(stdout, "💬") {
		t.Errorf("write output:\n%s", stdout)
	}

	stdout = mustRun(t, dir, "history")
	if !strings.Contains(stdout, "1 entries") {
		t.Fatalf("history output:\n%s", stdout)
	}

	exported := mustRun(t, dir, "export")
	var snap struct {
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(exported), &snap); err != nil || len(snap.Entries) != 1 {
		t.Fatalf("export: %v\n%s", err, exported)
	}
	id := snap.Entries[0].ID

	stdout = mustRun(t, dir, "show", id)
	if !strings.Contains(stdout, "행복") {
		t.Errorf("show output:\n%s", stdout)
	}

	mustRun(t, dir, "delete", "--force", id)
	if _, _, exit := runMoodlog(t, dir, "show", id); exit == 0 {
		t.Error("show after delete should fail")
	}
}

func TestWrite_FutureDateRejected(t *testing.T) {
	dir := t.TempDir()
	tomorrow := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	_, stderr, exit := runMoodlog(t, dir, "write", "--date", tomorrow, "good")
	if exit == 0 {
		t.Fatal("future date should fail")
	}
	if !strings.Contains(stderr, "future") {
		t.Errorf("stderr should explain the future date:\n%s", stderr)
	}
}

func TestStatsAndSeries(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "write", "good")
	mustRun(t, dir, "write", "너무 슬퍼")

	stdout := mustRun(t, dir, "stats", "--json")
	var st struct {
		Days  int `json:"days"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(stdout), &st); err != nil {
		t.Fatalf("decode stats: %v\n%s", err, stdout)
	}
	if st.Days != 14 || st.Total != 2 {
		t.Errorf("stats = %+v", st)
	}

	stdout = mustRun(t, dir, "series", "--days", "30", "--json")
	var ts struct {
		Dates []string `json:"dates"`
	}
	if err := json.Unmarshal([]byte(stdout), &ts); err != nil || len(ts.Dates) != 30 {
		t.Errorf("series: %v, %d dates", err, len(ts.Dates))
	}

	stdout = mustRun(t, dir, "words")
	if !strings.Contains(stdout, "좋다") || !strings.Contains(stdout, "슬픔") {
		t.Errorf("words output:\n%s", stdout)
	}

	stdout = mustRun(t, dir, "calendar", "--list")
	if !strings.Contains(stdout, "매우 부정적") {
		t.Errorf("calendar should show the latest mood:\n%s", stdout)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := t.TempDir()
	mustRun(t, src, "write", "good")
	file := filepath.Join(src, "backup.json")
	mustRun(t, src, "export", "-o", file)

	dst := t.TempDir()
	mustRun(t, dst, "import", "--force", file)
	stdout := mustRun(t, dst, "history")
	if !strings.Contains(stdout, "1 entries") {
		t.Errorf("imported history:\n%s", stdout)
	}
}

func TestWipe(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "write", "good")
	mustRun(t, dir, "wipe", "--force")

	stdout := mustRun(t, dir, "history")
	if !strings.Contains(stdout, "no entries") {
		t.Errorf("history after wipe:\n%s", stdout)
	}
}

func TestJournals_Scoped(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "write", "good")
	mustRun(t, dir, "-j", "work", "write", "피곤")

	stdout := mustRun(t, dir, "history")
	if !strings.Contains(stdout, "1 entries") {
		t.Errorf("default journal should hold one entry:\n%s", stdout)
	}

	stdout = mustRun(t, dir, "journals")
	if !strings.Contains(stdout, "default") || !strings.Contains(stdout, "work") {
		t.Errorf("journals output:\n%s", stdout)
	}

	mustRun(t, dir, "journals", "rm", "--force", "work")
	stdout = mustRun(t, dir, "journals")
	if strings.Contains(stdout, "work") {
		t.Errorf("work journal should be gone:\n%s", stdout)
	}
}

// =============================================================================
// Server
// =============================================================================

func TestServe_HealthAndEntries(t *testing.T) {
	dir := t.TempDir()
	url, stop := startServer(t, dir)
	defer stop()

	resp, err := http.Get(url + "/api/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("health status %d", resp.StatusCode)
	}

	resp, err = http.Post(url+"/api/entries", "application/json", strings.NewReader(`{"text":"good"}`))
	if err != nil {
		t.Fatalf("post entry: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 201 {
		t.Fatalf("create status %d", resp.StatusCode)
	}

	// The server holds the database lock; CLI commands explain why they fail.
	_, stderr, exit := runMoodlog(t, dir, "history")
	if exit == 0 || !strings.Contains(stderr, "moodlog serve") {
		t.Errorf("expected lock diagnosis, exit %d:\n%s", exit, stderr)
	}
}

func TestServe_PortCleanedOnStop(t *testing.T) {
	dir := t.TempDir()
	_, stop := startServer(t, dir)
	stop()

	if _, err := os.Stat(filepath.Join(dir, ".moodlog", "run", "http.port")); !os.IsNotExist(err) {
		t.Error("port file should be removed on shutdown")
	}
}

func TestServe_DictionaryHotReload(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "words.yaml")
	writeFile(t, dict, "- key: 커피\n  synonyms: [coffee]\n  sentiment: positive\n")

	url, stop := startServer(t, dir, "--dict", dict)
	defer stop()

	writeFile(t, dict, "- key: 차\n  synonyms: [tea]\n  sentiment: positive\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Post(url+"/api/analyze", "application/json", strings.NewReader(`{"text":"tea"}`))
		if err == nil {
			var an struct {
				Keywords []string `json:"keywords"`
			}
			json.NewDecoder(resp.Body).Decode(&an)
			resp.Body.Close()
			if len(an.Keywords) == 1 && an.Keywords[0] == "차" {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("dictionary change was not picked up")
}
