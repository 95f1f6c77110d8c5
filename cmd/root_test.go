package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/close-import/internal/report"
	"github.com/sells-group/close-import/pkg/closeio"
)

// fakeClose is an in-memory Close API holding leads, contacts, and lead
// custom fields. Created objects are echoed back with a generated ID.
type fakeClose struct {
	mu       sync.Mutex
	records  map[string][]map[string]any
	prefixes map[string]string
	posts    int
}

func newFakeClose() *fakeClose {
	return &fakeClose{
		records: map[string][]map[string]any{},
		prefixes: map[string]string{
			"/lead/":              "lead",
			"/contact/":           "cont",
			"/custom_field/lead/": "cf",
		},
	}
}

func (f *fakeClose) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix, ok := f.prefixes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if user, _, _ := r.BasicAuth(); user != "api-key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		data := f.records[r.URL.Path]
		if data == nil {
			data = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "has_more": false})
	case http.MethodPost:
		var obj map[string]any
		if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.posts++
		obj["id"] = fmt.Sprintf("%s_%d", prefix, len(f.records[r.URL.Path])+1)
		f.records[r.URL.Path] = append(f.records[r.URL.Path], obj)
		_ = json.NewEncoder(w).Encode(obj)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeClose) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[path])
}

func startFake(t *testing.T) (*fakeClose, closeio.Client, string) {
	t.Helper()
	fake := newFakeClose()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, closeio.NewClient("api-key", closeio.WithBaseURL(srv.URL)), srv.URL
}

const csvHeader = "Contact Name,Contact Emails,Contact Phones,Company,custom.Company Founded,custom.Company Revenue,Company US State\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testWindow(t *testing.T) report.Window {
	t.Helper()
	w, err := report.ParseWindow("1990-01-01", "2010-01-01")
	require.NoError(t, err)
	return w
}

func TestRunPipeline_EndToEnd(t *testing.T) {
	fake, client, _ := startFake(t)

	input := writeFile(t, "in.csv", csvHeader+
		"Jane Doe,jane@acme.com,+15551234567,Acme,1.5.1995,\"$2,500,000\",CA\n"+
		",,,Empty Co,,,\n")
	output := filepath.Join(t.TempDir(), "out.csv")

	sum, err := runPipeline(context.Background(), client, runOptions{
		InputPath:  input,
		OutputPath: output,
		Window:     testWindow(t),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Import.LeadsCreated)
	assert.Equal(t, 1, sum.Import.ContactsCreated)
	assert.Equal(t, 1, fake.count("/lead/"))
	assert.Equal(t, 1, fake.count("/contact/"))
	assert.Equal(t, 2, fake.count("/custom_field/lead/"))

	require.Len(t, sum.Rows, 1)
	assert.Equal(t, report.Row{State: "CA", LeadCount: 1, TopLead: "Acme", TopRevenue: 2500000, MedianRevenue: 2500000}, sum.Rows[0])

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t,
		"US State,Total number of leads,Lead with most revenue,Total revenue,Median revenue\n"+
			"CA,1,Acme,2500000,2500000\n",
		string(data))
}

func TestRunPipeline_SecondRunCreatesNothing(t *testing.T) {
	fake, client, _ := startFake(t)

	input := writeFile(t, "in.csv", csvHeader+
		"Jane,jane@acme.com,,Acme,01.01.2000,100,CA\n"+
		"John,,,Acme,01.01.2000,100,CA\n"+
		"Ann,,,Beta,05.05.2005,300,CA\n"+
		"Bob,,,Gamma,05.05.2020,900,NY\n")
	opts := runOptions{InputPath: input, OutputPath: filepath.Join(t.TempDir(), "out.csv"), Window: testWindow(t)}

	_, err := runPipeline(context.Background(), client, opts)
	require.NoError(t, err)
	postsAfterFirst := fake.posts

	sum, err := runPipeline(context.Background(), client, opts)
	require.NoError(t, err)

	assert.Equal(t, postsAfterFirst, fake.posts)
	assert.Equal(t, 0, sum.Import.LeadsCreated)
	assert.Equal(t, 3, sum.Import.LeadsExisting)
	assert.Equal(t, 4, sum.Import.ContactsExisting)
	assert.Equal(t, 3, fake.count("/lead/"))
	assert.Equal(t, 4, fake.count("/contact/"))

	require.Len(t, sum.Rows, 1, "Gamma founded outside the window")
	assert.Equal(t, report.Row{State: "CA", LeadCount: 2, TopLead: "Beta", TopRevenue: 300, MedianRevenue: 200}, sum.Rows[0])
}

func TestRunPipeline_DryRun(t *testing.T) {
	fake, client, _ := startFake(t)

	input := writeFile(t, "in.csv", csvHeader+"Jane,,,Acme,01.01.2000,100,CA\n")
	output := filepath.Join(t.TempDir(), "out.csv")

	sum, err := runPipeline(context.Background(), client, runOptions{
		InputPath:  input,
		OutputPath: output,
		Window:     testWindow(t),
		DryRun:     true,
	})
	require.NoError(t, err)
	assert.Zero(t, fake.posts)
	assert.Equal(t, 1, sum.Import.LeadsCreated)
	assert.Empty(t, sum.Rows)

	_, err = os.Stat(output)
	assert.NoError(t, err, "header-only report still written")
}

func TestRunPipeline_XLSX(t *testing.T) {
	_, client, _ := startFake(t)

	input := writeFile(t, "in.csv", csvHeader+"Jane,,,Acme,01.01.2000,100,CA\n")
	dir := t.TempDir()

	_, err := runPipeline(context.Background(), client, runOptions{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.csv"),
		XLSXPath:   filepath.Join(dir, "out.xlsx"),
		Window:     testWindow(t),
	})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "out.xlsx"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunPipeline_MissingInput(t *testing.T) {
	fake, client, _ := startFake(t)

	_, err := runPipeline(context.Background(), client, runOptions{
		InputPath:  filepath.Join(t.TempDir(), "missing.csv"),
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
		Window:     testWindow(t),
	})
	require.Error(t, err)
	assert.Zero(t, fake.posts)
}

func TestRunPipeline_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	client := closeio.NewClient("api-key", closeio.WithBaseURL(srv.URL))

	input := writeFile(t, "in.csv", csvHeader+"Jane,,,Acme,,,\n")
	_, err := runPipeline(context.Background(), client, runOptions{
		InputPath:  input,
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
		Window:     testWindow(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	rootDryRun, rootXLSX = false, ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.True(t, strings.HasPrefix(rootCmd.Use, "close-import"))
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	flag := rootCmd.Flags().Lookup("dry-run")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
	require.NotNil(t, rootCmd.Flags().Lookup("xlsx"))
}

func TestRootCommand_TooFewArgsPrintsUsage(t *testing.T) {
	out, err := executeRoot(t, "api-key", "in.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid arguments.")
	assert.Contains(t, out, "API_KEY INPUT_FILE OUTPUT_FILE START_DATE END_DATE")
}

func TestRootCommand_BadDate(t *testing.T) {
	_, err := executeRoot(t, "api-key", "in.csv", "out.csv", "1990/01/01", "2010-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse start date")
}

func TestRootCommand_FullRun(t *testing.T) {
	fake, _, url := startFake(t)
	t.Setenv("CLOSE_CLOSE_BASE_URL", url)
	t.Setenv("CLOSE_CLOSE_RATE_LIMIT", "0")

	input := writeFile(t, "in.csv", csvHeader+"Jane,jane@acme.com,,Acme,01.01.2000,100,TX\n")
	output := filepath.Join(t.TempDir(), "out.csv")

	_, err := executeRoot(t, "api-key", input, output, "1990-01-01", "2010-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.count("/lead/"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TX,1,Acme,100,100\n")
}
