package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kampmann-lab/stringnet/internal/genelist"
	"github.com/kampmann-lab/stringnet/internal/ratelimit"
	"github.com/kampmann-lab/stringnet/internal/stringdb"
	"github.com/kampmann-lab/stringnet/pkg/types"
)

// fakeString is an in-process STRING API serving canned responses per
// format/method path. failPath forces an HTTP 500 on one endpoint.
type fakeString struct {
	t        *testing.T
	calls    []string
	params   map[string]url.Values
	failPath string
}

func (f *fakeString) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			f.t.Errorf("ParseForm: %v", err)
		}
		f.calls = append(f.calls, r.URL.Path)
		f.params[r.URL.Path] = r.PostForm

		if r.URL.Path == f.failPath {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		switch r.URL.Path {
		case "/image/network", "/highres_image/network":
			w.Write([]byte{0x89, 'P', 'N', 'G'})
		case "/tsv-no-header/network":
			w.Write([]byte("idA\tidB\tTP53\tMDM2\t0.9\nidA\tidC\tTP53\tBAX\t0.8\n"))
		case "/json/enrichment":
			w.Write([]byte(`[{"category":"Process","term":"GO:0006915","p_value":0.0052}]`))
		case "/tsv/network":
			w.Write([]byte("stringId_A\tstringId_B\tscore\nidA\tidB\t0.9\n"))
		case "/tsv/get_string_ids":
			w.Write([]byte("queryItem\tstringId\nTP53\t9606.ENSP1\n"))
		default:
			f.t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func testRun(t *testing.T, opts Options, failPath string) (*Result, *fakeString, string, error) {
	t.Helper()

	fake := &fakeString{t: t, params: make(map[string]url.Values), failPath: failPath}
	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)

	prefix := filepath.Join(t.TempDir(), "out")
	opts.Prefix = prefix

	genes := genelist.FromSlice([]string{"TP53", "EGFR"})
	client := stringdb.New(genes, prefix, types.ClientConfig{APIBase: ts.URL}, ratelimit.Nop{})

	result, err := Run(context.Background(), client, opts)
	return result, fake, prefix, err
}

func TestRunFullEnrichment(t *testing.T) {
	opts := Options{Input: "genes.txt", Nodes: 10, Flavor: "confidence", Resolution: "low"}
	result, fake, prefix, err := testRun(t, opts, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantCalls := []string{
		"/image/network",
		"/tsv-no-header/network",
		"/json/enrichment",
		"/tsv/get_string_ids",
	}
	if !reflect.DeepEqual(fake.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", fake.calls, wantCalls)
	}

	// Enrichment runs on the extended node list, not the input set.
	if got := fake.params["/json/enrichment"].Get("identifiers"); got != "BAX%0dMDM2%0dTP53" {
		t.Errorf("enrichment identifiers = %q", got)
	}
	// The identifier map covers the original gene set.
	if got := fake.params["/tsv/get_string_ids"].Get("identifiers"); got != "EGFR%0dTP53" {
		t.Errorf("map identifiers = %q", got)
	}

	for _, suffix := range []string{
		stringdb.SuffixNetworkImage,
		stringdb.SuffixEnrichment,
		stringdb.SuffixIdentifierMap,
		SuffixManifest,
	} {
		if _, err := os.Stat(prefix + suffix); err != nil {
			t.Errorf("missing artifact %s: %v", suffix, err)
		}
	}
	if _, err := os.Stat(prefix + stringdb.SuffixNetworkTable); !os.IsNotExist(err) {
		t.Error("network table written in full-enrichment mode")
	}

	if result.Mode != ModeFullEnrichment {
		t.Errorf("Mode = %q", result.Mode)
	}
	if result.ExtendedNodes != 3 {
		t.Errorf("ExtendedNodes = %d, want 3", result.ExtendedNodes)
	}
	if len(result.Artifacts) != 4 {
		t.Errorf("len(Artifacts) = %d, want 4", len(result.Artifacts))
	}

	m, err := ReadManifest(prefix + SuffixManifest)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Mode != ModeFullEnrichment || m.Genes != 2 || m.ExtendedNodes != 3 {
		t.Errorf("manifest = %+v", m)
	}
	if len(m.Artifacts) != len(result.Artifacts) {
		t.Errorf("manifest artifacts = %d, want %d", len(m.Artifacts), len(result.Artifacts))
	}
}

func TestRunNetworkOnly(t *testing.T) {
	opts := Options{Input: "genes.txt", Nodes: 0, NetworkOnly: true}
	result, fake, prefix, err := testRun(t, opts, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantCalls := []string{"/tsv/network", "/tsv/get_string_ids"}
	if !reflect.DeepEqual(fake.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", fake.calls, wantCalls)
	}
	if got := fake.params["/tsv/network"].Get("add_white_nodes"); got != "0" {
		t.Errorf("add_white_nodes = %q, want 0", got)
	}

	for _, suffix := range []string{stringdb.SuffixNetworkTable, stringdb.SuffixIdentifierMap, SuffixManifest} {
		if _, err := os.Stat(prefix + suffix); err != nil {
			t.Errorf("missing artifact %s: %v", suffix, err)
		}
	}
	if result.Mode != ModeNetworkOnly {
		t.Errorf("Mode = %q", result.Mode)
	}
	if result.ExtendedNodes != 0 {
		t.Errorf("ExtendedNodes = %d, want 0", result.ExtendedNodes)
	}
}

func TestRunAbortsOnFailure(t *testing.T) {
	// Enrichment fails: the identifier map must never run, but the
	// image written beforehand stays on disk.
	opts := Options{Input: "genes.txt", Nodes: 10, Flavor: "confidence", Resolution: "low"}
	result, fake, prefix, err := testRun(t, opts, "/json/enrichment")
	if err == nil {
		t.Fatal("expected run to fail")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if !strings.Contains(err.Error(), "functional enrichment step") {
		t.Errorf("error does not name the failing step: %v", err)
	}

	for _, path := range fake.calls {
		if path == "/tsv/get_string_ids" {
			t.Error("identifier map ran after a failed step")
		}
	}
	if _, err := os.Stat(prefix + stringdb.SuffixNetworkImage); err != nil {
		t.Errorf("earlier artifact removed: %v", err)
	}
	if _, err := os.Stat(prefix + SuffixManifest); !os.IsNotExist(err) {
		t.Error("manifest written for a failed run")
	}
}

func TestRunTransportFailureFirstStep(t *testing.T) {
	opts := Options{Input: "genes.txt", Nodes: 10, Flavor: "confidence", Resolution: "low"}
	_, fake, prefix, err := testRun(t, opts, "/image/network")
	if err == nil {
		t.Fatal("expected run to fail")
	}
	if !strings.Contains(err.Error(), "network image step") {
		t.Errorf("error does not name the failing step: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Errorf("calls after first-step failure = %v", fake.calls)
	}
	if _, err := os.Stat(prefix + stringdb.SuffixNetworkImage); !os.IsNotExist(err) {
		t.Error("image written despite transport failure")
	}
}
