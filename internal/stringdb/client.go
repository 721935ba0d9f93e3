// Copyright Kampmann Lab, 2026. All rights reserved.

// Package stringdb is a client for the STRING protein-interaction
// database HTTP API. Each operation issues one form-encoded POST
// against <api_base>/<output_format>/<method>, pauses for the service's
// rate limit, and optionally persists the result to a labeled file.
package stringdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kampmann-lab/stringnet/internal/genelist"
	"github.com/kampmann-lab/stringnet/internal/ratelimit"
	"github.com/kampmann-lab/stringnet/pkg/types"
)

// DefaultAPIBase is the STRING API root.
const DefaultAPIBase = "https://string-db.org/api"

// Output formats the STRING API accepts.
const (
	FormatImage        = "image"
	FormatHighresImage = "highres_image"
	FormatTSV          = "tsv"
	FormatTSVNoHeader  = "tsv-no-header"
	FormatJSON         = "json"
)

// API methods used by the client.
const (
	methodNetwork      = "network"
	methodEnrichment   = "enrichment"
	methodGetStringIDs = "get_string_ids"
)

// Artifact file suffixes appended to the output prefix.
const (
	SuffixNetworkImage  = "_network.png"
	SuffixEnrichment    = "_GO.tsv"
	SuffixNetworkTable  = "_net.tsv"
	SuffixIdentifierMap = "_map.tsv"
)

// extendedWhiteNodes is the fixed extra-node count the extended-nodes
// call always requests.
const extendedWhiteNodes = 10

const (
	defaultSpecies        = 9606
	defaultCallerIdentity = "Kampmann Lab"
	defaultTimeout        = 60 * time.Second
	defaultUserAgent      = "stringnet/0.1"
)

// Client issues STRING API calls for a fixed gene set and output prefix.
// Every operation takes an optional gene-set override; nil means the
// stored set. All calls are synchronous and block through the post-call
// rate-limit pause.
type Client struct {
	genes          genelist.Set
	prefix         string
	base           string
	http           *http.Client
	limiter        ratelimit.Limiter
	species        int
	callerIdentity string
	userAgent      string
}

// New constructs a Client for the given gene set and output prefix.
// Zero-valued config fields fall back to the STRING defaults.
func New(genes genelist.Set, prefix string, cfg types.ClientConfig, limiter ratelimit.Limiter) *Client {
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = DefaultAPIBase
	}
	species := cfg.Species
	if species == 0 {
		species = defaultSpecies
	}
	caller := cfg.CallerIdentity
	if caller == "" {
		caller = defaultCallerIdentity
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if limiter == nil {
		limiter = ratelimit.FixedDelay{D: ratelimit.DefaultDelay}
	}

	return &Client{
		genes:          genes,
		prefix:         prefix,
		base:           base,
		http:           &http.Client{Timeout: timeout},
		limiter:        limiter,
		species:        species,
		callerIdentity: caller,
		userAgent:      userAgent,
	}
}

// Genes returns the client's stored gene set.
func (c *Client) Genes() genelist.Set { return c.genes }

// ArtifactPath returns the output path for an artifact suffix.
func (c *Client) ArtifactPath(suffix string) string { return c.prefix + suffix }

// call posts form-encoded params to <base>/<format>/<method> and wraps
// the body in a tagged Response. The rate-limit pause happens after
// every call so a run never exceeds the service's request budget.
func (c *Client) call(ctx context.Context, format, method string, params url.Values) (Response, error) {
	defer c.limiter.Wait()

	endpoint := fmt.Sprintf("%s/%s/%s", c.base, format, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	logrus.WithFields(logrus.Fields{"method": method, "format": format}).Info("calling STRING API")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("STRING API request %s/%s: %w", format, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("STRING API %s/%s returned HTTP %d", format, method, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("reading STRING API response: %w", err)
	}

	if format == FormatImage || format == FormatHighresImage {
		return newBinary(format, body), nil
	}
	return newText(format, body), nil
}

// baseParams builds the parameter set every call shares. A nil genes
// argument falls back to the client's stored set.
func (c *Client) baseParams(genes genelist.Set) url.Values {
	if genes == nil {
		genes = c.genes
	}
	return url.Values{
		"identifiers":     {genes.Join()},
		"species":         {strconv.Itoa(c.species)},
		"caller_identity": {c.callerIdentity},
	}
}

// ResolveFormat maps the CLI resolution selector onto an image format.
// Only "high" selects the high-resolution image; any other value,
// including the default "low", requests the standard image. Values
// outside the two known selectors are reported but not rejected.
func ResolveFormat(resolution string) string {
	if resolution == "high" {
		return FormatHighresImage
	}
	if resolution != "low" {
		logrus.WithField("resolution", resolution).Warn("unknown resolution, requesting standard image")
	}
	return FormatImage
}

// NetworkImage fetches the network image for the gene set and, when
// persist is set, writes <prefix>_network.png. The raw image bytes are
// returned either way.
func (c *Client) NetworkImage(ctx context.Context, genes genelist.Set, nodes int, flavor, resolution string, persist bool) ([]byte, error) {
	params := c.baseParams(genes)
	params.Set("add_white_nodes", strconv.Itoa(nodes))
	params.Set("network_flavor", flavor)

	resp, err := c.call(ctx, ResolveFormat(resolution), methodNetwork, params)
	if err != nil {
		return nil, err
	}
	img, err := resp.Bytes()
	if err != nil {
		return nil, err
	}

	if persist {
		path := c.ArtifactPath(SuffixNetworkImage)
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return nil, fmt.Errorf("writing network image %s: %w", path, err)
		}
		logrus.WithField("file", path).Info("wrote network image")
	}
	return img, nil
}

// ExtendedNodes fetches the network with ten extra white nodes and
// returns every node name present in the edge list, deduplicated and
// sorted. Nothing is persisted; the driver feeds the list to the
// enrichment call.
func (c *Client) ExtendedNodes(ctx context.Context, genes genelist.Set) ([]string, error) {
	params := c.baseParams(genes)
	params.Set("add_white_nodes", strconv.Itoa(extendedWhiteNodes))

	resp, err := c.call(ctx, FormatTSVNoHeader, methodNetwork, params)
	if err != nil {
		return nil, err
	}
	text, err := resp.Text()
	if err != nil {
		return nil, err
	}

	// Columns 2 and 3 of each edge line carry the preferred names of
	// the two interactors.
	nodes := make(genelist.Set)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) > 2 {
			nodes.Add(fields[2])
		}
		if len(fields) > 3 {
			nodes.Add(fields[3])
		}
	}
	return nodes.List(), nil
}

// FunctionalEnrichment fetches functional-enrichment annotations for
// the gene set and, when persist is set, writes <prefix>_GO.tsv.
func (c *Client) FunctionalEnrichment(ctx context.Context, genes genelist.Set, persist bool) (*Table, error) {
	resp, err := c.call(ctx, FormatJSON, methodEnrichment, c.baseParams(genes))
	if err != nil {
		return nil, err
	}
	text, err := resp.Text()
	if err != nil {
		return nil, err
	}

	table, err := ParseJSONArray(text)
	if err != nil {
		return nil, fmt.Errorf("parsing enrichment response: %w", err)
	}

	if persist {
		if err := c.saveTable(table, SuffixEnrichment, "enrichment table"); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// NetworkTable fetches the raw network edge table and, when persist is
// set, writes <prefix>_net.tsv.
func (c *Client) NetworkTable(ctx context.Context, genes genelist.Set, nodes int, persist bool) (*Table, error) {
	params := c.baseParams(genes)
	params.Set("add_white_nodes", strconv.Itoa(nodes))

	resp, err := c.call(ctx, FormatTSV, methodNetwork, params)
	if err != nil {
		return nil, err
	}
	text, err := resp.Text()
	if err != nil {
		return nil, err
	}

	table, err := ParseTSV(text)
	if err != nil {
		return nil, fmt.Errorf("parsing network table: %w", err)
	}

	if persist {
		if err := c.saveTable(table, SuffixNetworkTable, "network table"); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// IdentifierMap maps each gene symbol to its STRING identifier and,
// when persist is set, writes <prefix>_map.tsv. limit=1 keeps the best
// match per symbol; echo_query carries the query term into the table.
func (c *Client) IdentifierMap(ctx context.Context, genes genelist.Set, persist bool) (*Table, error) {
	params := c.baseParams(genes)
	params.Set("limit", "1")
	params.Set("echo_query", "1")

	resp, err := c.call(ctx, FormatTSV, methodGetStringIDs, params)
	if err != nil {
		return nil, err
	}
	text, err := resp.Text()
	if err != nil {
		return nil, err
	}

	table, err := ParseTSV(text)
	if err != nil {
		return nil, fmt.Errorf("parsing identifier map: %w", err)
	}

	if persist {
		if err := c.saveTable(table, SuffixIdentifierMap, "identifier map"); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// saveTable writes a table as <prefix><suffix> in TSV form. The file
// handle is released as soon as the write completes or fails.
func (c *Client) saveTable(t *Table, suffix, what string) error {
	path := c.ArtifactPath(suffix)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.WriteTSV(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logrus.WithField("file", path).Info("wrote " + what)
	return nil
}
