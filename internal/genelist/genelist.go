// Copyright Kampmann Lab, 2026. All rights reserved.

// Package genelist reads and manipulates gene-symbol lists.
package genelist

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Separator is the record-separator token the STRING API expects between
// identifiers in a single form value. It is sent literally, not URL-decoded.
const Separator = "%0d"

// Set is a deduplicated collection of gene symbols. Order is irrelevant;
// List returns a sorted view so outgoing requests are deterministic.
type Set map[string]struct{}

// Read loads a newline-delimited gene list from path. Each symbol is
// whitespace-trimmed; blank lines are dropped and duplicates collapse.
func Read(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading gene list %s: %w", path, err)
	}
	defer f.Close()

	set := make(Set)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		gene := strings.TrimSpace(sc.Text())
		if gene == "" {
			continue
		}
		set[gene] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading gene list %s: %w", path, err)
	}
	return set, nil
}

// FromSlice builds a Set from a slice of symbols, trimming and
// deduplicating as Read does.
func FromSlice(genes []string) Set {
	set := make(Set, len(genes))
	for _, g := range genes {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		set[g] = struct{}{}
	}
	return set
}

// Add inserts a symbol into the set.
func (s Set) Add(gene string) {
	s[gene] = struct{}{}
}

// Len returns the number of symbols in the set.
func (s Set) Len() int { return len(s) }

// List returns the symbols sorted alphabetically.
func (s Set) List() []string {
	genes := make([]string, 0, len(s))
	for g := range s {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

// Join concatenates the sorted symbols with the STRING record separator,
// producing the identifiers value for an API call.
func (s Set) Join() string {
	return strings.Join(s.List(), Separator)
}

// Split breaks a joined identifiers value back into a Set. Splitting the
// output of Join yields the original set.
func Split(joined string) Set {
	if joined == "" {
		return make(Set)
	}
	return FromSlice(strings.Split(joined, Separator))
}
