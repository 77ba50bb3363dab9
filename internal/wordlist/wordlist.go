// Package wordlist loads word lists from files and the embedded banks.
package wordlist

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed banks/*.txt
var banks embed.FS

// Tiers are the difficulty banks, easiest first.
var Tiers = []string{"easy", "medium", "hard", "expert"}

// Themes are the enemy theme banks.
var Themes = []string{"magic", "combat", "nature", "technology", "corruption", "ancient"}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads one word per line, skipping blanks.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Bank returns the embedded bank with the given name.
func Bank(name string) ([]string, error) {
	f, err := banks.Open("banks/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("unknown word bank %q", name)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
	}()
	return ReadWords(f)
}

// Banks loads every embedded bank keyed by name.
func Banks() (map[string][]string, error) {
	entries, err := banks.ReadDir("banks")
	if err != nil {
		return nil, fmt.Errorf("failed to list word banks: %w", err)
	}
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".txt")
		words, err := Bank(name)
		if err != nil {
			return nil, err
		}
		out[name] = words
	}
	return out, nil
}

// Names returns the sorted bank names present in m.
func Names(m map[string][]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
