package download

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// WriteFailureLog writes one "url<TAB>reason" line for every outcome that didn't end up saved, returning how many
// were written. A non-empty runID is recorded in a leading comment line. Nothing is written if there are no failures.
func WriteFailureLog(path string, runID string, outcomes []Outcome) (int, error) {
	var buf bytes.Buffer
	if runID != "" {
		fmt.Fprintf(&buf, "# run %v\n", runID)
	}
	count := 0
	for _, o := range outcomes {
		if o.Success() {
			continue
		}
		reason := o.Error()
		if reason == "" {
			reason = string(o.Status)
		}
		fmt.Fprintf(&buf, "%v\t%v\n", o.ReplayURL(), oneLine(reason))
		count++
	}
	if count == 0 {
		return 0, nil
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("failed to write failure log: %w", err)
	}
	return count, nil
}

// ReadFailureLog returns the URLs recorded in a failure log, in order, without duplicates.
func ReadFailureLog(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, _, _ := strings.Cut(line, "\t")
		if u = strings.TrimSpace(u); u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read failure log: %w", err)
	}
	return urls, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
