package merge

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/gladegen/codegen"
	"github.com/teranos/gladegen/errors"
)

// Header lines: the timestamp changes on every run and follows the source line.
const (
	generatedOnPrefix   = "# Generated on "
	autogeneratedPrefix = "# Autogenerated from "
)

// CheckResult holds the result of comparing fresh output with the snapshot
type CheckResult struct {
	Output     string
	Snapshot   string
	UpToDate   bool   // snapshot matches what would be generated now
	Missing    bool   // no snapshot yet: the document was never generated
	HandEdited bool   // the module differs from its snapshot
	Diff       string // unified diff from snapshot to fresh output
}

// Check regenerates the module in memory and compares it with the
// snapshot, ignoring the generation timestamp. It never writes files.
func Check(w *codegen.Writer) (*CheckResult, error) {
	out := w.OutputPath()
	orig := out + SnapshotSuffix
	result := &CheckResult{Output: out, Snapshot: orig}

	fresh, _, err := w.Generate()
	if err != nil {
		return nil, err
	}

	snapshot, err := os.ReadFile(orig)
	if os.IsNotExist(err) {
		result.Missing = true
		return result, nil
	}
	if err != nil {
		return nil, errors.MarkIO(errors.Wrapf(err, "failed to read %s", orig))
	}

	if current, err := os.ReadFile(out); err == nil {
		result.HandEdited = !bytes.Equal(current, snapshot)
	} else if !os.IsNotExist(err) {
		return nil, errors.MarkIO(errors.Wrapf(err, "failed to read %s", out))
	}

	before, err := filterMetadataLines(snapshot)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to filter %s", orig)
	}
	after, err := filterMetadataLines(fresh)
	if err != nil {
		return nil, err
	}
	if before == after {
		result.UpToDate = true
		return result, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: orig,
		ToFile:   out + " (regenerated)",
		Context:  3,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render diff")
	}
	result.Diff = diff
	return result, nil
}

// filterMetadataLines removes the generation timestamp from content. Only
// the header's timestamp, the line right after "# Autogenerated from", is
// dropped; look-alike lines elsewhere are compared like any other line.
func filterMetadataLines(content []byte) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)

	inHeader := true
	prev := ""
	for scanner.Scan() {
		line := scanner.Text()
		if inHeader && strings.HasPrefix(line, generatedOnPrefix) && strings.HasPrefix(prev, autogeneratedPrefix) {
			inHeader = false
			continue
		}
		if inHeader && line != "" && !strings.HasPrefix(line, "#") {
			inHeader = false
		}
		prev = line
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "failed to read generated module")
	}

	return result.String(), nil
}
