package errors

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kinds = []struct {
	name     string
	sentinel error
	mark     func(error) error
	is       func(error) bool
	kind     string
	exitCode int
}{
	{"usage", ErrUsage, MarkUsage, IsUsage, "usage", 2},
	{"missing tool", ErrMissingTool, MarkMissingTool, IsMissingTool, "missing_tool", 1},
	{"malformed document", ErrMalformedDocument, MarkMalformedDocument, IsMalformedDocument, "malformed_document", 1},
	{"io", ErrIO, MarkIO, IsIO, "io", 1},
	{"unsafe state", ErrUnsafeState, MarkUnsafeState, IsUnsafeState, "unsafe_state", 1},
	{"merge failure", ErrMergeFailure, MarkMergeFailure, IsMergeFailure, "merge_failure", 1},
}

func TestKindMarks(t *testing.T) {
	for _, tt := range kinds {
		t.Run(tt.name, func(t *testing.T) {
			base := New("boom")
			err := Wrap(tt.mark(WithHint(base, "do something")), "outer")

			assert.True(t, tt.is(err))
			assert.True(t, Is(err, tt.sentinel))
			assert.True(t, Is(err, base), "mark keeps the original chain")
			assert.Equal(t, tt.kind, Kind(err))
			assert.Equal(t, tt.exitCode, ExitCode(err))
			assert.Equal(t, "outer: boom", err.Error())
			assert.Contains(t, GetAllHints(err), "do something")
		})
	}
}

func TestKindMarksAreExclusive(t *testing.T) {
	for _, marked := range kinds {
		err := marked.mark(New("failure"))
		for _, other := range kinds {
			assert.Equal(t, marked.name == other.name, other.is(err), "%s marked, checked %s", marked.name, other.name)
		}
	}
}

func TestKindNil(t *testing.T) {
	for _, tt := range kinds {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, tt.mark(nil))
			assert.False(t, tt.is(nil))
		})
	}
	assert.Equal(t, 0, ExitCode(nil))
}

func TestKindUnclassified(t *testing.T) {
	err := Wrap(New("plain"), "context")
	assert.Equal(t, "error", Kind(err))
	assert.Equal(t, 1, ExitCode(err))
}

func TestKindSurvivesStdlibErrors(t *testing.T) {
	_, statErr := os.Stat("/nonexistent/ui.glade")
	require.Error(t, statErr)

	err := MarkIO(Wrapf(statErr, "failed to read %s", "ui.glade"))
	assert.True(t, IsIO(err))
	assert.True(t, os.IsNotExist(UnwrapAll(err)))
	assert.Contains(t, err.Error(), "failed to read ui.glade")
}

func TestSecondaryErrorKeepsKind(t *testing.T) {
	primary := MarkUnsafeState(Newf("%s exists but %s does not", "ui.py", "ui.py.orig"))
	err := WithSecondaryError(primary, MarkIO(New("disk full")))

	assert.True(t, IsUnsafeState(err))
	assert.False(t, IsIO(err), "secondary errors do not classify")
	assert.Equal(t, "unsafe_state", Kind(err))
	assert.Equal(t, "ui.py exists but ui.py.orig does not", err.Error())
	assert.Contains(t, fmt.Sprintf("%+v", err), "disk full")
}

func TestDetailsReachThePrinter(t *testing.T) {
	err := MarkMergeFailure(WithDetail(New("patch failed"), "1 out of 2 hunks FAILED"))
	err = WithHintf(err, "rejected hunks were saved to %s", "ui.py.rej")

	assert.Equal(t, []string{"1 out of 2 hunks FAILED"}, GetAllDetails(err))
	assert.Equal(t, []string{"rejected hunks were saved to ui.py.rej"}, GetAllHints(err))
	assert.Equal(t, "merge_failure", Kind(err))
}

func ExampleKind() {
	err := MarkMalformedDocument(New("signal outside any widget"))
	err = Wrapf(err, "failed to parse %s", "ui.glade")
	fmt.Println(Kind(err), ExitCode(err))
	fmt.Println(err)
	// Output:
	// malformed_document 1
	// failed to parse ui.glade: signal outside any widget
}

func ExampleMarkUsage() {
	err := MarkUsage(New("--indent must be positive"))
	fmt.Println(Kind(err), ExitCode(err))
	// Output: usage 2
}
