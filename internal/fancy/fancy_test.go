package fancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exact", TruncateString("exact", 5))
	assert.Equal(t, "long st...", TruncateString("long string here", 10))
}

func TestTreeRendering(t *testing.T) {
	t.Parallel()

	tr := Tree()
	tr.Root("run")
	tr.Child("script")
	tr.Child(BranchNode("assets", "(2 entries)"))

	out := tr.String()
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "script")
	assert.Contains(t, out, "assets")
}
