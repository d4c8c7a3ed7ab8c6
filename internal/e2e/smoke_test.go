package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	for _, args := range [][]string{
		{"shop", "add", "--id", "shop-1", "--name", "Corner", "--lat", "48.8566", "--lng", "2.3522"},
		{"product", "add", "--id", "lamp", "--shop", "shop-1", "--name", "Lamp", "--price", "100", "--min-price", "70", "--max-discount", "30"},
	} {
		_, stderr, err := runHaggle(t, binaryPath, home, args...)
		require.NoError(t, err, "stderr: %s", stderr)
	}

	stdout, stderr, err := runHaggle(t, binaryPath, home, "negotiate", "product", "lamp")
	require.NoError(t, err, "stderr: %s", stderr)
	fields := strings.Fields(stdout)
	require.GreaterOrEqual(t, len(fields), 2)
	id := fields[1]

	stdout, stderr, err = runHaggle(t, binaryPath, home, "negotiate", "offer", id, "95")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "counter 98.00")

	stdout, stderr, err = runHaggle(t, binaryPath, home, "negotiate", "show", id)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "product lamp ("+id+")")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "haggle-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/haggle")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build haggle binary: %s", string(output))
	return binaryPath
}

func runHaggle(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
