package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runCLI(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), append([]string{"-root", "testdata"}, args...), strings.NewReader(input), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_InstallAfterScrolling(t *testing.T) {
	code, out, _ := runCLI(t, "i\ns\ni\n", "notes.yaml")
	assert.Equal(t, exitProceed, code)
	assert.Contains(t, out, "install_with_permissions")
	assert.Contains(t, out, "review the permissions before installing (from personal)")
	assert.Contains(t, out, "installing org.example.notes")
}

func TestRun_NoPermissionsInstallsImmediately(t *testing.T) {
	code, out, _ := runCLI(t, "i\n", "clock.yaml")
	assert.Equal(t, exitProceed, code)
	assert.Contains(t, out, "install_no_permissions")
}

func TestRun_UpdateWithoutNewPermissions(t *testing.T) {
	code, out, _ := runCLI(t, "s\ni\n", "-installed", "testdata/installed.yaml", "notes.yaml")
	assert.Equal(t, exitProceed, code)
	assert.Contains(t, out, "installed 2.0.0 (upgrade)")
	assert.Contains(t, out, "== no_new_permissions")
}

func TestRun_Cancel(t *testing.T) {
	code, out, _ := runCLI(t, "c\n", "notes.yaml")
	assert.Equal(t, exitCancelled, code)
	assert.Contains(t, out, "cancelled")
}

func TestRun_EOFCancels(t *testing.T) {
	code, _, _ := runCLI(t, "", "notes.yaml")
	assert.Equal(t, exitCancelled, code)
}

func TestRun_Errors(t *testing.T) {
	code, _, errOut := runCLI(t, "")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "usage")

	code, _, errOut = runCLI(t, "", "missing.yaml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "error:")
}
