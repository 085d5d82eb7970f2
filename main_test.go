package main

import (
	"bytes"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assessment.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	tests := map[string]struct {
		args     func(t *testing.T) []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		"counts groups": {
			args: func(t *testing.T) []string {
				return []string{writeCSV(t, "id,group\n1,A\n2,B\n3,A\n4,C\n5,B\n6,A\n")}
			},
			wantCode: exitOK,
			wantOut:  "Groups found:\n- A: 3 fields\n- B: 2 fields\n- C: 1 fields\n",
		},
		"header only": {
			args: func(t *testing.T) []string {
				return []string{writeCSV(t, "id,group\n")}
			},
			wantCode: exitOK,
			wantOut:  "Groups found:\n",
		},
		"custom column": {
			args: func(t *testing.T) []string {
				return []string{"-column", "team", writeCSV(t, "team\nx\ny\nx\n")}
			},
			wantCode: exitOK,
			wantOut:  "Groups found:\n- x: 2 fields\n- y: 1 fields\n",
		},
		"missing group column": {
			args: func(t *testing.T) []string {
				return []string{writeCSV(t, "id,name\n1,A\n")}
			},
			wantCode: exitError,
			wantErr:  "missing field",
		},
		"missing file": {
			args: func(t *testing.T) []string {
				return []string{filepath.Join(t.TempDir(), "missing.csv")}
			},
			wantCode: exitError,
			wantErr:  "file access",
		},
		"malformed row": {
			args: func(t *testing.T) []string {
				return []string{writeCSV(t, "group,id\nA,1\nB,2,3\n")}
			},
			wantCode: exitError,
			wantErr:  "malformed row",
		},
		"no arguments": {
			args: func(t *testing.T) []string {
				return nil
			},
			wantCode: exitUsage,
			wantErr:  "usage: groupcount",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			var stdout, stderr bytes.Buffer
			code := run(tc.args(t), &stdout, &stderr)

			req.Equal(tc.wantCode, code)
			req.Equal(tc.wantOut, stdout.String())
			if tc.wantErr != "" {
				req.Contains(stderr.String(), tc.wantErr)
			}
		})
	}
}

func TestRun_Idempotent(t *testing.T) {
	req := require.New(t)
	path := writeCSV(t, "group\nC\nA\nB\nA\n")

	var first, second, stderr bytes.Buffer
	req.Equal(exitOK, run([]string{path}, &first, &stderr))
	req.Equal(exitOK, run([]string{path}, &second, &stderr))

	req.Equal("Groups found:\n- A: 2 fields\n- B: 1 fields\n- C: 1 fields\n", first.String())
	req.Equal(first.String(), second.String())
}
