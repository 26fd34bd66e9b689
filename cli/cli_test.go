package cli

import (
	"bytes"
	"strings"
	"testing"

	"lsmkv/state"
	"lsmkv/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenWithOptions(state.DefaultOptions(t.TempDir()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestRunPutGetScanQuit(t *testing.T) {
	s := newTestStore(t)

	in := strings.NewReader("put hello world\nget hello\nscan\nquit\n")
	var out bytes.Buffer

	if err := Run(s, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "hello=world") {
		t.Fatalf("output = %q, want it to contain hello=world", output)
	}
}

func TestRunFillAndScan(t *testing.T) {
	s := newTestStore(t)

	in := strings.NewReader("fill 1 3\nscan\nquit\n")
	var out bytes.Buffer

	if err := Run(s, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	output := out.String()
	for _, want := range []string{"1=value@1", "2=value@2", "3=value@3"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output = %q, want it to contain %q", output, want)
		}
	}
}
