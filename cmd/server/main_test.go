package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestMainLifecycle(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("CALCLOG_DB_PATH", "")
	t.Setenv("CALCLOG_LOG_LEVEL", "error")

	origArgs := os.Args
	origCommandLine := flag.CommandLine
	defer func() {
		os.Args = origArgs
		flag.CommandLine = origCommandLine
	}()

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(io.Discard)
	os.Args = []string{
		"server",
		"--data-dir", tmp,
		"--port", "0",
		"--host", "127.0.0.1",
		"--local-currency", "eur",
	}

	done := make(chan struct{})
	go func() {
		time.Sleep(150 * time.Millisecond)
		if p, err := os.FindProcess(os.Getpid()); err == nil {
			_ = p.Signal(syscall.SIGTERM)
		}
	}()

	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
		// ok
	case <-time.After(3 * time.Second):
		t.Fatalf("main did not exit")
	}

	if _, err := os.Stat(filepath.Join(tmp, "calclog.db")); err != nil {
		t.Fatalf("expected journal database in data dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "logs")); err != nil {
		t.Fatalf("expected log dir in data dir: %v", err)
	}
}
