package log

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestFormatterPattern(t *testing.T) {
	f := &formatter{
		pattern: "%time [%level] %field %msg%n",
		time:    "2006-01-02 15:04:05",
	}

	l := logrus.New()
	entry := logrus.NewEntry(l).WithFields(logrus.Fields{"b": 2, "a": 1})
	entry.Time = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entry.Level = logrus.InfoLevel
	entry.Message = "hello"

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	got := string(out)
	want := "2026-01-02 03:04:05 [info] a=1 b=2 hello\n"
	if got != want {
		t.Errorf("Formatted line mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestMultiWriterFanout(t *testing.T) {
	var a, b bytes.Buffer
	w := NewMultiWriter().Add(&a).Add(&b)

	n, err := w.Write([]byte("line\n"))
	if err != nil || n != 5 {
		t.Fatalf("Write returned (%d, %v)", n, err)
	}
	if a.String() != "line\n" || b.String() != "line\n" {
		t.Errorf("Fanout mismatch: %q / %q", a.String(), b.String())
	}
}

func TestInitOnce(t *testing.T) {
	Init(DefaultConfig())
	l := GetLogger()
	if l == nil {
		t.Fatal("Expected global logger after Init")
	}
	if l.IsDebugEnabled() {
		t.Error("Default config must not enable debug")
	}
	if !strings.Contains(DefaultConfig().Pattern, "%msg") {
		t.Error("Default pattern must include %msg")
	}
}
