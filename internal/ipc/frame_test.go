package ipc

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestReadDelimitedFrameWithinLimit(t *testing.T) {
	payload := `{"command":"status"}` + "\n"
	reader := bufio.NewReaderSize(strings.NewReader(payload), maxRequestBytes+1)

	raw, err := readDelimitedFrame(reader, maxRequestBytes)
	if err != nil {
		t.Fatalf("readDelimitedFrame() error = %v", err)
	}
	if string(raw) != payload {
		t.Fatalf("readDelimitedFrame() = %q, want %q", string(raw), payload)
	}
}

func TestReadDelimitedFrameRejectsOversizedFrame(t *testing.T) {
	oversized := strings.Repeat("a", maxRequestBytes+1) + "\n"
	reader := bufio.NewReaderSize(strings.NewReader(oversized), maxRequestBytes+1)

	_, err := readDelimitedFrame(reader, maxRequestBytes)
	if err == nil {
		t.Fatalf("readDelimitedFrame() expected size error")
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("readDelimitedFrame() error = %q, want 'exceeds' message", err.Error())
	}
}

func TestReadDelimitedFrameAcceptsEOFWithoutDelimiter(t *testing.T) {
	payload := `{"exit_code":0}`
	reader := bufio.NewReaderSize(strings.NewReader(payload), maxResponseBytes+1)

	raw, err := readDelimitedFrame(reader, maxResponseBytes)
	if err != nil {
		t.Fatalf("readDelimitedFrame() error = %v", err)
	}
	if string(raw) != payload {
		t.Fatalf("readDelimitedFrame() = %q, want %q", string(raw), payload)
	}
}

func TestReadDelimitedFrameReturnsEOFOnEmptyInput(t *testing.T) {
	reader := bufio.NewReaderSize(strings.NewReader(""), maxResponseBytes+1)

	_, err := readDelimitedFrame(reader, maxResponseBytes)
	if err != io.EOF {
		t.Fatalf("readDelimitedFrame() error = %v, want io.EOF", err)
	}
}
