package handlers

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"net/netip"
	"os"
	"strconv"
	"strings"
)

const (
	defaultLogLines = 200
	maxLogLines     = 5000
	logChunkSize    = 64 << 10
)

// LogsHandler serves the tail of the rotated backend log to LAN clients.
type LogsHandler struct {
	logFile string
}

func NewLogsHandler(logFile string) *LogsHandler {
	return &LogsHandler{logFile: logFile}
}

func (h *LogsHandler) Tail(w http.ResponseWriter, r *http.Request) {
	if !isLocalRemote(r.RemoteAddr) {
		writeError(w, http.StatusForbidden, "logs are only available on the local network")
		return
	}
	if h.logFile == "" {
		writeError(w, http.StatusNotFound, "no log file configured")
		return
	}

	n := defaultLogLines
	if raw := r.URL.Query().Get("lines"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = min(parsed, maxLogLines)
		}
	}

	f, err := os.Open(h.logFile)
	if err != nil {
		writeError(w, http.StatusNotFound, "log file unavailable")
		return
	}
	defer f.Close()

	lines, err := tailLines(f, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read log")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, strings.Join(lines, "\n"))
}

// tailLines returns the last n non-empty lines of r, reading backwards in
// fixed chunks so large logs are never loaded whole.
func tailLines(r io.ReaderAt, n int) ([]string, error) {
	size, err := readerSize(r)
	if err != nil || size == 0 {
		return nil, err
	}

	var buf []byte
	pos := size
	for pos > 0 && bytes.Count(buf, []byte("\n")) <= n {
		step := min(int64(logChunkSize), pos)
		pos -= step
		chunk := make([]byte, step)
		if _, err := r.ReadAt(chunk, pos); err != nil && err != io.EOF {
			return nil, err
		}
		buf = append(chunk, buf...)
	}

	var lines []string
	for _, line := range strings.Split(string(buf), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	// The first line may be partial when we stopped mid-file.
	if pos > 0 && len(lines) > 0 {
		lines = lines[1:]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

func readerSize(r io.ReaderAt) (int64, error) {
	switch v := r.(type) {
	case *os.File:
		st, err := v.Stat()
		if err != nil {
			return 0, err
		}
		return st.Size(), nil
	case interface{ Size() int64 }:
		return v.Size(), nil
	default:
		return 0, nil
	}
}

func isLocalRemote(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	return addr.IsLoopback() || addr.IsPrivate()
}
