// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// TABFEAT_LOG env variable. Output goes to stderr, or to a rotating file when
// TABFEAT_LOG_FILE is set.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("TABFEAT_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(NewHandler(writer(os.Getenv("TABFEAT_LOG_FILE"))))
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.ErrorLevel
	}
	log.SetLevel(lvl)
}

func writer(filename string) io.Writer {
	if filename == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    32, // megabytes
		MaxBackups: 8,
		MaxAge:     15, // days
		Compress:   true,
	}
}

// CustomHandler formats log messages as "YYYY-MM-DD HH:MM:SS L message".
type CustomHandler struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func NewHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{out: w, now: time.Now}
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timestamp := h.now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())
	_, err := fmt.Fprintf(h.out, "%s %.1s %s\n", timestamp, level, e.Message)
	return err
}
