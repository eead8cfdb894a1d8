package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// CycleTrace is the per-cycle snapshot handed to a TraceSink after a
// step's commit.
type CycleTrace struct {
	Cycle uint64
	PC    uint32
	IF    string
	ID    string
	EX    string
	MEM   string
}

// TraceSink receives one CycleTrace per step. A pipeline built by
// NewPipeline without WithTraceSink uses noopTraceSink, so the hot step
// path never branches on whether tracing is enabled.
type TraceSink interface {
	Trace(CycleTrace)
}

type noopTraceSink struct{}

func (noopTraceSink) Trace(CycleTrace) {}

// LogrusTraceSink formats each cycle as a single log line, matching the
// advisory format from the external interface contract:
//
//	Cyc <n> | PC=0x<hex> | IF: <mnem-or-dash> | ID: <op-or-dash> | EX: <op-or-dash> | MEM: <op-or-dash>
type LogrusTraceSink struct {
	Logger *logrus.Logger
}

// NewLogrusTraceSink constructs a sink writing through the given logger.
// A nil logger falls back to logrus.StandardLogger().
func NewLogrusTraceSink(logger *logrus.Logger) *LogrusTraceSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusTraceSink{Logger: logger}
}

// Trace logs one formatted line per cycle at Info level.
func (s *LogrusTraceSink) Trace(t CycleTrace) {
	s.Logger.Info(formatTraceLine(t))
}

func formatTraceLine(t CycleTrace) string {
	return fmt.Sprintf("Cyc %d | PC=0x%08x | IF: %s | ID: %s | EX: %s | MEM: %s",
		t.Cycle, t.PC, dashIfEmpty(t.IF), dashIfEmpty(t.ID), dashIfEmpty(t.EX), dashIfEmpty(t.MEM))
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
