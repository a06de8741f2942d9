package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shisp/internal/prof"
	"shisp/internal/trace"
)

// session держит всё, что нужно закрыть после команды.
type session struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	profile   *prof.Session
	root      *trace.Span
	closed    bool
}

var current *session

// startRun installs tracing and profiling for the command being executed.
func startRun(cmd *cobra.Command) error {
	s := &session{tracer: trace.Nop}
	current = s
	if err := setupTracing(cmd, s); err != nil {
		return err
	}
	if err := setupProfiling(cmd, s); err != nil {
		return err
	}
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "shisp "+cmd.Name())
	s.root = span
	cmd.SetContext(ctx)
	return nil
}

// finishRun closes the active session once; later calls are no-ops.
func finishRun(cmd *cobra.Command) {
	s := current
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if s.root != nil {
		s.root.End("")
	}
	if s.heartbeat != nil {
		s.heartbeat.Stop()
	}
	if err := s.profile.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
}

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context.
func setupTracing(cmd *cobra.Command, s *session) error {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" && !root.PersistentFlags().Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	if heartbeatInterval > 0 {
		s.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}
	return nil
}

func setupProfiling(cmd *cobra.Command, s *session) error {
	root := cmd.Root()

	var cfg prof.Config
	var err error
	if cfg.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil
	}
	s.profile, err = prof.Start(cfg)
	return err
}

// dumpTrace prints the ring buffer, if any, after a failed run.
func dumpTrace(reason string) {
	if current == nil {
		return
	}
	ring := trace.RingOf(current.tracer)
	if ring == nil {
		return
	}
	events := ring.Snapshot()
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "--- trace (%s, last %d events) ---\n", reason, len(events))
	if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
	fmt.Fprintln(os.Stderr, "---")
}

// dumpTraceOnPanic dumps the ring and re-panics.
func dumpTraceOnPanic() {
	if r := recover(); r != nil {
		dumpTrace(fmt.Sprint("panic: ", r))
		panic(r)
	}
}
