package supervise

import (
	"context"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-go-golems/bridgelaunch/pkg/engine"
	"github.com/go-go-golems/bridgelaunch/pkg/state"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Root            string
	ShutdownTimeout time.Duration
	ReadyTimeout    time.Duration
}

type Supervisor struct {
	opts Options
}

func New(opts Options) *Supervisor {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 3 * time.Second
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 30 * time.Second
	}
	return &Supervisor{opts: opts}
}

// Start launches every service of the plan and waits for the ones that carry
// a health check. If anything fails, everything already started is stopped.
func (s *Supervisor) Start(ctx context.Context, plan engine.LaunchPlan) (*state.State, error) {
	if s.opts.Root == "" {
		return nil, errors.New("missing Root")
	}
	if err := os.MkdirAll(state.LogsDir(s.opts.Root), 0o755); err != nil {
		return nil, errors.Wrap(err, "mkdir logs dir")
	}

	st := &state.State{
		Root:      s.opts.Root,
		CreatedAt: time.Now(),
		Services:  []state.ServiceRecord{},
	}

	for _, svc := range plan.Services {
		rec, err := s.startService(ctx, svc)
		if err != nil {
			_ = s.Stop(context.Background(), st)
			return nil, err
		}
		st.Services = append(st.Services, rec)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, svc := range plan.Services {
		if svc.Health == nil {
			continue
		}
		eg.Go(func() error {
			timeout := s.opts.ReadyTimeout
			if svc.Health.TimeoutMs > 0 {
				timeout = time.Duration(svc.Health.TimeoutMs) * time.Millisecond
			}
			readyCtx, cancel := context.WithTimeout(egCtx, timeout)
			defer cancel()
			if err := waitReady(readyCtx, svc); err != nil {
				return errors.Wrapf(err, "service %q not ready", svc.Name)
			}
			log.Info().Str("service", svc.Name).Str("address", svc.Health.Address).Msg("service ready")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		_ = s.Stop(context.Background(), st)
		return nil, err
	}

	return st, nil
}

func (s *Supervisor) Stop(ctx context.Context, st *state.State) error {
	if st == nil {
		return nil
	}
	var lastErr error
	for _, svc := range st.Services {
		if svc.PID <= 0 {
			continue
		}
		if err := terminatePIDGroup(ctx, svc.PID, s.opts.ShutdownTimeout); err != nil {
			log.Warn().Err(err).Str("service", svc.Name).Int("pid", svc.PID).Msg("stop failed")
			lastErr = err
			continue
		}
		log.Info().Str("service", svc.Name).Int("pid", svc.PID).Msg("service stopped")
	}
	return lastErr
}

func (s *Supervisor) startService(ctx context.Context, svc engine.ServiceSpec) (state.ServiceRecord, error) {
	if svc.Name == "" {
		return state.ServiceRecord{}, errors.New("service name is required")
	}
	if len(svc.Command) == 0 {
		return state.ServiceRecord{}, errors.Errorf("service %q missing command", svc.Name)
	}

	cwd := s.opts.Root
	if svc.Cwd != "" {
		if filepath.IsAbs(svc.Cwd) {
			cwd = svc.Cwd
		} else {
			cwd = filepath.Join(s.opts.Root, svc.Cwd)
		}
	}

	ts := time.Now().Format("20060102-150405")
	stdoutPath := filepath.Join(state.LogsDir(s.opts.Root), svc.Name+"-"+ts+".stdout.log")
	stderrPath := filepath.Join(state.LogsDir(s.opts.Root), svc.Name+"-"+ts+".stderr.log")

	stdoutFile, err := os.OpenFile(stdoutPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return state.ServiceRecord{}, errors.Wrap(err, "open stdout log")
	}
	defer func() { _ = stdoutFile.Close() }()

	stderrFile, err := os.OpenFile(stderrPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return state.ServiceRecord{}, errors.Wrap(err, "open stderr log")
	}
	defer func() { _ = stderrFile.Close() }()

	// The child must outlive this process, so it is not bound to ctx.
	// #nosec G204 -- command is rendered from the declared launch plan.
	cmd := exec.Command(svc.Command[0], svc.Command[1:]...)
	cmd.Dir = cwd
	cmd.Env = mergeEnv(os.Environ(), svc.Env)
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	select {
	case <-ctx.Done():
		return state.ServiceRecord{}, errors.Wrap(ctx.Err(), "start service")
	default:
	}
	if err := cmd.Start(); err != nil {
		return state.ServiceRecord{}, errors.Wrapf(err, "start service %q", svc.Name)
	}

	pid := cmd.Process.Pid
	log.Info().Str("service", svc.Name).Int("pid", pid).Msg("service started")
	go func() { _ = cmd.Wait() }()

	rec := state.ServiceRecord{
		Name:      svc.Name,
		PID:       pid,
		Command:   state.SanitizeCommand(svc.Command),
		Cwd:       cwd,
		Env:       state.Sanitize(svc.Env),
		StdoutLog: stdoutPath,
		StderrLog: stderrPath,
		StartedAt: time.Now(),
	}
	if svc.Health != nil {
		rec.HealthAddress = svc.Health.Address
	}
	return rec, nil
}

func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	out := append([]string{}, base...)
	for k, v := range extra {
		out = append(out, k+"="+v)
	}
	return out
}

func waitReady(ctx context.Context, svc engine.ServiceSpec) error {
	h := svc.Health
	if h == nil {
		return nil
	}
	switch strings.ToLower(h.Type) {
	case "tcp":
		if h.Address == "" {
			return errors.Errorf("service %q health tcp missing address", svc.Name)
		}
		return waitTCP(ctx, h.Address)
	default:
		return errors.Errorf("service %q unsupported health type %q", svc.Name, h.Type)
	}
}

func waitTCP(ctx context.Context, address string) error {
	t := time.NewTicker(200 * time.Millisecond)
	defer t.Stop()

	for {
		d := net.Dialer{Timeout: 200 * time.Millisecond}
		conn, err := d.DialContext(ctx, "tcp", address)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "tcp health timeout")
		case <-t.C:
		}
	}
}

func terminatePIDGroup(ctx context.Context, pid int, timeout time.Duration) error {
	if pid <= 0 {
		return nil
	}
	pgid, err := syscall.Getpgid(pid)
	if err == nil {
		_ = syscall.Kill(-pgid, syscall.SIGTERM)
	} else {
		_ = syscall.Kill(pid, syscall.SIGTERM)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	deadline := time.Now().Add(timeout)
	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()

	for state.ProcessAlive(pid) && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if !state.ProcessAlive(pid) {
		return nil
	}

	if err == nil {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
	} else {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}

	killDeadline := time.Now().Add(2 * time.Second)
	for state.ProcessAlive(pid) && time.Now().Before(killDeadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	if state.ProcessAlive(pid) {
		return errors.New("failed to stop service")
	}
	return nil
}
