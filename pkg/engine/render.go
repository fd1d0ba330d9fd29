package engine

import (
	"net"
	"strings"

	"github.com/go-go-golems/bridgelaunch/pkg/launch"
	"github.com/pkg/errors"
)

const defaultHealthHost = "127.0.0.1"

type Options struct {
	// Launcher is the ros2 executable used to start nodes.
	Launcher  string
	Cwd       string
	Env       map[string]string
	WaitReady bool
	// ReadyTimeoutMs is copied onto generated health checks.
	ReadyTimeoutMs int64
}

// Render evaluates every process condition against the plan's resolved
// declarations and turns the active processes into runnable services.
func Render(plan *launch.LaunchPlan, opts Options) (LaunchPlan, error) {
	if plan == nil {
		return LaunchPlan{}, errors.New("nil launch plan")
	}
	launcher := opts.Launcher
	if launcher == "" {
		launcher = "ros2"
	}

	var out LaunchPlan
	seen := map[string]struct{}{}
	for _, p := range plan.Processes() {
		active, err := p.Condition.Evaluate(plan.Value)
		if err != nil {
			return LaunchPlan{}, errors.Wrapf(err, "evaluate condition for %s", p.Identity.Name)
		}
		if !active {
			continue
		}

		svc := ServiceSpec{
			Name:    ServiceName(p.Identity),
			Cwd:     opts.Cwd,
			Command: Command(launcher, p),
			Env:     opts.Env,
		}
		if _, ok := seen[svc.Name]; ok {
			return LaunchPlan{}, errors.Errorf("service name collision: %s", svc.Name)
		}
		seen[svc.Name] = struct{}{}

		if opts.WaitReady && p.Identity.Package == launch.BridgePackage {
			addr, err := bridgeAddress(p)
			if err != nil {
				return LaunchPlan{}, err
			}
			svc.Health = &HealthCheck{Type: "tcp", Address: addr, TimeoutMs: opts.ReadyTimeoutMs}
		}
		out.Services = append(out.Services, svc)
	}
	if out.Services == nil {
		out.Services = []ServiceSpec{}
	}
	return out, nil
}

// ServiceName is the fully qualified node name, used to key supervised
// services and their log files.
func ServiceName(id launch.Identity) string {
	ns := strings.Trim(id.Namespace, "/")
	if ns == "" {
		return id.Name
	}
	return strings.ReplaceAll(ns, "/", "_") + "_" + id.Name
}

// Command builds the `ros2 run` invocation for one process spec.
func Command(launcher string, p launch.ProcessSpec) []string {
	cmd := []string{
		launcher, "run", p.Identity.Package, p.Identity.Executable,
		"--ros-args",
		"-r", "__node:=" + p.Identity.Name,
	}
	if ns := p.Identity.Namespace; ns != "" {
		if !strings.HasPrefix(ns, "/") {
			ns = "/" + ns
		}
		cmd = append(cmd, "-r", "__ns:="+ns)
	}
	for _, prm := range p.Params {
		cmd = append(cmd, "-p", prm.Key+":="+paramValue(prm.Value))
	}
	return cmd
}

// paramValue keeps empty values as empty strings; a bare `key:=` would be
// read as null by the ros2 argument parser.
func paramValue(v string) string {
	if v == "" {
		return "''"
	}
	return v
}

func bridgeAddress(p launch.ProcessSpec) (string, error) {
	port, ok := p.Param("port")
	if !ok || port.Value == "" {
		return "", errors.Errorf("%s: missing port parameter", p.Identity.Name)
	}
	host := defaultHealthHost
	if addr, ok := p.Param("address"); ok && addr.Value != "" && addr.Value != "0.0.0.0" {
		host = addr.Value
	}
	return net.JoinHostPort(host, port.Value), nil
}
