package exec

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/client"

	"pairpad/internal/models"
)

// NoOutputPlaceholder stands in for a successful run that printed nothing, so
// clients never render a blank result panel.
const NoOutputPlaceholder = "No output"

type Limits struct {
	WallTime time.Duration
	MemoryB  int64
	NanoCPUs int64
}

// Runner executes one submission at a time in a throwaway container. Each run
// is isolated from every other; only the docker client is reused across calls.
type Runner struct {
	limits Limits

	mu  sync.Mutex
	cli *client.Client
}

func NewRunner(limits Limits) *Runner {
	return &Runner{limits: limits}
}

type langSpec struct {
	image    string
	fileName string
	cmd      []string
}

func specFor(lang models.Language) (langSpec, error) {
	switch lang {
	case models.LangJavaScript:
		return langSpec{
			image:    "node:20-alpine",
			fileName: "main.js",
			cmd:      []string{"node", "main.js"},
		}, nil
	case models.LangPython:
		return langSpec{
			image:    "python:3.11-slim",
			fileName: "main.py",
			cmd:      []string{"python3", "main.py"},
		}, nil
	default:
		return langSpec{}, fmt.Errorf("execution is not supported for language %q", lang)
	}
}

func (r *Runner) dockerClient() (*client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cli != nil {
		return r.cli, nil
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	r.cli = cli
	return cli, nil
}

// Run executes code and folds every failure mode into the result; it never
// returns an error to the caller, so a broken run cannot take the hub down.
func (r *Runner) Run(ctx context.Context, lang models.Language, code string) models.RunResult {
	spec, err := specFor(lang)
	if err != nil {
		return models.RunResult{Output: err.Error()}
	}

	cli, err := r.dockerClient()
	if err != nil {
		return models.RunResult{Output: "sandbox unavailable: " + err.Error()}
	}

	sbx := newSandbox(cli, spec.image, r.limits)
	var stdout, stderr strings.Builder
	exit, timedOut, runErr := sbx.run(ctx, spec.fileName, []byte(code), spec.cmd,
		func(p []byte) { stdout.Write(p) },
		func(p []byte) { stderr.Write(p) },
	)
	return resultFrom(stdout.String(), stderr.String(), exit, timedOut, runErr)
}

func resultFrom(stdout, stderr string, exit int, timedOut bool, err error) models.RunResult {
	switch {
	case err != nil:
		return models.RunResult{Output: "sandbox error: " + err.Error()}
	case timedOut:
		return models.RunResult{Output: "execution timed out"}
	case exit != 0:
		out := stderr
		if strings.TrimSpace(out) == "" {
			out = stdout
		}
		if strings.TrimSpace(out) == "" {
			out = fmt.Sprintf("exited with status %d", exit)
		}
		return models.RunResult{Output: out}
	default:
		out := stdout
		if out == "" {
			out = NoOutputPlaceholder
		}
		return models.RunResult{Succeeded: true, Output: out}
	}
}
