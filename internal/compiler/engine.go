package compiler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds all engine runs of one compilation.
const DefaultTimeout = 120 * time.Second

const jobName = "pdfnup"

// EngineConfig selects and tunes the LaTeX engine.
type EngineConfig struct {
	Command string
	Runs    int
	Timeout time.Duration
	// WorkRoot is where work directories are created, os.TempDir() if empty.
	WorkRoot string
}

// Engine runs a LaTeX engine such as pdflatex on generated documents.
type Engine struct {
	cfg EngineConfig
}

// Job is one document to compile.
type Job struct {
	Source     string
	OutputPath string
	Keep       bool
}

// Result describes a successful compilation.
type Result struct {
	OutputPath string
	WorkDir    string
	Runs       int
	Duration   time.Duration
}

// EngineError reports an engine run that exited unsuccessfully.
type EngineError struct {
	Engine   string
	ExitCode int
	Run      int
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s exited with status %d on run %d", e.Engine, e.ExitCode, e.Run)
}

// New returns an Engine, filling defaults for unset fields.
func New(cfg EngineConfig) *Engine {
	if cfg.Command == "" {
		cfg.Command = "pdflatex"
	}
	if cfg.Runs <= 0 {
		cfg.Runs = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.WorkRoot == "" {
		cfg.WorkRoot = os.TempDir()
	}
	return &Engine{cfg: cfg}
}

// Name returns the engine command.
func (e *Engine) Name() string { return e.cfg.Command }

// Check verifies the engine is available on PATH.
func (e *Engine) Check() error {
	path, err := exec.LookPath(e.cfg.Command)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", e.cfg.Command, err)
	}
	log.Debug().Str("engine", path).Msg("LaTeX engine found")
	return nil
}

// Compile typesets job.Source and moves the PDF to job.OutputPath.
// Engine output is copied line by line to diag while the engine runs.
// The engine runs in the caller's working directory so that relative
// paths inside the document resolve as the user typed them.
func (e *Engine) Compile(ctx context.Context, job Job, diag io.Writer) (Result, error) {
	start := time.Now()
	if diag == nil {
		diag = io.Discard
	}

	workDir := filepath.Join(e.cfg.WorkRoot, fmt.Sprintf("pdfnup_%s", uuid.New().String()))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create work directory: %w", err)
	}
	if job.Keep {
		log.Info().Str("dir", workDir).Msg("keeping LaTeX work directory")
	} else {
		defer os.RemoveAll(workDir)
	}

	texPath := filepath.Join(workDir, jobName+".tex")
	if err := os.WriteFile(texPath, []byte(job.Source), 0o644); err != nil {
		return Result{}, fmt.Errorf("write LaTeX source: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	for run := 1; run <= e.cfg.Runs; run++ {
		if err := e.run(ctx, run, workDir, texPath, diag); err != nil {
			return Result{}, err
		}
	}

	pdfPath := filepath.Join(workDir, jobName+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return Result{}, fmt.Errorf("%s produced no PDF: %w", e.cfg.Command, err)
	}
	if dir := filepath.Dir(job.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := moveFile(pdfPath, job.OutputPath); err != nil {
		return Result{}, fmt.Errorf("move PDF to %s: %w", job.OutputPath, err)
	}

	res := Result{
		OutputPath: job.OutputPath,
		WorkDir:    workDir,
		Runs:       e.cfg.Runs,
		Duration:   time.Since(start),
	}
	log.Info().Str("output", res.OutputPath).Int("runs", res.Runs).Dur("duration", res.Duration).Msg("compilation successful")
	return res, nil
}

func (e *Engine) run(ctx context.Context, run int, workDir, texPath string, diag io.Writer) error {
	cmd := exec.CommandContext(ctx, e.cfg.Command,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", workDir,
		texPath,
	)
	cmd.WaitDelay = 2 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("engine stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("engine stderr: %w", err)
	}

	log.Debug().Str("cmd", strings.Join(cmd.Args, " ")).Int("run", run).Msg("LaTeX command")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.cfg.Command, err)
	}

	// Both pipes are drained before Wait, which closes them.
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)
	go streamLines(&wg, &mu, stdout, diag)
	go streamLines(&wg, &mu, stderr, diag)
	wg.Wait()

	err = cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out after %v: %w", e.cfg.Command, e.cfg.Timeout, ctxErr)
		}
		return fmt.Errorf("%s interrupted: %w", e.cfg.Command, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &EngineError{Engine: e.cfg.Command, ExitCode: exitErr.ExitCode(), Run: run}
		}
		return fmt.Errorf("run %s: %w", e.cfg.Command, err)
	}
	return nil
}

func streamLines(wg *sync.WaitGroup, mu *sync.Mutex, r io.Reader, w io.Writer) {
	defer wg.Done()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		mu.Lock()
		fmt.Fprintln(w, sc.Text())
		mu.Unlock()
	}
	// Keep reading after a scanner error so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}

// moveFile renames src to dst, copying when they live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(src)
}
