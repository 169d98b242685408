// Package shell runs external stylesheet preprocessors.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// DefaultCommands returns the preprocessor command lines used when the
// project file does not configure any. Both read the source from stdin.
func DefaultCommands() map[domain.Source][]string {
	return map[domain.Source][]string{
		domain.SourceLESS: {"lessc", "-"},
		domain.SourceSCSS: {"sass", "--stdin"},
	}
}

// Compiler implements ports.Compiler by piping sources through an external process.
//
// The source is written to stdin and the compiled CSS is read from stdout.
// Stderr is forwarded line by line to the logger and to the telemetry vertex
// found in the context.
type Compiler struct {
	logger   ports.Logger
	commands map[domain.Source][]string
	env      []string
	root     string
}

// NewCompiler creates a new Compiler. A nil commands map selects DefaultCommands.
func NewCompiler(logger ports.Logger, commands map[domain.Source][]string) *Compiler {
	if commands == nil {
		commands = DefaultCommands()
	}
	return &Compiler{
		logger:   logger,
		commands: commands,
	}
}

// WithEnv returns a copy of c that adds env ("KEY=VALUE") to the process environment.
func (c *Compiler) WithEnv(env ...string) *Compiler {
	cp := *c
	cp.env = append(slices.Clone(c.env), env...)
	return &cp
}

// WithRoot returns a copy of c that resolves relative command paths such as
// ./node_modules/.bin/lessc against root instead of the working directory.
func (c *Compiler) WithRoot(root string) *Compiler {
	cp := *c
	cp.root = root
	return &cp
}

// Compile implements ports.Compiler.
func (c *Compiler) Compile(ctx context.Context, req domain.CompileRequest) ([]byte, error) {
	argv := c.commands[req.Source]
	if len(argv) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrCompilerNotConfigured, "compile"), "source", req.Source.String())
	}

	name := argv[0]
	args, stdin := applyPresets(req, argv[1:])

	cmdEnv := resolveEnvironment(os.Environ(), c.env)

	executable, err := c.resolveCommand(name, cmdEnv)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrCompilerNotFound, err), "command", name)
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // command comes from the project file
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	if req.Path != "" {
		cmd.Dir = filepath.Dir(req.Path)
	}
	cmd.Env = cmdEnv
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrLog := &logWriter{logger: c.logger}
	var stderr io.Writer = stderrLog
	if v, ok := ports.VertexFromContext(ctx); ok {
		stderr = io.MultiWriter(stderrLog, v.Stderr())
	}
	cmd.Stderr = stderr

	err = cmd.Run()
	_ = stderrLog.Close()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
			return nil, zerr.With(errors.Join(domain.ErrCompilerNotFound, err), "command", name)
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(errors.Join(domain.ErrCompileFailed, err), "exit_code", exitCode)
		return nil, zerr.With(wrapped, "path", req.Path)
	}

	return stdout.Bytes(), nil
}

// applyPresets forwards preprocessor variables. LESS receives them as
// --modify-var flags, SCSS as variable declarations ahead of the source.
func applyPresets(req domain.CompileRequest, args []string) ([]string, []byte) {
	if len(req.Presets) == 0 {
		return args, req.Content
	}

	keys := slices.Sorted(maps.Keys(req.Presets))

	switch req.Source {
	case domain.SourceLESS:
		flags := make([]string, 0, len(keys)+len(args))
		for _, k := range keys {
			flags = append(flags, fmt.Sprintf("--modify-var=%s=%s", k, req.Presets[k]))
		}
		return append(flags, args...), req.Content
	case domain.SourceSCSS:
		var prelude bytes.Buffer
		for _, k := range keys {
			fmt.Fprintf(&prelude, "$%s: %s;\n", k, req.Presets[k])
		}
		prelude.Write(req.Content)
		return args, prelude.Bytes()
	case domain.SourcePlain:
	}
	return args, req.Content
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" || w.logger == nil {
		return
	}
	w.logger.Warn(msg)
}

// allowListedEnvVars are the system environment variables inherited by the
// preprocessor. Node based compilers need NODE_PATH to find their modules.
var allowListedEnvVars = map[string]struct{}{
	"HOME":      {},
	"TERM":      {},
	"USER":      {},
	"PATH":      {},
	"NODE_PATH": {},
}

// resolveEnvironment merges the allow-listed system environment with extra entries.
// Extra PATH entries are prepended to the system PATH.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range extra {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// resolveCommand returns the executable for name. Names containing a path
// separator are taken as paths, relative ones below the project root.
// Bare names are searched in the PATH of env.
func (c *Compiler) resolveCommand(name string, env []string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if !strings.ContainsRune(name, '/') && !strings.ContainsRune(name, filepath.Separator) {
		return lookPath(name, env)
	}

	path, err := filepath.Abs(filepath.Join(c.root, name))
	if err != nil {
		return "", err
	}
	if err := findExecutable(path); err != nil {
		return "", err
	}
	return path, nil
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
