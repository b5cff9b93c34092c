package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/commitintent/internal/errors"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/models"
)

const (
	// CommandTimeout bounds every git invocation.
	CommandTimeout = 10 * time.Second

	defaultBinary = "git"
	// waitDelay bounds how long Wait keeps draining pipes after the process is killed.
	waitDelay = 2 * time.Second
)

type GitService struct {
	binary  string
	timeout time.Duration
	maxDiff int
}

type Option func(*GitService)

// WithBinary overrides the executable used for every command.
func WithBinary(binary string) Option {
	return func(s *GitService) { s.binary = binary }
}

// WithTimeout overrides CommandTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *GitService) { s.timeout = timeout }
}

// WithMaxDiffSize overrides models.MaxDiffSize.
func WithMaxDiffSize(size int) Option {
	return func(s *GitService) { s.maxDiff = size }
}

func NewGitService(opts ...Option) *GitService {
	s := &GitService{
		binary:  defaultBinary,
		timeout: CommandTimeout,
		maxDiff: models.MaxDiffSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsRepository reports whether path lives inside a git work tree. Every failure,
// including "not a git repository", yields false.
func (s *GitService) IsRepository(ctx context.Context, path string) bool {
	out, err := s.run(ctx, filepath.Dir(path), "rev-parse", "--git-dir")
	if err != nil {
		logger.Debug(ctx, "not a git repository", "path", path, "error", err)
		return false
	}
	return strings.TrimSpace(out) != ""
}

// ResolveRepoRoot returns the top-level directory of the repository containing
// path, using the host's path separator. An empty string means no root was found.
func (s *GitService) ResolveRepoRoot(ctx context.Context, path string) (string, error) {
	out, err := s.run(ctx, filepath.Dir(path), "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %w", domainErrors.ErrGetRepoRoot, err)
	}

	root := strings.TrimSpace(out)
	if root == "" {
		return "", nil
	}
	return filepath.FromSlash(root), nil
}

// GetDiff returns `git diff HEAD` for a single file. An empty string with a nil
// error means there is nothing to send: no repository root, untracked file, no
// changes, or a diff larger than the configured maximum. Timeouts and a failing
// diff command are returned as errors.
func (s *GitService) GetDiff(ctx context.Context, path string) (string, error) {
	log := logger.FromContext(ctx)

	root, err := s.ResolveRepoRoot(ctx, path)
	if err != nil {
		if errors.Is(err, domainErrors.ErrGitTimeout) {
			return "", err
		}
		log.Debug("could not determine repo root", "path", path, "error", err)
		return "", nil
	}
	if root == "" {
		log.Debug("empty repo root", "path", path)
		return "", nil
	}

	rel, err := RelativePath(root, path)
	if err != nil {
		log.Debug("error calculating relative path", "path", path, "repo_root", root, "error", err)
		return "", nil
	}

	tracked, err := s.isTracked(ctx, root, rel)
	if err != nil {
		return "", err
	}
	if !tracked {
		log.Debug("file not tracked", "rel_path", rel)
		return "", nil
	}

	diff, err := s.run(ctx, root, "diff", "HEAD", "--", rel)
	if err != nil {
		if errors.Is(err, domainErrors.ErrGitTimeout) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domainErrors.ErrGetDiff, err)
	}

	log.Debug("diff extracted", "rel_path", rel, "size", len(diff))
	if len(diff) > s.maxDiff {
		log.Info("diff too large, skipping", "rel_path", rel, "size", len(diff), "max", s.maxDiff)
		return "", nil
	}

	return diff, nil
}

// isTracked runs `ls-files --error-unmatch`. git lists a tracked path on stdout;
// an untracked one produces no listing, so an empty stdout counts as untracked
// even when the exit code is one the runner accepts.
func (s *GitService) isTracked(ctx context.Context, root, rel string) (bool, error) {
	out, err := s.run(ctx, root, "ls-files", "--error-unmatch", "--", rel)
	if err != nil {
		if errors.Is(err, domainErrors.ErrGitTimeout) {
			return false, err
		}
		return false, nil
	}
	return strings.TrimSpace(out) != "", nil
}

// RelativePath expresses file relative to root with forward slashes, whatever
// the host OS. The root prefix is stripped case-insensitively; when the file is
// not under root the generic filepath.Rel result is used.
func RelativePath(root, file string) (string, error) {
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	// git reports the physical root; the editor may hand us a symlinked path
	absFile = resolveSymlinks(absFile)
	absRoot = resolveSymlinks(absRoot)

	prefix := absRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	var rel string
	if len(absFile) > len(prefix) && strings.EqualFold(absFile[:len(prefix)], prefix) {
		rel = absFile[len(prefix):]
	} else {
		rel, err = filepath.Rel(absRoot, absFile)
		if err != nil {
			return "", err
		}
	}

	return strings.ReplaceAll(rel, `\`, "/"), nil
}

// resolveSymlinks resolves the longest existing prefix of path.
func resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dir, base := filepath.Split(path)
	dir = filepath.Clean(dir)
	if dir == path || base == "" {
		return path
	}
	return filepath.Join(resolveSymlinks(dir), base)
}

// run executes the git binary in dir and returns its stdout. Exit codes 0 and 1
// are both success (1 is "differences found / no match" for several porcelain
// commands). Any other exit code yields ErrGitCommand with the exit code and
// stderr attached; exceeding the timeout kills the process and yields ErrGitTimeout.
func (s *GitService) run(ctx context.Context, dir string, args ...string) (string, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_OPTIONAL_LOCKS=0")
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	log.Debug("executing git", "args", strings.Join(args, " "), "dir", dir)

	err := cmd.Run()
	output := joinLines(stdout.Bytes())
	errOutput := strings.TrimSpace(joinLines(stderr.Bytes()))

	if ctx.Err() == context.DeadlineExceeded {
		log.Warn("git command timed out", "args", strings.Join(args, " "), "timeout_ms", s.timeout.Milliseconds())
		return "", domainErrors.ErrGitTimeout.
			WithError(ctx.Err()).
			WithContext("args", strings.Join(args, " "))
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", domainErrors.ErrGitCommand.
				WithError(err).
				WithContext("args", strings.Join(args, " "))
		}
		exitCode = exitErr.ExitCode()
	}

	log.Debug("git finished",
		"args", strings.Join(args, " "),
		"exit_code", exitCode,
		"duration_ms", time.Since(start).Milliseconds())

	if exitCode == 0 || exitCode == 1 {
		return output, nil
	}

	if errOutput != "" {
		log.Debug("git stderr", "stderr", errOutput)
	}
	return "", domainErrors.ErrGitCommand.
		WithError(err).
		WithContext("args", strings.Join(args, " ")).
		WithContext("exit_code", exitCode).
		WithContext("stderr", errOutput)
}

// joinLines re-assembles captured output line by line, normalizing CRLF and
// terminating every line with "\n".
func joinLines(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(data) + 1)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for scanner.Scan() {
		b.WriteString(strings.TrimSuffix(scanner.Text(), "\r"))
		b.WriteByte('\n')
	}
	return b.String()
}
