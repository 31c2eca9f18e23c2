package logging

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	defaultLogFileName = "panehost.log"
	defaultMaxSizeMB   = 10
	backupStamp        = "20060102-150405.000"
)

// RotatorOptions configures a LogRotator.
type RotatorOptions struct {
	Dir        string
	FileName   string
	MaxSizeMB  int
	MaxBackups int // 0 keeps every backup
	MaxAgeDays int // 0 disables age pruning
	Compress   bool
}

// LogRotator is an io.WriteCloser that rolls its file over by size. Backups
// are named <file>.<stamp>[.gz] and pruned by age and count on each roll.
type LogRotator struct {
	opts    RotatorOptions
	limit   int64
	now     func() time.Time
	onError func(error)

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewLogRotator opens (or creates) the current log file in opts.Dir.
func NewLogRotator(opts RotatorOptions) (*LogRotator, error) {
	if opts.Dir == "" {
		return nil, errors.New("log directory is empty")
	}
	if opts.FileName == "" {
		opts.FileName = defaultLogFileName
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = defaultMaxSizeMB
	}
	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	r := &LogRotator{
		opts:  opts,
		limit: int64(opts.MaxSizeMB) << 20,
		now:   time.Now,
		// The logger is the thing being rotated, so housekeeping failures
		// go straight to stderr.
		onError: func(err error) { fmt.Fprintf(os.Stderr, "panehost: log rotation: %v\n", err) },
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LogRotator) path() string {
	return filepath.Join(r.opts.Dir, r.opts.FileName)
}

func (r *LogRotator) open() error {
	f, err := os.OpenFile(r.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.file, r.size = f, info.Size()
	return nil
}

// Write appends p, rolling the file first when p would push it past the limit.
func (r *LogRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.size > 0 && r.size+int64(len(p)) > r.limit {
		if err := r.roll(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *LogRotator) roll() error {
	if err := r.file.Close(); err != nil {
		r.onError(fmt.Errorf("close %s: %w", r.path(), err))
	}
	r.file = nil

	backup := r.path() + "." + r.now().Format(backupStamp)
	if err := os.Rename(r.path(), backup); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	if r.opts.Compress {
		if err := gzipFile(backup); err != nil {
			r.onError(err)
		}
	}
	r.prune()
	return r.open()
}

// gzipFile replaces path with path.gz. The original stays on failure.
func gzipFile(path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	if _, err = io.Copy(zw, in); err == nil {
		err = zw.Close()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path + ".gz")
		return fmt.Errorf("compress %s: %w", path, err)
	}
	return os.Remove(path)
}

type backupFile struct {
	name    string
	modTime time.Time
}

func (r *LogRotator) prune() {
	entries, err := os.ReadDir(r.opts.Dir)
	if err != nil {
		r.onError(err)
		return
	}

	maxAge := time.Duration(r.opts.MaxAgeDays) * 24 * time.Hour
	now := r.now()
	var keep []backupFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), r.opts.FileName+".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if maxAge > 0 && now.Sub(info.ModTime()) > maxAge {
			r.remove(e.Name())
			continue
		}
		keep = append(keep, backupFile{name: e.Name(), modTime: info.ModTime()})
	}

	if r.opts.MaxBackups <= 0 || len(keep) <= r.opts.MaxBackups {
		return
	}
	// Stamps sort chronologically; fall back to mtime for equal prefixes.
	slices.SortFunc(keep, func(a, b backupFile) int {
		if c := a.modTime.Compare(b.modTime); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	for _, b := range keep[:len(keep)-r.opts.MaxBackups] {
		r.remove(b.name)
	}
}

func (r *LogRotator) remove(name string) {
	if err := os.Remove(filepath.Join(r.opts.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.onError(err)
	}
}

// Close closes the current file. A later Write reopens it.
func (r *LogRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
