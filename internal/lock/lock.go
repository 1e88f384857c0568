package lock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/unix"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
)

// Locker guards one repository against concurrent bucketing sessions.
// The lock is an flock on a per-repository file that also records the owner's PID.
type Locker struct {
	lockFile  string
	lockFd    *os.File
	pid       int
	recovered int
}

// New creates a Locker for repoPath with its lock file in the system temp directory.
func New(repoPath string) (*Locker, error) {
	return NewInDir(repoPath, os.TempDir())
}

// NewInDir creates a Locker for repoPath with its lock file in dir.
func NewInDir(repoPath, dir string) (*Locker, error) {
	if runtime.GOOS == "windows" {
		return nil, gitsliceErrors.NewLockError("", 0,
			gitsliceErrors.Wrap(gitsliceErrors.ErrLockAcquisitionFailure,
				"session locking is only supported on Unix-like operating systems"))
	}

	repoHash := fmt.Sprintf("%x", sha256.Sum256([]byte(repoPath)))[:16]
	return &Locker{
		lockFile: filepath.Join(dir, fmt.Sprintf("gitslice-%s.lock", repoHash)),
		pid:      os.Getpid(),
	}, nil
}

// Path returns the lock file location.
func (l *Locker) Path() string {
	return l.lockFile
}

// Recovered returns the PID recorded in a stale lock file that Acquire took
// over, or zero if the lock was free.
func (l *Locker) Recovered() int {
	return l.recovered
}

// Acquire takes the lock without blocking. If another live process holds it the
// error is a *errors.LockError matching errors.ErrAlreadyRunning.
func (l *Locker) Acquire() error {
	if l.lockFd != nil {
		return nil
	}

	previous, _ := readPid(l.lockFile)

	fd, err := os.OpenFile(l.lockFile, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return gitsliceErrors.NewLockError(l.lockFile, 0,
			gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "failed to open lock file"), gitsliceErrors.ErrLockAcquisitionFailure))
	}

	if err := flock(fd); err != nil {
		_ = fd.Close()
		if !wouldBlock(err) {
			return gitsliceErrors.NewLockError(l.lockFile, 0,
				gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "failed to lock"), gitsliceErrors.ErrLockAcquisitionFailure))
		}
		return l.handleBlockedLock()
	}

	l.lockFd = fd
	if err := l.writePid(); err != nil {
		return multierror.Append(err, l.Release()).ErrorOrNil()
	}

	if previous != 0 && previous != l.pid {
		l.recovered = previous
	}
	return nil
}

// handleBlockedLock decides between a live owner and a stale lock whose owner
// died while a child process kept the flock open.
func (l *Locker) handleBlockedLock() error {
	owner, err := readPid(l.lockFile)
	if err != nil {
		return gitsliceErrors.NewLockError(l.lockFile, 0,
			gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "lock is held but its owner is unknown"), gitsliceErrors.ErrAlreadyRunning))
	}

	if isProcessRunning(owner) {
		return gitsliceErrors.NewLockError(l.lockFile, owner, gitsliceErrors.ErrAlreadyRunning)
	}

	if err := os.Remove(l.lockFile); err != nil {
		return gitsliceErrors.NewLockError(l.lockFile, owner,
			gitsliceErrors.Mark(gitsliceErrors.Wrapf(err, "failed to remove stale lock of PID %d", owner), gitsliceErrors.ErrLockAcquisitionFailure))
	}

	fd, err := os.OpenFile(l.lockFile, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		return gitsliceErrors.NewLockError(l.lockFile, 0,
			gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "lost the race for a recovered lock"), gitsliceErrors.ErrLockAcquisitionFailure))
	}
	if err := flock(fd); err != nil {
		_ = fd.Close()
		return gitsliceErrors.NewLockError(l.lockFile, 0,
			gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "failed to lock after removing stale lock"), gitsliceErrors.ErrLockAcquisitionFailure))
	}

	l.lockFd = fd
	l.recovered = owner
	if err := l.writePid(); err != nil {
		return multierror.Append(err, l.Release()).ErrorOrNil()
	}
	return nil
}

// Release unlocks and removes the lock file. It is safe to call when the lock
// is not held. Every cleanup step is attempted and all failures are returned.
func (l *Locker) Release() error {
	if l.lockFd == nil {
		return nil
	}

	var result *multierror.Error
	if err := unix.Flock(int(l.lockFd.Fd()), unix.LOCK_UN); err != nil {
		result = multierror.Append(result, gitsliceErrors.NewLockError(l.lockFile, l.pid,
			gitsliceErrors.Wrap(err, "failed to unlock")))
	}
	if err := l.lockFd.Close(); err != nil {
		result = multierror.Append(result, gitsliceErrors.NewLockError(l.lockFile, l.pid,
			gitsliceErrors.Wrap(err, "failed to close lock file")))
	}
	l.lockFd = nil

	if err := os.Remove(l.lockFile); err != nil && !os.IsNotExist(err) {
		result = multierror.Append(result, gitsliceErrors.NewLockError(l.lockFile, l.pid,
			gitsliceErrors.Wrap(err, "failed to remove lock file")))
	}

	return result.ErrorOrNil()
}

func (l *Locker) writePid() error {
	if err := l.lockFd.Truncate(0); err != nil {
		return gitsliceErrors.NewLockError(l.lockFile, l.pid,
			gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "failed to truncate lock file"), gitsliceErrors.ErrLockAcquisitionFailure))
	}
	if _, err := l.lockFd.WriteAt([]byte(strconv.Itoa(l.pid)), 0); err != nil {
		return gitsliceErrors.NewLockError(l.lockFile, l.pid,
			gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "failed to write PID to lock file"), gitsliceErrors.ErrLockAcquisitionFailure))
	}
	return nil
}

// flock gets an exclusive non-blocking lock
func flock(fd *os.File) error {
	return unix.Flock(int(fd.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

// wouldBlock reports a lock held elsewhere. Some systems report EAGAIN
// where others report EWOULDBLOCK, so both are checked.
func wouldBlock(err error) bool {
	return gitsliceErrors.Is(err, unix.EWOULDBLOCK) || gitsliceErrors.Is(err, unix.EAGAIN)
}

// isProcessRunning checks if a process exists using signal 0
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	return unix.Kill(pid, 0) == nil
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, gitsliceErrors.Wrap(err, "failed to read lock file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, gitsliceErrors.Wrap(err, "invalid PID in lock file")
	}
	return pid, nil
}
