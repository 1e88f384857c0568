// Package lock keeps two gitslice bucketing sessions from committing in the
// same working tree at once.
//
// A session holds an exclusive flock on a per-repository file in the temporary
// directory:
//
//	/tmp/gitslice-<repo-hash>.lock
//
// The file records the owner's PID. A second session gets a *errors.LockError
// matching errors.ErrAlreadyRunning. A lock file left behind by a process that
// no longer runs is taken over, and Recovered reports the previous owner.
//
// # Usage
//
//	locker, err := lock.New(repoPath)
//	if err != nil {
//	    // Handle error
//	}
//	if err := locker.Acquire(); err != nil {
//	    // Often means another session is running
//	}
//	defer locker.Release()
//
// A Locker is not safe for concurrent use. Only Unix-like systems are supported.
package lock
