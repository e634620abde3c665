//go:build linux || darwin

package config

import "golang.org/x/sys/unix"

// unlimitedRlimit is above any finite RLIMIT_NPROC; RLIM_INFINITY differs
// between platforms but is always larger.
const unlimitedRlimit = 1 << 62

// platformWorkerLimit reads the soft RLIMIT_NPROC. Half of it is kept for
// the rest of the process and the user's other programs.
func platformWorkerLimit() (uint64, bool) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NPROC, &rl); err != nil {
		return 0, false
	}
	if rl.Cur == 0 || rl.Cur >= unlimitedRlimit {
		return 0, false
	}
	return rl.Cur / 2, true
}
