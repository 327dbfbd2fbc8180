package pool

import "runtime"

// numCPU reports the number of logical CPUs usable by the process, falling
// back to DefaultThreadsNum if the runtime ever reports a non-positive
// value. This is the Go analogue of the original ctp's get_threads_num(),
// which queries sysconf(_SC_NPROCESSORS_ONLN) / GetSystemInfo with the same
// fallback.
func numCPU() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return DefaultThreadsNum
}
