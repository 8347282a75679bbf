package periphery

import "strings"

// oldDockerSignalMarker is the stderr substring an old docker CLI
// produces when it doesn't recognise `--signal`.
const oldDockerSignalMarker = "unknown flag: --signal"

// OldDockerSignalNotice is prefixed onto stderr when StopContainer or
// RemoveContainer retries without --signal after detecting the
// old-docker marker.
const OldDockerSignalNotice = "old docker version: unable to use --signal flag"

// IsOldDockerSignalError reports whether stderr indicates the remote
// docker CLI doesn't support the --signal flag. StopContainer and
// RemoveContainer use this to decide whether to retry with Signal
// cleared.
func IsOldDockerSignalError(stderr string) bool {
	return strings.Contains(stderr, oldDockerSignalMarker)
}
