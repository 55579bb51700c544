package cli

import (
	"errors"

	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// Exit codes for vbl.
const (
	// ExitSuccess indicates a clean run. Calling vbl with a bad argument
	// count prints the usage text and exits with this code as well.
	ExitSuccess = 0

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitFileError indicates a file that cannot be viewed: missing,
	// unreadable, a directory, empty, or over the supported size.
	ExitFileError = 66

	// ExitTermError indicates an unusable terminal (not a TTY, or
	// smaller than the minimum geometry).
	ExitTermError = 69

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromError maps a startup or runtime error to an exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil, errors.Is(err, errUsage):
		return ExitSuccess
	case errors.Is(err, fileview.ErrNotFound),
		errors.Is(err, fileview.ErrPermissionDenied),
		errors.Is(err, fileview.ErrIsDirectory),
		errors.Is(err, fileview.ErrEmpty),
		errors.Is(err, fileview.ErrTooLarge):
		return ExitFileError
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, errTermTooSmall), errors.Is(err, errNotATerminal):
		return ExitTermError
	default:
		return ExitInternalError
	}
}
