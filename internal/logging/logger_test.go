package logging_test

import (
	"testing"

	"github.com/charmbracelet/log"

	"github.com/linuxCowboy/vbl/internal/logging"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(testCase.level)
			if logger == nil {
				t.Fatal("New returned nil logger")
			}

			if logger.GetLevel() != testCase.expected {
				t.Errorf("expected level %v, got %v", testCase.expected, logger.GetLevel())
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	logger := logging.Default()
	if logger == nil {
		t.Fatal("Default returned nil logger")
	}
}

func TestFromContext_NilContext(t *testing.T) {
	t.Parallel()

	logger := logging.FromContext(nil) //nolint:staticcheck // Testing nil handling
	if logger == nil {
		t.Fatal("FromContext(nil) returned nil logger")
	}
}

func TestWithLogger_RoundTrip(t *testing.T) {
	t.Parallel()

	custom := logging.New("debug")
	ctx := logging.WithLogger(nil, custom) //nolint:staticcheck // Testing nil handling

	got := logging.FromContext(ctx)
	if got != custom {
		t.Error("FromContext did not return the attached logger")
	}
}
