package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/setup"
)

var (
	ErrUserRequired      = errors.New("USER argument required")
	ErrViolationRequired = errors.New("VIOLATION_ID argument required")
	ErrValueRequired     = errors.New("VALUE argument required")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	App *setup.App
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

// parseViolationID parses the VIOLATION_ID argument.
func parseViolationID(arg string) (uuid.UUID, error) {
	if arg == "" {
		return uuid.Nil, ErrViolationRequired
	}

	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid violation id %q: %w", arg, err)
	}
	return id, nil
}

// enumArg normalizes user input to the enum string form.
func enumArg(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}
