// Package builder invokes the downstream Flutter build tool that turns the
// generated documents into Dart code.
package builder

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Run executes `flutter pub run build_runner build` in dir and streams its
// output through. The tool's exit status is the caller's to propagate.
func Run(ctx context.Context, dir string, logger *log.Logger) error {
	cmd := exec.CommandContext(ctx, "flutter", "pub", "run", "build_runner", "build", "--delete-conflicting-outputs")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Info("running build_runner", "dir", dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("build_runner failed: %w", err)
	}

	return nil
}
