// Package support holds the godog step definitions for the CLI feature tests.
// The suite builds the mosaic binary once and drives it as a subprocess with
// the stub backend, so no Tesseract installation is required.
package support

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

var binaryPath string

// InitializeTestSuite builds the CLI binary once for all scenarios.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		dir, err := os.MkdirTemp("", "mosaic-cli-*")
		if err != nil {
			panic(fmt.Sprintf("create temp dir: %v", err))
		}
		binaryPath = filepath.Join(dir, "mosaic")

		cmd := exec.Command("go", "build", "-o", binaryPath, "../../../cmd/mosaic")
		out, err := cmd.CombinedOutput()
		if err != nil {
			panic(fmt.Sprintf("build mosaic binary: %v\n%s", err, out))
		}
	})
	ctx.AfterSuite(func() {
		if binaryPath != "" {
			_ = os.RemoveAll(filepath.Dir(binaryPath))
		}
	})
}

// scenarioState carries per-scenario working directory and command results.
type scenarioState struct {
	workDir  string
	stdout   string
	stderr   string
	exitCode int
}

// InitializeScenario registers the step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &scenarioState{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "mosaic-scenario-*")
		if err != nil {
			return ctx, err
		}
		*state = scenarioState{workDir: dir}
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if state.workDir != "" {
			_ = os.RemoveAll(state.workDir)
		}
		return ctx, nil
	})

	ctx.Step(`^a test image "([^"]*)"$`, state.aTestImage)
	ctx.Step(`^I run mosaic with "([^"]*)"$`, state.iRunMosaic)
	ctx.Step(`^the command should succeed$`, state.commandShouldSucceed)
	ctx.Step(`^the command should fail$`, state.commandShouldFail)
	ctx.Step(`^the output should contain "([^"]*)"$`, state.outputShouldContain)
	ctx.Step(`^the error output should contain "([^"]*)"$`, state.errorOutputShouldContain)
}

func (s *scenarioState) aTestImage(name string) error {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 220, B: 220, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(s.workDir, name))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return png.Encode(f, img)
}

func (s *scenarioState) iRunMosaic(args string) error {
	cmd := exec.Command(binaryPath, strings.Fields(args)...)
	cmd.Dir = s.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	s.stdout = stdout.String()
	s.stderr = stderr.String()
	s.exitCode = 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			s.exitCode = exitErr.ExitCode()
		} else {
			return fmt.Errorf("run %s: %w", binaryPath, err)
		}
	}
	return nil
}

func (s *scenarioState) commandShouldSucceed() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected success, got exit code %d\nstdout: %s\nstderr: %s",
			s.exitCode, s.stdout, s.stderr)
	}
	return nil
}

func (s *scenarioState) commandShouldFail() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected failure, but command succeeded\nstdout: %s", s.stdout)
	}
	return nil
}

func (s *scenarioState) outputShouldContain(want string) error {
	if !strings.Contains(s.stdout, want) {
		return fmt.Errorf("stdout does not contain %q\nstdout: %s", want, s.stdout)
	}
	return nil
}

func (s *scenarioState) errorOutputShouldContain(want string) error {
	if !strings.Contains(s.stderr, want) {
		return fmt.Errorf("stderr does not contain %q\nstderr: %s", want, s.stderr)
	}
	return nil
}
