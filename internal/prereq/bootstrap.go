package prereq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrToolchain indicates a required tool is missing or too old.
var ErrToolchain = errors.New("prereq: toolchain requirement not met")

// maxBootstrapScript bounds the downloaded installer size.
const maxBootstrapScript = 4 * 1024 * 1024

// Toolchain drives the full prerequisite pass: required tools are fatal
// when missing or too old; the dependency manager gets one bootstrap
// attempt before its absence becomes fatal too.
type Toolchain struct {
	prober       *Prober
	bootstrapURL string
	client       *http.Client
	logger       *slog.Logger
}

// NewToolchain creates a Toolchain. A nil client gets a default with a
// conservative timeout.
func NewToolchain(prober *Prober, bootstrapURL string, client *http.Client, logger *slog.Logger) *Toolchain {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Toolchain{
		prober:       prober,
		bootstrapURL: bootstrapURL,
		client:       client,
		logger:       logger,
	}
}

// Ensure probes every prerequisite and returns ErrToolchain (wrapped
// with a remediation message) on the first failure. Probing is
// read-only except for the uv bootstrap.
func (t *Toolchain) Ensure(ctx context.Context) error {
	for _, tool := range RequiredTools() {
		res := t.prober.Check(ctx, tool)
		if res.Status != Satisfied {
			return fmt.Errorf("%w: %s", ErrToolchain, res.Remediation())
		}
		t.logger.Debug("prerequisite satisfied", "tool", tool.Name, "version", res.Version)
	}

	uv := UVTool()
	res := t.prober.Check(ctx, uv)
	if res.Status == Satisfied {
		t.logger.Debug("prerequisite satisfied", "tool", uv.Name, "version", res.Version)
		return nil
	}
	if res.Status == TooOld {
		return fmt.Errorf("%w: %s", ErrToolchain, res.Remediation())
	}

	// One-shot bootstrap, then a final probe.
	t.logger.Info("uv not found, bootstrapping", "url", t.bootstrapURL)
	if err := t.bootstrapUV(ctx); err != nil {
		return fmt.Errorf("%w: uv bootstrap failed: %v. %s", ErrToolchain, err, uv.InstallHint)
	}

	res = t.prober.Check(ctx, uv)
	if res.Status != Satisfied {
		return fmt.Errorf("%w: uv still %s after bootstrap. %s", ErrToolchain, res.Status, uv.InstallHint)
	}
	return nil
}

// bootstrapUV downloads the official install script from the fixed
// trusted source and feeds it to the platform shell interpreter.
func (t *Toolchain) bootstrapUV(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.bootstrapURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "formulary-setup")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("download install script: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download install script: unexpected status %d", resp.StatusCode)
	}

	script, err := io.ReadAll(io.LimitReader(resp.Body, maxBootstrapScript))
	if err != nil {
		return fmt.Errorf("read install script: %w", err)
	}

	result := t.prober.sys.RunScript(ctx, string(script))
	if !result.Success() {
		if result.Err != nil {
			return fmt.Errorf("run install script: %w", result.Err)
		}
		return fmt.Errorf("install script exited %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}
