package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/grpc"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// Loader handles loading plugin backends using HashiCorp go-plugin.
type Loader struct {
	logger  *slog.Logger
	clients map[string]*plugin.Client
}

// NewLoader creates a new plugin loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, clients: make(map[string]*plugin.Client)}
}

// LoadOptions contains options for loading a plugin.
type LoadOptions struct {
	Manifest   *Manifest
	Config     sdk.Config
	SecureMode bool
}

// Load loads a plugin backend from a binary.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) (grpc.BackendPluginServer, error) {
	if opts.Manifest == nil {
		return nil, fmt.Errorf("manifest is required")
	}

	manifest := opts.Manifest
	binaryPath := manifest.BinaryAbsPath()

	sanitizedPath, err := l.validateBinaryPath(binaryPath)
	if err != nil {
		return nil, sdk.NewLoadError(binaryPath, "binary path validation failed", err)
	}

	info, err := os.Stat(sanitizedPath)
	if err != nil {
		return nil, sdk.NewLoadError(sanitizedPath, "binary not found", err)
	}
	if !info.Mode().IsRegular() {
		return nil, sdk.NewLoadError(sanitizedPath, "binary path is not a regular file", nil)
	}

	if opts.SecureMode && manifest.Checksum != "" {
		if err := l.verifyChecksum(sanitizedPath, manifest.Checksum); err != nil {
			return nil, sdk.NewLoadError(sanitizedPath, "checksum verification failed", err)
		}
	}

	l.logger.Info("loading plugin", "backend_id", manifest.ID, "binary", sanitizedPath)

	// #nosec G204 -- binary path is validated by validateBinaryPath
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  grpc.HandshakeConfig,
		Plugins:          grpc.PluginMap,
		Cmd:              exec.Command(sanitizedPath),
		Logger:           newHclogAdapter(l.logger),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, sdk.NewLoadError(binaryPath, "failed to connect", err)
	}

	raw, err := rpcClient.Dispense("backend")
	if err != nil {
		client.Kill()
		return nil, sdk.NewLoadError(binaryPath, "failed to dispense", err)
	}

	backend, ok := raw.(grpc.BackendPluginServer)
	if !ok {
		client.Kill()
		return nil, sdk.NewLoadError(binaryPath, "plugin does not implement BackendPluginServer", nil)
	}

	if err := backend.ConfigSchema().Validate(opts.Config.Raw); err != nil {
		client.Kill()
		return nil, sdk.NewLoadError(binaryPath, "configuration validation failed", fmt.Errorf("%w: %v", sdk.ErrInvalidConfig, err))
	}

	if err := backend.Initialize(ctx, opts.Config); err != nil {
		client.Kill()
		return nil, sdk.NewLoadError(binaryPath, "initialization failed", err)
	}

	l.clients[manifest.ID] = client

	l.logger.Info("plugin loaded successfully", "backend_id", manifest.ID, "kind", backend.Kind())
	return backend, nil
}

// Unload stops and cleans up a plugin.
func (l *Loader) Unload(id string) error {
	client, exists := l.clients[id]
	if !exists {
		return nil
	}
	client.Kill()
	delete(l.clients, id)
	l.logger.Info("plugin unloaded", "backend_id", id)
	return nil
}

// UnloadAll stops and cleans up all plugins.
func (l *Loader) UnloadAll() {
	for id, client := range l.clients {
		client.Kill()
		l.logger.Info("plugin unloaded", "backend_id", id)
	}
	l.clients = make(map[string]*plugin.Client)
}

// IsLoaded checks if a plugin is currently loaded.
func (l *Loader) IsLoaded(id string) bool {
	_, exists := l.clients[id]
	return exists
}

// validateBinaryPath validates and sanitizes a binary path to prevent
// command injection. It ensures the path is absolute, contains no shell
// metacharacters, and resolves to a safe location without path traversal.
func (l *Loader) validateBinaryPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("binary path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("binary path must be absolute: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r", "\\", "'", "\""}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return "", fmt.Errorf("binary path contains forbidden character %q: %s", char, path)
		}
	}

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve binary path: %w", err)
	}

	l.logger.Debug("binary path validated", "original", path, "resolved", resolvedPath)
	return resolvedPath, nil
}

// verifyChecksum verifies the SHA256 checksum of a file. Expected format:
// "sha256:HEXHASH" or just "HEXHASH" (assumes sha256).
func (l *Loader) verifyChecksum(path, expected string) error {
	algorithm := "sha256"
	hash := expected

	if strings.Contains(expected, ":") {
		parts := strings.SplitN(expected, ":", 2)
		algorithm = strings.ToLower(parts[0])
		hash = parts[1]
	}
	if algorithm != "sha256" {
		return fmt.Errorf("unsupported checksum algorithm: %s (only sha256 is supported)", algorithm)
	}

	// #nosec G304 - path is validated by validateBinaryPath before calling verifyChecksum
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	computed := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(computed, hash) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", hash, computed)
	}

	l.logger.Debug("checksum verified", "path", path, "algorithm", algorithm)
	return nil
}

// hclogAdapter adapts slog to the hclog interface go-plugin expects.
type hclogAdapter struct {
	logger *slog.Logger
	name   string
}

func newHclogAdapter(logger *slog.Logger) *hclogAdapter {
	return &hclogAdapter{logger: logger, name: "shiftsched"}
}

func (h *hclogAdapter) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Trace, hclog.Debug:
		h.logger.Debug(msg, args...)
	case hclog.Info:
		h.logger.Info(msg, args...)
	case hclog.Warn:
		h.logger.Warn(msg, args...)
	case hclog.Error:
		h.logger.Error(msg, args...)
	default:
		h.logger.Debug(msg, args...)
	}
}

func (h *hclogAdapter) Trace(msg string, args ...interface{}) { h.logger.Debug(msg, args...) }
func (h *hclogAdapter) Debug(msg string, args ...interface{}) { h.logger.Debug(msg, args...) }
func (h *hclogAdapter) Info(msg string, args ...interface{})  { h.logger.Info(msg, args...) }
func (h *hclogAdapter) Warn(msg string, args ...interface{})  { h.logger.Warn(msg, args...) }
func (h *hclogAdapter) Error(msg string, args ...interface{}) { h.logger.Error(msg, args...) }

func (h *hclogAdapter) IsTrace() bool { return false }
func (h *hclogAdapter) IsDebug() bool { return true }
func (h *hclogAdapter) IsInfo() bool  { return true }
func (h *hclogAdapter) IsWarn() bool  { return true }
func (h *hclogAdapter) IsError() bool { return true }

func (h *hclogAdapter) ImpliedArgs() []interface{} { return nil }

func (h *hclogAdapter) With(args ...interface{}) hclog.Logger {
	return h
}

func (h *hclogAdapter) Name() string { return h.name }

func (h *hclogAdapter) Named(name string) hclog.Logger {
	return &hclogAdapter{logger: h.logger, name: h.name + "." + name}
}

func (h *hclogAdapter) ResetNamed(name string) hclog.Logger {
	return &hclogAdapter{logger: h.logger, name: name}
}

func (h *hclogAdapter) SetLevel(level hclog.Level) {}

func (h *hclogAdapter) GetLevel() hclog.Level { return hclog.Debug }

func (h *hclogAdapter) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.Default()
}

func (h *hclogAdapter) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	return os.Stderr
}
