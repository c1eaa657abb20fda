package load

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/funvibe/lynx/internal/extension"
	"github.com/funvibe/lynx/internal/extension/script"
)

// Loader instantiates manifest entries and registers them.
type Loader struct {
	logger  *slog.Logger
	baseDir string
	opts    []script.Option
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBaseDir sets the directory script paths are resolved against.
func WithBaseDir(dir string) LoaderOption {
	return func(l *Loader) { l.baseDir = dir }
}

// WithScriptOptions passes options through to every script extension.
func WithScriptOptions(opts ...script.Option) LoaderOption {
	return func(l *Loader) { l.opts = opts }
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &Loader{logger: logger, baseDir: "."}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load instantiates every manifest entry in order and registers it into
// reg's global list. The returned extensions are the caller's to close
// once the session ends. On error, extensions created so far are closed
// and nothing stays registered.
func (l *Loader) Load(m *Manifest, reg *extension.Registry) ([]*script.Extension, error) {
	var loaded []*script.Extension
	for _, entry := range m.Extensions {
		source := entry.Source
		if entry.Script != "" {
			data, err := os.ReadFile(filepath.Join(l.baseDir, entry.Script))
			if err != nil {
				closeAll(loaded)
				return nil, fmt.Errorf("extension %q: %w", entry.Name, err)
			}
			source = string(data)
		}

		ext, err := script.New(entry.Name, source, l.opts...)
		if err != nil {
			closeAll(loaded)
			return nil, fmt.Errorf("extension %q: %w", entry.Name, err)
		}
		loaded = append(loaded, ext)
		l.logger.Info("extension loaded", "name", entry.Name)
	}

	// Register only after every entry loaded, keeping manifest order.
	for _, ext := range loaded {
		reg.AddGlobal(ext)
	}
	return loaded, nil
}

func closeAll(exts []*script.Extension) {
	for _, e := range exts {
		e.Close()
	}
}
