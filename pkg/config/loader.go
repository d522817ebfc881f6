package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "WINSLIM_"

// Options controls where configuration is read from
type Options struct {
	// File is an explicit user file; it must exist.
	File string

	// Candidates are probed in order when File is empty; the first existing
	// one is loaded.
	Candidates []string

	// Overrides are applied last, keyed by dotted path.
	Overrides map[string]interface{}
}

// envKey maps WINSLIM_SERVICES__NAMES to services.names
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported configuration format %q", filepath.Ext(path)).
			WithDetail("path", path)
	}
}

func userFile(opts Options) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot read configuration file %s", opts.File)
		}
		return opts.File, nil
	}
	for _, candidate := range opts.Candidates {
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot read configuration file %s", candidate)
		}
	}
	return "", nil
}

// Load reads every configuration layer and returns a validated Config
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	path, err := userFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user configuration")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Bool("allowHelperTool", cfg.AllowHelperTool).
		Int("groups", len(cfg.Groups)).
		Int("services", len(cfg.Services.Names)).
		Int("tasks", len(cfg.Tasks.Paths)).
		Msg("Configuration loaded")
	return &cfg, nil
}
