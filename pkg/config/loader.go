package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/logging"
	"github.com/arthur-debert/assetdeploy/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "ASSETDEPLOY_"

// Load builds the configuration for projectRoot. overrides uses dotted keys
// ("source.root") and wins over every other source; nil values are skipped.
func Load(projectRoot string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")

	k, configFile, err := newKoanf(projectRoot, overrides)
	if err != nil {
		return nil, err
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	cfg.File = configFile
	cfg.resolve(projectRoot)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("projectRoot", projectRoot).
		Str("configFile", configFile).
		Str("mapping", cfg.Mapping.File).
		Str("source", cfg.Source.Root).
		Str("destination", cfg.Destination.Root).
		Msg("Configuration loaded")
	return cfg, nil
}

// Defaults returns the configuration built from the embedded defaults
// alone, resolved against projectRoot.
func Defaults(projectRoot string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	cfg.resolve(projectRoot)
	return cfg, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				stringToFileModeHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func newKoanf(projectRoot string, overrides map[string]interface{}) (*koanf.Koanf, string, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, "", errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Project config file
	configFile, found := paths.FindConfigFile(projectRoot)
	if found {
		if err := k.Load(file.Provider(configFile), parserFor(configFile)); err != nil {
			return nil, "", errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configFile).
				WithDetail(errors.DetailPath, configFile)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, "", errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Explicit overrides
	if flat := compact(overrides); len(flat) > 0 {
		if err := k.Load(confmap.Provider(flat, "."), nil); err != nil {
			return nil, "", errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, configFile, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps ASSETDEPLOY_SOURCE__ROOT to source.root. Variables without a
// nested key (ASSETDEPLOY_ROOT, ASSETDEPLOY_STATE_DIR) are not settings and
// are dropped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}

func compact(overrides map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(overrides))
	for k, v := range overrides {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
