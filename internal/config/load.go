package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (THUMBMASTER_OUTPUT, ...).
const EnvPrefix = "THUMBMASTER"

// defaultConfigName is looked up in the working directory when --config is
// not given. Any extension viper understands is accepted.
const defaultConfigName = "thumbmaster"

// Load applies, in increasing precedence, an optional config file, the
// environment (after loading .env from the working directory), and args
// (os.Args[1:]) on top of cfg. When --help or --version is present it
// returns right after flag parsing with ShowHelp/ShowVersion set.
func Load(cfg *Config, args []string) error {
	flags := newFlagSet(cfg)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if cfg.ShowHelp || cfg.ShowVersion {
		return nil
	}
	if flags.NArg() > 1 {
		return fmt.Errorf("expected at most one manifest argument, got %d", flags.NArg())
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	vp := viper.New()
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vp.AutomaticEnv()
	if err := vp.BindPFlags(flags); err != nil {
		return err
	}

	if err := readConfigFile(vp); err != nil {
		return err
	}

	cfg.ConfigFile = vp.ConfigFileUsed()
	cfg.ManifestPath = vp.GetString(keyManifest)
	cfg.OutputDir = vp.GetString(keyOutput)
	cfg.FfmpegBin = vp.GetString(keyFfmpeg)
	cfg.FfprobeBin = vp.GetString(keyFfprobe)
	cfg.ProbeTimeout = vp.GetDuration(keyProbeTimeout)
	cfg.ExtractTimeout = vp.GetDuration(keyExtractTimeout)
	cfg.FallbackSeek = vp.GetFloat64(keyFallbackSeek)
	cfg.ThumbWidth = vp.GetInt(keyWidth)
	cfg.JPEGQuality = vp.GetInt(keyQuality)
	cfg.DryRun = vp.GetBool(keyDryRun)
	cfg.Force = vp.GetBool(keyForce)
	cfg.NoProbe = vp.GetBool(keyNoProbe)
	cfg.ColorMode = ColorMode(strings.ToLower(vp.GetString(keyColor)))
	cfg.LogFile = vp.GetString(keyLog)
	cfg.Verbose = vp.GetBool(keyVerbose)
	cfg.CheckOnly = vp.GetBool(keyCheck)

	if flags.NArg() == 1 {
		cfg.ManifestPath = flags.Arg(0)
	}
	return nil
}

// readConfigFile reads the file named by --config (or THUMBMASTER_CONFIG),
// failing if it cannot be read. Without one, ./thumbmaster.* is optional.
func readConfigFile(vp *viper.Viper) error {
	if path := vp.GetString(keyConfig); path != "" {
		vp.SetConfigFile(path)
		if err := vp.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	vp.SetConfigName(defaultConfigName)
	vp.AddConfigPath(".")
	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
