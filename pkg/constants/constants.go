package constants

const (
	// ConfigName is the base name of the config file (without extension).
	ConfigName = "config"

	// ConfigFormat is the config file format expected by viper.
	ConfigFormat = "yaml"
)
