package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Intake   IntakeConfig   `mapstructure:"intake"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// DownloadURLExpiry is the single expiry applied to every presigned
	// download URL. One value for all call sites.
	DownloadURLExpiry time.Duration `mapstructure:"download_url_expiry"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// IntakeConfig bounds the application submission payload.
type IntakeConfig struct {
	MaxResumeBytes int64 `mapstructure:"max_resume_bytes"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	viper.AutomaticEnv()
	// Use replacer for nested keys e.g., server.address -> SERVER_ADDRESS,
	// s3.download_url_expiry -> S3_DOWNLOAD_URL_EXPIRY
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Set default values ---
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "research_match")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("s3.download_url_expiry", "168h") // 7 days
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("intake.max_resume_bytes", 5*1024*1024)

	// --- Read Config File ---
	err = viper.ReadInConfig()
	// If the config file is missing we continue on env vars and defaults.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// Viper parses duration strings ("168h", "1h") directly into the
	// time.Duration fields during Unmarshal.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
