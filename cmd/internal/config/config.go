package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	defaultPort            = 7070
	defaultDatabasePath    = "database.db"
	defaultAccessTokenTTL  = 5 * time.Minute
	defaultRefreshTokenTTL = 24 * time.Hour
	defaultBodyLimit       = "1M"
	defaultSSMPrefix       = "/notetaker/prod/"
	defaultAWSRegion       = "us-east-2"
)

var ErrMissingSecret = errors.New("JWT_SECRET_KEY is required")

type Config struct {
	Production      bool
	Port            int
	DatabasePath    string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BodyLimit       string
	SSMPrefix       string
	AWSRegion       string
}

// Load populates the environment and reads the config from it.
// Production pulls its variables from AWS SSM Parameter Store, anything else reads an optional .env file.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("GO_ENV") == "production" {
		region := envOr("AWS_REGION", defaultAWSRegion)
		client, err := newSSMClient(ctx, region)
		if err != nil {
			return nil, err
		}

		if err = loadProdEnv(ctx, client, envOr("SSM_PREFIX", defaultSSMPrefix)); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Production:   os.Getenv("GO_ENV") == "production",
		DatabasePath: envOr("DATABASE_PATH", defaultDatabasePath),
		JWTSecret:    os.Getenv("JWT_SECRET_KEY"),
		BodyLimit:    envOr("BODY_LIMIT", defaultBodyLimit),
		SSMPrefix:    envOr("SSM_PREFIX", defaultSSMPrefix),
		AWSRegion:    envOr("AWS_REGION", defaultAWSRegion),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	var err error
	if cfg.Port, err = intEnv("PORT", defaultPort); err != nil {
		return nil, err
	}

	if cfg.AccessTokenTTL, err = secondsEnv("ACCESS_TOKEN_TTL", defaultAccessTokenTTL); err != nil {
		return nil, err
	}

	if cfg.RefreshTokenTTL, err = secondsEnv("REFRESH_TOKEN_TTL", defaultRefreshTokenTTL); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Address() string {
	return ":" + strconv.Itoa(c.Port)
}

func newSSMClient(ctx context.Context, region string) (ssm.GetParametersByPathAPIClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// loadProdEnv exports every parameter under 'prefix' as an env var named after the rest of its path.
func loadProdEnv(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range out.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			if err = os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			loaded++
		}
	}

	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}

func secondsEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}

	v, err := intEnv(key, 0)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}
