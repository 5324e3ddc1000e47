package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Address())
	assert.Equal(t, "database.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "1M", cfg.BodyLimit)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("ACCESS_TOKEN_TTL", "60")
	t.Setenv("REFRESH_TOKEN_TTL", "3600")
	t.Setenv("DATABASE_PATH", "/tmp/notes.db")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "/tmp/notes.db", cfg.DatabasePath)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := FromEnv()
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "secret")
		t.Setenv("PORT", "http")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("negative ttl", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "secret")
		t.Setenv("PORT", "")
		t.Setenv("ACCESS_TOKEN_TTL", "-5")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++

	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestLoadProdEnv_ExportsEveryPage(t *testing.T) {
	t.Setenv("NOTETAKER_TEST_A", "")
	t.Setenv("NOTETAKER_TEST_B", "")

	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/notetaker/prod/NOTETAKER_TEST_A"), Value: aws.String("one")}},
		{{Name: aws.String("/notetaker/prod/NOTETAKER_TEST_B"), Value: aws.String("two")}},
	}}

	require.NoError(t, loadProdEnv(context.Background(), client, "/notetaker/prod/"))

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "one", os.Getenv("NOTETAKER_TEST_A"))
	assert.Equal(t, "two", os.Getenv("NOTETAKER_TEST_B"))
}
