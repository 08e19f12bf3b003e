package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("GOOGLE_CREDENTIALS", "/etc/ims/sa.json")
	t.Setenv("GOOGLE_EMAIL", "docs@ims.iam.gserviceaccount.com")
	t.Setenv("IMS_GROUP", "SLM")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("SERVER_READ_TIMEOUT", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "/etc/ims/sa.json", cfg.Google.CredentialsFile)
	require.Equal(t, "docs@ims.iam.gserviceaccount.com", cfg.Google.ClientEmail)
	require.Equal(t, "EGI Document Service API", cfg.Google.ApplicationName)
	require.Equal(t, RelocateCopy, cfg.Google.Relocation)
	require.Equal(t, "SLM", cfg.IMS.Group)
	require.Equal(t, "6379", cfg.Redis.Port)
	require.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "0.0.0.0:5010", cfg.Server.Addr())
	require.Empty(t, cfg.MongoDB.URI)
}

func TestLoadConfig_RelocationMode(t *testing.T) {
	t.Setenv("GOOGLE_RELOCATION", " Move ")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, RelocateMove, cfg.Google.Relocation)

	t.Setenv("GOOGLE_RELOCATION", "teleport")
	_, err = LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GOOGLE_RELOCATION")
}
