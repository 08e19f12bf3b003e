package gdrive

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/egi-ims/document-service/internal/config"
)

// Scopes granted to the service account: files it creates, read-only for the rest.
var Scopes = []string{
	drive.DriveFileScope,
	drive.DriveReadonlyScope,
}

// ClientFactory builds a Drive client for a single request.
type ClientFactory interface {
	NewClient(ctx context.Context) (Client, error)
}

// Factory authenticates with a service account key file on every call.
type Factory struct {
	cfg  config.GoogleConfig
	fs   afero.Fs
	opts []option.ClientOption
}

// NewFactory returns a Factory reading the key file from fs.
// Extra options are appended to the ones derived from cfg.
func NewFactory(cfg config.GoogleConfig, fs afero.Fs, opts ...option.ClientOption) *Factory {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Factory{cfg: cfg, fs: fs, opts: opts}
}

// NewClient loads the service account key and returns an authorized Drive client.
func (f *Factory) NewClient(ctx context.Context) (Client, error) {
	b, err := f.readCredentials()
	if err != nil {
		return nil, err
	}

	jwtCfg, err := google.JWTConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if jwtCfg.Email == "" || len(jwtCfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("%w: client_email and private_key are required", ErrInvalidCredentials)
	}

	opts := []option.ClientOption{
		option.WithTokenSource(jwtCfg.TokenSource(ctx)),
		option.WithUserAgent(f.cfg.ApplicationName),
	}
	if f.cfg.DriveEndpoint != "" {
		opts = append(opts, option.WithEndpoint(f.cfg.DriveEndpoint))
	}
	opts = append(opts, f.opts...)

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return NewClient(svc), nil
}

// CheckCredentials reports whether the key file can be opened; used by readiness probes.
func (f *Factory) CheckCredentials() error {
	_, err := f.readCredentials()
	return err
}

func (f *Factory) readCredentials() ([]byte, error) {
	file, err := f.fs.Open(f.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsNotFound, err)
	}
	defer file.Close()

	b, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidCredentials, f.cfg.CredentialsFile, err)
	}
	return b, nil
}
