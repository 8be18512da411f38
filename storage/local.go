package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type LocalStorage struct {
	Dir     string
	baseURL string
}

func NewLocal() (*LocalStorage, error) {
	dir := viper.GetString("storage.path")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	return &LocalStorage{
		Dir:     dir,
		baseURL: fmt.Sprintf("%s://%s:%d/files", scheme, viper.GetString("host.domain"), viper.GetInt("host.port")),
	}, nil
}

func (l *LocalStorage) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	f, err := os.Create(filepath.Join(l.Dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file, %w", err)
	}

	return l.baseURL + "/" + key, nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.Dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
