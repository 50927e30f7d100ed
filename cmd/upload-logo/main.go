// Command upload-logo puts the page logo into the R2 bucket configured by the R2_* variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/Dosada05/coforge-registration/config"
	"github.com/Dosada05/coforge-registration/storage"
)

var errUsage = errors.New("usage")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		logger.Error("upload-logo failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	file := flag.String("file", "", "path to the image to upload")
	key := flag.String("key", cfg.LogoKey, "object key in the bucket")
	contentType := flag.String("content-type", "", "content type (guessed from the file extension when empty)")
	flag.Parse()

	if *file == "" {
		return errUsage
	}
	if *contentType == "" {
		*contentType = mime.TypeByExtension(filepath.Ext(*file))
		if *contentType == "" {
			*contentType = "application/octet-stream"
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := storage.NewCloudflareR2Store(ctx, storage.CloudflareR2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Cloudflare R2 store: %w", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := store.Upload(ctx, *key, *contentType, f)
	if err != nil {
		return err
	}
	logger.Info("logo uploaded",
		slog.String("key", res.Key),
		slog.String("etag", res.ETag),
		slog.String("public_url", res.Location))
	return nil
}
