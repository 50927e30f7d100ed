package storage

import (
	"context"
	"log/slog"
	"time"
)

const logoCheckTimeout = 5 * time.Second

// LogoSource describes where the page logo should come from.
type LogoSource struct {
	Store         AssetStore // nil when no R2 credentials are configured
	PublicBaseURL string
	Key           string
	FallbackURL   string
}

// ResolveLogoURL picks the logo URL once at startup. The browser still swaps in
// FallbackURL if the image fails to load.
func ResolveLogoURL(ctx context.Context, src LogoSource, logger *slog.Logger) string {
	if src.Store == nil {
		if u := PublicURL(src.PublicBaseURL, src.Key); u != "" {
			return u
		}
		return src.FallbackURL
	}

	u := src.Store.GetPublicURL(src.Key)
	if u == "" {
		logger.Warn("R2_PUBLIC_BASE_URL is not set, using logo fallback")
		return src.FallbackURL
	}

	ctx, cancel := context.WithTimeout(ctx, logoCheckTimeout)
	defer cancel()

	ok, err := src.Store.Exists(ctx, src.Key)
	switch {
	case err != nil:
		// Бакет может быть недоступен на старте; ссылка все равно может работать.
		logger.Warn("failed to check logo in R2", slog.String("key", src.Key), slog.Any("error", err))
		return u
	case !ok:
		logger.Warn("logo not found in R2, using fallback", slog.String("key", src.Key))
		return src.FallbackURL
	}
	return u
}
