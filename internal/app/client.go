package app

import (
	"context"
	"fmt"

	"github.com/leakradar-hq/leakradar-go/internal/config"
	"github.com/leakradar-hq/leakradar-go/internal/logger"
	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
)

// newAPIClient builds the shared API client from config.
func newAPIClient(cfg *config.Config, log logger.Logger) *leakradar.Client {
	opts := []leakradar.Option{
		leakradar.WithToken(cfg.APIToken),
		leakradar.WithTimeout(cfg.RequestTimeout),
		leakradar.WithLogger(log),
	}
	if cfg.APIBaseURL != "" {
		opts = append(opts, leakradar.WithBaseURL(cfg.APIBaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, leakradar.WithUserAgent(cfg.UserAgent))
	}
	return leakradar.New(opts...)
}

// checkProfile verifies the configured credentials against the profile
// endpoint. Rejected credentials abort startup; transient failures only log
// a warning so the runtime can start while the API is unreachable.
func checkProfile(ctx context.Context, client *leakradar.Client, log logger.Logger) error {
	profile, err := client.GetProfile(ctx)
	if err != nil {
		if leakradar.IsAuth(err) {
			return fmt.Errorf("verify api credentials: %w", err)
		}
		log.WarnObj("profile check failed; continuing", "profile_error", err.Error())
		return nil
	}
	log.InfoObj("api profile verified", "profile_meta", map[string]any{
		"email": profile["email"],
		"plan":  profile["plan"],
	})
	return nil
}
