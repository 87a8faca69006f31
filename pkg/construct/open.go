package construct

import (
	"context"

	"github.com/matzehuels/tdvisu/pkg/config"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/trace"
	"github.com/matzehuels/tdvisu/pkg/trace/postgres"
	"github.com/matzehuels/tdvisu/pkg/trace/sqlite"
)

// OpenStore connects to the trace database named by cfg. A configured
// SQLite path takes precedence over the PostgreSQL settings.
func OpenStore(ctx context.Context, cfg *config.Config) (trace.Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if p := cfg.SQLite.Path; p != "" {
		s, err := sqlite.Open(ctx, p)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "open %s", p)
		}
		return s, nil
	}
	s, err := postgres.Open(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "connect to %s", cfg.Postgres.Redacted())
	}
	return s, nil
}
