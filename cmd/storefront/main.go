// Command storefront serves the women's clothing listing page: a searchable,
// sortable product grid rendered from the upstream catalog, with htmx
// fragment updates, health probes on /livez and /readyz, and static assets
// under /assets/.
package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/storefront/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}
		return appkg.Run(ctx, lg, m, cfg)
	})
}
