// Package validation checks entity tables at two levels: single-cell and whole-row
// schema constraints, and cross-entity references. Every check is a pure function of
// its inputs and reports failures as an entity.ErrorMap keyed by cell.
package validation

import (
	"context"
	"time"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Run performs one full validation cycle over a snapshot of e: the row schema pass
// for each table and the relationship pass run concurrently, and their results are
// merged with schema messages first and relationship messages last. The only error
// returned is ctx's.
func Run(ctx context.Context, e entity.Entities) (entity.ErrorMap, error) {
	start := time.Now()
	snapshot := e.Clone()

	types := entity.Types()
	schemaErrs := make([]entity.ErrorMap, len(types))
	var relErrs entity.ErrorMap

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			schemaErrs[i] = ValidateTable(t, *snapshot.Table(t))
			return nil
		})
	}
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		relErrs = ValidateRelationships(snapshot)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := entity.ErrorMap{}
	schemaCount := 0
	for _, m := range schemaErrs {
		schemaCount += len(m)
		merged.Merge(m)
	}
	merged.Merge(relErrs)

	logging.Debug("validation cycle complete",
		"schema_errors", schemaCount,
		"relationship_errors", len(relErrs),
		"elapsed", time.Since(start))
	return merged, nil
}

// Validate is Run without cancellation.
func Validate(e entity.Entities) entity.ErrorMap {
	errs, _ := Run(context.Background(), e)
	return errs
}
