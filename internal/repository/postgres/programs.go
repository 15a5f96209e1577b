// internal/repository/postgres/programs.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/common/metrics"
	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/recommendation"

	"github.com/redis/go-redis/v9"
)

const selectProgramsQuery = `SELECT id, name, description, req_quant, req_verbal, req_logical FROM programs ORDER BY id`

type CacheConfig struct {
	Key string
	TTL time.Duration
}

// ProgramRepository serves the program catalog from Postgres with a
// cache-aside copy in Redis. A nil Redis client disables caching.
type ProgramRepository struct {
	db     *sql.DB
	redis  *redis.Client
	cache  CacheConfig
	logger logger.Logger
}

func NewProgramRepository(db *sql.DB, rdb *redis.Client, cache CacheConfig, log logger.Logger) *ProgramRepository {
	if cache.Key == "" {
		cache.Key = "catalog:programs"
	}
	return &ProgramRepository{
		db:     db,
		redis:  rdb,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"repository": "programs"}),
	}
}

// GetAllPrograms returns the catalog ordered by id. Cache failures fall
// through to the database.
func (r *ProgramRepository) GetAllPrograms(ctx context.Context) ([]recommendation.ProgramDefinition, error) {
	if programs, ok := r.fromCache(ctx); ok {
		return programs, nil
	}

	rows, err := r.db.QueryContext(ctx, selectProgramsQuery)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	programs := make([]recommendation.ProgramDefinition, 0)
	for rows.Next() {
		var p models.Program
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.ReqQuant, &p.ReqVerbal, &p.ReqLogical); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		p.Description = desc.String
		programs = append(programs, p.Definition())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}

	r.toCache(ctx, programs)
	return programs, nil
}

// InvalidateCache drops the cached catalog.
func (r *ProgramRepository) InvalidateCache(ctx context.Context) error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Del(ctx, r.cache.Key).Err()
}

func (r *ProgramRepository) fromCache(ctx context.Context) ([]recommendation.ProgramDefinition, bool) {
	if r.redis == nil {
		return nil, false
	}

	val, err := r.redis.Get(ctx, r.cache.Key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
			r.logger.Warn("catalog cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var programs []recommendation.ProgramDefinition
	if err := json.Unmarshal([]byte(val), &programs); err != nil {
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("discarding corrupt catalog cache entry", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
	return programs, true
}

func (r *ProgramRepository) toCache(ctx context.Context, programs []recommendation.ProgramDefinition) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(programs)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, r.cache.Key, data, r.cache.TTL).Err(); err != nil {
		r.logger.Warn("catalog cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
