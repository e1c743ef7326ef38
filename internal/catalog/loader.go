package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/2beens/regain/internal/telemetry/metrics"
	"github.com/2beens/regain/internal/telemetry/tracing"
	"github.com/2beens/regain/internal/training"
)

const documentCacheKey = "catalog::document"

type Catalog struct {
	Exercises []training.Exercise `json:"exercises"`
}

// Parse decodes a catalog document; the top level "exercises" key is mandatory.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Exercises *[]training.Exercise `json:"exercises"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, err)
	}
	if doc.Exercises == nil {
		return nil, fmt.Errorf("%w: missing exercises", ErrInvalidCatalog)
	}
	return &Catalog{Exercises: *doc.Exercises}, nil
}

type LoaderParams struct {
	Sources []Source
	// CacheExpire is how long a fetched document is kept, 0 keeps it for
	// the process lifetime.
	CacheExpire time.Duration
	Metrics     *metrics.Manager
}

// Loader fetches the exercise catalog from the first working candidate source.
// The raw document is memoized; every Load parses its own copy, so callers
// never share exercise values.
type Loader struct {
	sources []Source
	cache   *expirable.LRU[string, []byte]
	metrics *metrics.Manager
}

func NewLoader(params LoaderParams) *Loader {
	return &Loader{
		sources: params.Sources,
		cache:   expirable.NewLRU[string, []byte](1, nil, params.CacheExpire),
		metrics: params.Metrics,
	}
}

func (l *Loader) Load(ctx context.Context) (_ *Catalog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if cached, ok := l.cache.Get(documentCacheKey); ok {
		if cat, err := Parse(cached); err == nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cat, nil
		} else {
			log.Errorf("catalog: parse cached document: %s", err)
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	tried := make([]string, 0, len(l.sources))
	var sourceErrs error
	for _, src := range l.sources {
		tried = append(tried, src.Name())

		data, err := src.Fetch(ctx)
		if err == nil {
			var cat *Catalog
			if cat, err = Parse(data); err == nil {
				l.observe(src.Name(), "ok")
				log.Debugf("catalog: loaded %d exercises from [%s]", len(cat.Exercises), src.Name())
				span.SetAttributes(attribute.String("source", src.Name()))
				l.cache.Add(documentCacheKey, data)
				return cat, nil
			}
		}

		l.observe(src.Name(), "error")
		log.Warnf("catalog: source [%s] failed: %s", src.Name(), err)
		sourceErrs = multierr.Append(sourceErrs, fmt.Errorf("%s: %w", src.Name(), err))
	}

	if sourceErrs == nil {
		sourceErrs = errors.New("no sources")
	}
	return nil, &UnavailableError{
		Tried: tried,
		Errs:  sourceErrs,
	}
}

// Exercises returns the catalog exercises, used as the engine catalog provider.
func (l *Loader) Exercises(ctx context.Context) ([]training.Exercise, error) {
	cat, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Exercises, nil
}

// Reset drops the cached document so the next Load fetches it again.
func (l *Loader) Reset() {
	l.cache.Purge()
}

func (l *Loader) observe(source, result string) {
	if l.metrics == nil {
		return
	}
	l.metrics.CounterCatalogLoads.WithLabelValues(source, result).Inc()
}

// Static is a catalog provider over an already loaded list of exercises.
type Static []training.Exercise

func (s Static) Exercises(_ context.Context) ([]training.Exercise, error) {
	return s, nil
}
