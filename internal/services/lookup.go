package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"country-capital/internal/logger"
	"country-capital/internal/models"
)

// ErrEmptyQuery is returned when the submitted text normalizes to nothing.
var ErrEmptyQuery = errors.New("empty country name")

// CountryClient is the outbound side of a lookup.
type CountryClient interface {
	FetchCountry(ctx context.Context, query models.Query) (models.CountryRecord, error)
	FetchFlag(ctx context.Context, flagURL string) ([]byte, error)
}

// FlagDecoder turns downloaded flag bytes into a displayable image.
type FlagDecoder interface {
	Decode(data []byte) (image.Image, error)
}

// LookupResult is a resolved query.
type LookupResult struct {
	Query     models.Query
	Record    models.CountryRecord
	FromCache bool
	Duration  time.Duration
}

// LookupService resolves country names cache-first and fetches their flags.
type LookupService struct {
	client  CountryClient
	decoder FlagDecoder
	records models.RecordCache
	flags   *models.FlagCache
	logger  logger.Logger
}

// NewLookupService wires the service. A nil logger disables logging.
func NewLookupService(client CountryClient, decoder FlagDecoder, records models.RecordCache, flags *models.FlagCache, log logger.Logger) *LookupService {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	if flags == nil {
		flags = models.NewFlagCache()
	}
	return &LookupService{
		client:  client,
		decoder: decoder,
		records: records,
		flags:   flags,
		logger:  log,
	}
}

// Cached returns the memoized record for query without touching the network.
func (s *LookupService) Cached(query models.Query) (models.CountryRecord, bool) {
	return s.records.Get(query)
}

// CacheSize reports how many distinct queries have been resolved.
func (s *LookupService) CacheSize() int {
	return s.records.Len()
}

// Lookup normalizes raw input and resolves it.
func (s *LookupService) Lookup(ctx context.Context, raw string) (*LookupResult, error) {
	query := models.NormalizeQuery(raw)
	if query.IsEmpty() {
		return nil, ErrEmptyQuery
	}
	return s.Resolve(ctx, query)
}

// Resolve returns the record for an already normalized query, checking the cache before any request.
// Only non-empty records are stored.
func (s *LookupService) Resolve(ctx context.Context, query models.Query) (*LookupResult, error) {
	if query.IsEmpty() {
		return nil, ErrEmptyQuery
	}

	if record, found := s.records.Get(query); found {
		s.logger.Debug("LookupService", "cache hit", map[string]interface{}{
			"query": query.String(),
		})
		return &LookupResult{Query: query, Record: record, FromCache: true}, nil
	}

	s.logger.Debug("LookupService", "cache miss, fetching from API", map[string]interface{}{
		"query": query.String(),
	})

	start := time.Now()
	record, err := s.client.FetchCountry(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", query, err)
	}

	s.records.Set(query, record)
	duration := time.Since(start)

	s.logger.Info("LookupService", "country resolved", map[string]interface{}{
		"query":       query.String(),
		"capital":     record.Capital(),
		"duration_ms": duration.Milliseconds(),
		"cache_size":  s.records.Len(),
	})

	return &LookupResult{Query: query, Record: record, Duration: duration}, nil
}

// FlagBytes downloads the raw flag of the record's first entry.
func (s *LookupService) FlagBytes(ctx context.Context, record models.CountryRecord) ([]byte, error) {
	flagURL := record.FlagURL()
	if flagURL == "" {
		return nil, fmt.Errorf("no flag url for %q", record.CommonName())
	}
	return s.client.FetchFlag(ctx, flagURL)
}

// Flag returns the decoded flag of the record's first entry. Decoded flags are memoized by URL.
func (s *LookupService) Flag(ctx context.Context, record models.CountryRecord) (image.Image, error) {
	flagURL := record.FlagURL()
	if img, found := s.flags.Get(flagURL); found && flagURL != "" {
		return img, nil
	}

	data, err := s.FlagBytes(ctx, record)
	if err != nil {
		s.logger.Warning("LookupService", "flag fetch failed", map[string]interface{}{
			"url":   flagURL,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("fetch flag: %w", err)
	}

	if s.decoder == nil {
		return nil, errors.New("no flag decoder configured")
	}

	img, err := s.decoder.Decode(data)
	if err != nil {
		s.logger.Warning("LookupService", "flag decode failed", map[string]interface{}{
			"url":   flagURL,
			"bytes": len(data),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("decode flag: %w", err)
	}

	s.flags.Set(flagURL, img)
	return img, nil
}
