package dedup

import (
	"time"

	"github.com/rs/zerolog"

	"horse.fit/headline-dedup/internal/fuzzy"
	"horse.fit/headline-dedup/internal/globaltime"
	payloadschema "horse.fit/headline-dedup/schema"
)

const (
	StatusNew     = "new"
	StatusUpdated = "updated"
)

// sourceTypeRank orders corroborating sources when picking a cluster's
// primary item. Unknown or missing types rank lowest.
var sourceTypeRank = map[string]int{
	"social":       0,
	"news":         1,
	"humanitarian": 2,
	"official":     3,
}

// LanguageDetector annotates a title with an ISO 639-1 code.
type LanguageDetector interface {
	DetectISO6391(text string) string
}

type Service struct {
	logger   zerolog.Logger
	detector LanguageDetector
}

type Options struct {
	// Threshold is used when the batch does not carry its own.
	Threshold      float64
	DetectLanguage bool
}

type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Threshold   float64   `json:"threshold"`
	Keyed       bool      `json:"keyed"`
	ItemCount   int       `json:"item_count"`
	Clusters    []Cluster `json:"clusters"`
}

type Cluster struct {
	Representative int    `json:"representative"`
	Primary        int    `json:"primary"`
	Title          string `json:"title"`
	PrimaryTitle   string `json:"primary_title"`
	Key            string `json:"key,omitempty"`
	Language       string `json:"language,omitempty"`
	Size           int    `json:"size"`
	Members        []int  `json:"members"`
}

type MatchResult struct {
	Status       string  `json:"status"`
	Threshold    float64 `json:"threshold"`
	MatchedIndex *int    `json:"matched_index,omitempty"`
	MatchedTitle *string `json:"matched_title,omitempty"`
}

// NewService builds a dedup service. detector may be nil, in which case
// language annotation is skipped.
func NewService(logger zerolog.Logger, detector LanguageDetector) *Service {
	return &Service{
		logger:   logger,
		detector: detector,
	}
}

// Cluster groups the batch items and describes every cluster.
func (s *Service) Cluster(batch payloadschema.Batch, opts Options) Report {
	threshold := opts.Threshold
	if batch.Threshold != nil {
		threshold = *batch.Threshold
	}

	items := make([]fuzzy.Item, len(batch.Items))
	for i, item := range batch.Items {
		items[i] = fuzzy.Item{Text: item.Title}
		if batch.Keyed {
			items[i].Key = item.Key
		}
	}

	start := globaltime.Now()
	groups := fuzzy.ClusterItems(items, threshold)
	elapsed := globaltime.Since(start)

	clusters := make([]Cluster, 0, len(groups))
	for _, members := range groups {
		rep := members[0]
		primary := pickPrimary(batch.Items, members)
		cluster := Cluster{
			Representative: rep,
			Primary:        primary,
			Title:          batch.Items[rep].Title,
			PrimaryTitle:   batch.Items[primary].Title,
			Key:            items[rep].Key,
			Size:           len(members),
			Members:        members,
		}
		if opts.DetectLanguage && s.detector != nil {
			cluster.Language = s.detector.DetectISO6391(cluster.Title)
		}
		clusters = append(clusters, cluster)

		s.logger.Debug().
			Int("representative", rep).
			Int("primary", primary).
			Int("size", len(members)).
			Str("title", cluster.Title).
			Msg("cluster formed")
	}

	s.logger.Info().
		Int("items", len(items)).
		Int("clusters", len(clusters)).
		Float64("threshold", threshold).
		Bool("keyed", batch.Keyed).
		Dur("elapsed", elapsed).
		Msg("batch clustered")

	return Report{
		GeneratedAt: globaltime.UTC(),
		Threshold:   threshold,
		Keyed:       batch.Keyed,
		ItemCount:   len(items),
		Clusters:    clusters,
	}
}

// Match reports whether title updates one of the previously seen titles.
func (s *Service) Match(title string, previous []string, threshold float64) MatchResult {
	result := MatchResult{
		Status:    StatusNew,
		Threshold: threshold,
	}

	idx, ok := fuzzy.FindSimilar(title, previous, threshold)
	if ok {
		matched := previous[idx]
		result.Status = StatusUpdated
		result.MatchedIndex = &idx
		result.MatchedTitle = &matched
	}

	s.logger.Debug().
		Str("status", result.Status).
		Int("previous", len(previous)).
		Float64("threshold", threshold).
		Msg("headline matched")

	return result
}

// pickPrimary selects the strongest member: highest source-type rank, then
// longest body text, then earliest position.
func pickPrimary(items []payloadschema.BatchItem, members []int) int {
	best := members[0]
	for _, pos := range members[1:] {
		if outranks(items[pos], items[best]) {
			best = pos
		}
	}
	return best
}

func outranks(candidate, current payloadschema.BatchItem) bool {
	cr, br := rankOf(candidate.SourceType), rankOf(current.SourceType)
	if cr != br {
		return cr > br
	}
	return len(deref(candidate.Text)) > len(deref(current.Text))
}

func rankOf(sourceType *string) int {
	if sourceType == nil {
		return 0
	}
	return sourceTypeRank[*sourceType]
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
