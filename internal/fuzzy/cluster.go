package fuzzy

// DefaultThreshold is the similarity a headline needs against a cluster
// representative to join that cluster.
const DefaultThreshold = 0.90

// UpdateThreshold is the similarity above which a headline is treated as an
// update of a previously seen one rather than a new event.
const UpdateThreshold = 0.92

// Item is a headline with an optional partition key. Items are only compared
// against representatives that carry the same key.
type Item struct {
	Text string
	Key  string
}

// ClusterTitles groups titles by similarity and returns clusters of input
// positions. See ClusterItems for the assignment rules.
func ClusterTitles(titles []string, threshold float64) [][]int {
	items := make([]Item, len(titles))
	for i, title := range titles {
		items[i] = Item{Text: title}
	}
	return ClusterItems(items, threshold)
}

// ClusterItems assigns every item, in input order, to the first existing
// cluster (in creation order) whose representative scores >= threshold
// against it, or starts a new cluster with the item as its permanent
// representative. Members are only compared to representatives, so cluster
// membership is not transitive.
//
// The threshold is not validated: values <= 0 merge every item sharing a key
// into one cluster and values > 1 give every item its own cluster.
func ClusterItems(items []Item, threshold float64) [][]int {
	if len(items) == 0 {
		return [][]int{}
	}

	normalized := make([]string, len(items))
	for i, item := range items {
		normalized[i] = NormalizeText(item.Text)
	}

	clusters := make([][]int, 0)
	for i := range items {
		placed := false
		for c, members := range clusters {
			rep := members[0]
			if items[rep].Key != items[i].Key {
				continue
			}
			if normalizedRatio(normalized[i], normalized[rep]) >= threshold {
				clusters[c] = append(members, i)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []int{i})
		}
	}
	return clusters
}

// FindSimilar returns the index of the first entry of existing that scores
// >= threshold against text.
func FindSimilar(text string, existing []string, threshold float64) (int, bool) {
	normalized := NormalizeText(text)
	for i, candidate := range existing {
		if scoreNormalized(text, normalized, candidate) >= threshold {
			return i, true
		}
	}
	return -1, false
}

// scoreNormalized scores raw against candidate reusing raw's normalized form
// while keeping the raw-empty rules of SimilarityRatio.
func scoreNormalized(raw, normalized, candidate string) float64 {
	if raw == "" && candidate == "" {
		return 1
	}
	if raw == "" || candidate == "" {
		return 0
	}
	return normalizedRatio(normalized, NormalizeText(candidate))
}
