package reddit

import "strings"

// NegativeKeywords is OR-ed with the competitor name; it is the only negativity
// signal applied to the search.
var NegativeKeywords = []string{"issue", "problem", "bug", "hate", "frustrated", "annoying"}

// BuildSearchRequest turns the scan form into a search request.
func BuildSearchRequest(competitor, subreddit, timeRange string) SearchRequest {
	return SearchRequest{
		Query:     competitor + " AND (" + strings.Join(NegativeKeywords, " OR ") + ")",
		Subreddit: subreddit,
		TimeRange: TimeRange(timeRange),
		Limit:     DefaultLimit,
	}
}

// TimeFilter maps the time range onto Reddit's `t` vocabulary. Reddit has no
// six month bucket, so "6" widens to a year.
func (r SearchRequest) TimeFilter() string {
	switch r.TimeRange {
	case TimeRangeMonth:
		return "month"
	case TimeRangeQuarter:
		return "quarter"
	case TimeRangeHalf, TimeRangeYear:
		return "year"
	default:
		return "quarter"
	}
}

// FullQuery is the free-text query sent upstream. The subreddit restriction
// lives inside the query, not in a separate parameter.
func (r SearchRequest) FullQuery() string {
	if r.Subreddit == "" {
		return r.Query
	}
	return r.Query + " subreddit:" + r.Subreddit
}
