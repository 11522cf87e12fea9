package ports

type BookmarkMetrics interface {
	RecordBookmarked(mode string)
	RecordRestored()
	RecordFailure(stage string)
}
