package dashboard

// Stats is the aggregate snapshot rendered by the dashboard endpoint.
// Period counts use the caller's local wall clock: "today" starts at
// local midnight, "this week" on the most recent Monday, "this month"
// on the first of the month.
type Stats struct {
	TotalCorrespondences int64            `json:"total_correspondences"`
	IncomingCount        int64            `json:"incoming_count"`
	OutgoingCount        int64            `json:"outgoing_count"`
	ByStatus             map[string]int64 `json:"by_status"`
	PendingReview        int64            `json:"pending_review"`
	TodayCount           int64            `json:"today_count"`
	WeekCount            int64            `json:"week_count"`
	MonthCount           int64            `json:"month_count"`
	ActiveEntities       int64            `json:"active_entities"`
	ActiveUsers          int64            `json:"active_users"`
	CompletionRate       float64          `json:"completion_rate"`
}
