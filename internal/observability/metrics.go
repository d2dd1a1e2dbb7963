package observability

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	MCartEvents          MetricKey = "cart_events_total"
	MCartSessionsOpened  MetricKey = "cart_sessions_opened_total"
	MCartSessionsExpired MetricKey = "cart_sessions_expired_total"
)
