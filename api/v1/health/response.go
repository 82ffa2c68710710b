package health

// Response is the health report
type Response struct {
	Code   int16             `json:"code"`
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
