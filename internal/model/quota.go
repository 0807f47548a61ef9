package model

// CompanyQuota is a read-only view into a tenant's monthly plan usage,
// returned by the remote quota RPC.
type CompanyQuota struct {
	Used      int    `json:"used"`
	Limit     *int   `json:"limit"` // nil means unlimited
	Unlimited bool   `json:"unlimited"`
	Timezone  string `json:"timezone"`
	PlanName  string `json:"plan_name,omitempty"`
}

// PercentUsed reports usage as a percentage of the limit. Unlimited plans
// always report zero.
func (q CompanyQuota) PercentUsed() float64 {
	if q.Unlimited || q.Limit == nil || *q.Limit <= 0 {
		return 0
	}
	return float64(q.Used) / float64(*q.Limit) * 100
}
