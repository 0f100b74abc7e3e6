package model

// Subscription states reported by the dashboard endpoint.
const (
	SubscriptionNone    = "none"
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// Bucket is a named category within a user's dashboard.
type Bucket string

const (
	BucketFavorites    Bucket = "favorites"
	BucketPlanning     Bucket = "planning_to_apply"
	BucketApplied      Bucket = "applied"
	BucketAccepted     Bucket = "accepted"
	BucketVisaApproved Bucket = "visa_approved"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{
	BucketFavorites,
	BucketPlanning,
	BucketApplied,
	BucketAccepted,
	BucketVisaApproved,
}

// bucketLabels maps backend bucket keys to user-facing labels. The mapping
// is a fixed table, never inferred from the key.
var bucketLabels = map[Bucket]string{
	BucketFavorites:    "Favorites",
	BucketPlanning:     "Planning to Apply",
	BucketApplied:      "Applied",
	BucketAccepted:     "Accepted",
	BucketVisaApproved: "Visa Approved",
}

// Label returns the user-facing name of the bucket.
func (b Bucket) Label() string {
	if l, ok := bucketLabels[b]; ok {
		return l
	}
	return string(b)
}

// ParseBucket resolves a backend key or user-facing label to a Bucket.
func ParseBucket(s string) (Bucket, bool) {
	for b, label := range bucketLabels {
		if s == string(b) || s == label {
			return b, true
		}
	}
	return "", false
}

// Dashboard is the per-user record holding the five bucket lists and the
// subscription sub-record.
type Dashboard struct {
	Favorites           []University `json:"favorites"`
	PlanningToApply     []University `json:"planning_to_apply"`
	Applied             []University `json:"applied"`
	Accepted            []University `json:"accepted"`
	VisaApproved        []University `json:"visa_approved"`
	SubscriptionStatus  string       `json:"subscription_status"`
	SubscriptionEndDate string       `json:"subscription_end_date,omitempty"`
}

// List returns the universities in the given bucket.
func (d *Dashboard) List(b Bucket) []University {
	switch b {
	case BucketFavorites:
		return d.Favorites
	case BucketPlanning:
		return d.PlanningToApply
	case BucketApplied:
		return d.Applied
	case BucketAccepted:
		return d.Accepted
	case BucketVisaApproved:
		return d.VisaApproved
	}
	return nil
}

// Contains reports whether the bucket already holds the university.
func (d *Dashboard) Contains(b Bucket, universityID int) bool {
	for _, u := range d.List(b) {
		if u.ID == universityID {
			return true
		}
	}
	return false
}
