package model

import "time"

type Quota struct {
	OwnerID      string    `db:"owner_id" json:"owner_id"`
	StorageUsed  int64     `db:"storage_used" json:"storage_used"`
	StorageLimit int64     `db:"storage_limit" json:"storage_limit"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (q *Quota) Available() int64 {
	if q.StorageUsed >= q.StorageLimit {
		return 0
	}
	return q.StorageLimit - q.StorageUsed
}

func (q *Quota) Allows(delta int64) bool {
	return delta <= 0 || q.StorageUsed+delta <= q.StorageLimit
}
