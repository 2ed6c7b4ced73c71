package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Refresh outcome values.
const (
	RefreshStatusSuccess = "success"
	RefreshStatusFailed  = "failed"
)

// RefreshEvent records one forced refresh of the content cache.
//
// @Description Journal entry describing a cache refresh
type RefreshEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Status     string             `bson:"status" json:"status" example:"success"`
	RequestID  string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Pages      int                `bson:"pages" json:"pages" example:"42"`
	Tags       int                `bson:"tags" json:"tags" example:"7"`
	Duration   int64              `bson:"duration_ms" json:"duration_ms" example:"350"`
	Generation uint64             `bson:"generation,omitempty" json:"generation,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
} // @name RefreshEvent

// Succeeded reports whether the refresh replaced the cache contents.
func (e *RefreshEvent) Succeeded() bool {
	return e.Status == RefreshStatusSuccess
}
