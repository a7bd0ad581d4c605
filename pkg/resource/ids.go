package resource

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewObjectID returns a fresh 24-character hex object id. Ids embed a
// timestamp, the process identity and a counter, so they are unique across
// concurrent exports.
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}
