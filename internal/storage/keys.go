// Package storage holds the object-storage backends and the retry wrapper around them.
package storage

import (
	"fmt"
	"github.com/google/uuid"
)

// ObjectKey : every upload gets a fresh key, so a retried put never overwrites another version
func ObjectKey(ownerID, fileID string) string {
	return fmt.Sprintf("users/%s/files/%s/%s", ownerID, fileID, uuid.NewString())
}
