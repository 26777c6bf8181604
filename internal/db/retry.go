package db

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// IsDuplicateKeyError is a function that checks if an error is a duplicate key error.
type IsDuplicateKeyError func(err error) bool

const DefaultMaxRetries = 3

// Try executes an operation with default retry settings for _id collisions.
// It uses DefaultMaxRetries and IsDuplicateIDError.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsDuplicateIDError)
}

// WithRetries runs op, retrying up to maxRetries more times while it fails with
// a duplicate key error. Inserts that generate a fresh ID inside op use this to
// ride out ID collisions. Any other error is returned immediately.
func WithRetries(op Operation, maxRetries int, isDuplicateKey IsDuplicateKeyError) error {
	var err error
	// Loop for initial attempt (attempt = 0) + maxRetries
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil // Success
		}

		if attempt == maxRetries {
			break
		}

		if isDuplicateKey(err) {
			time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
		} else {
			return err // Not a duplicate key error, return immediately
		}
	}
	return err // All attempts failed or last attempt failed
}

// IsMongoDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
// It covers single writes, bulk writes and command errors.
func IsMongoDuplicateKeyError(err error) bool {
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	// Also check for BulkWriteException, which can contain duplicate key errors
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, writeError := range bwe.WriteErrors {
			if writeError.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}

// IsDuplicateIDError reports whether err is a duplicate key violation on _id.
// Unique secondary indexes (e.g. favorites) must not be retried with a new ID.
func IsDuplicateIDError(err error) bool {
	if !IsMongoDuplicateKeyError(err) {
		return false
	}
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == 11000 && violatesIDIndex(we) {
				return true
			}
		}
	}
	return false
}

// violatesIDIndex decides from the server's keyPattern when present, else
// from the index name in the message. Key values are never inspected.
func violatesIDIndex(we mongo.WriteError) bool {
	if kp, err := we.Raw.LookupErr("keyPattern"); err == nil {
		if doc, ok := kp.DocumentOK(); ok {
			elems, err := doc.Elements()
			return err == nil && len(elems) == 1 && elems[0].Key() == "_id"
		}
	}
	return duplicateKeyIndex(we.Message) == "_id_"
}

// duplicateKeyIndex extracts the index name from an E11000 message such as
// "E11000 duplicate key error collection: db.c index: _id_ dup key: { ... }".
func duplicateKeyIndex(msg string) string {
	const marker = " index: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexByte(rest, ' '); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
