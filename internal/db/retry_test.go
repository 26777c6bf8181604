package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sahil-lab/realEstate/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mockDuplicateKeyError builds the error MongoDB returns for a unique index violation.
func mockDuplicateKeyError(index, key string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: test.collection index: %s dup key: { : \"%s\" }", index, key),
	}}}
}

func TestWithRetries_SuccessfulFirstAttempt(t *testing.T) {
	var opCalled int
	err := WithRetries(func() error {
		opCalled++
		return nil
	}, 3, IsMongoDuplicateKeyError)

	assert.NoError(t, err)
	assert.Equal(t, 1, opCalled)
}

func TestWithRetries_FailureNonDuplicateKey(t *testing.T) {
	var opCalled int
	expectedErr := errors.New("some other error")
	err := WithRetries(func() error {
		opCalled++
		return expectedErr
	}, 3, IsMongoDuplicateKeyError)

	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 1, opCalled)
}

func TestWithRetries_ExhaustRetries(t *testing.T) {
	var opCalled int
	maxRetries := 3
	err := WithRetries(func() error {
		opCalled++
		return mockDuplicateKeyError("_id_", "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	}, maxRetries, IsMongoDuplicateKeyError)

	require.Error(t, err)
	assert.True(t, IsMongoDuplicateKeyError(err))
	assert.Equal(t, maxRetries+1, opCalled)
}

func TestTry_CollisionResolves(t *testing.T) {
	originalHook := utils.NewIDHook
	defer func() { utils.NewIDHook = originalHook }()

	id1 := "01ARZ3NDEKTSV4RRFFQ69G5FA1"
	id2 := "01ARZ3NDEKTSV4RRFFQ69G5FA2"
	idsToReturn := []string{id1, id1, id2}
	hookCallCount := 0
	utils.NewIDHook = func() (string, bool) {
		if hookCallCount < len(idsToReturn) {
			id := idsToReturn[hookCallCount]
			hookCallCount++
			return id, true
		}
		return "", false
	}

	inserted := map[string]bool{}
	var opCalled int
	err := Try(func() error {
		opCalled++
		id := utils.NewID()
		if inserted[id] {
			return mockDuplicateKeyError("_id_", id)
		}
		inserted[id] = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, opCalled)

	// second insert collides once on id1, then succeeds with id2
	err = Try(func() error {
		opCalled++
		id := utils.NewID()
		if inserted[id] {
			return mockDuplicateKeyError("_id_", id)
		}
		inserted[id] = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, opCalled)
	assert.Equal(t, 3, hookCallCount)
	assert.Len(t, inserted, 2)
}

func TestTry_SecondaryIndexNotRetried(t *testing.T) {
	var opCalled int
	err := Try(func() error {
		opCalled++
		return mockDuplicateKeyError("user_property_unique", "u1")
	})
	require.Error(t, err)
	assert.True(t, IsMongoDuplicateKeyError(err))
	assert.False(t, IsDuplicateIDError(err))
	assert.Equal(t, 1, opCalled)

	// key values that happen to contain "_id_" are not an _id collision
	opCalled = 0
	err = Try(func() error {
		opCalled++
		return mockDuplicateKeyError("user_property_unique", "user_id_7")
	})
	require.Error(t, err)
	assert.False(t, IsDuplicateIDError(err))
	assert.Equal(t, 1, opCalled)
}

func TestIsDuplicateIDError_KeyPattern(t *testing.T) {
	withPattern := func(pattern bson.D, value string) error {
		raw, err := bson.Marshal(bson.D{
			{Key: "code", Value: 11000},
			{Key: "keyPattern", Value: pattern},
		})
		require.NoError(t, err)
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: fmt.Sprintf("E11000 duplicate key error collection: test.favorites dup key: { : \"%s\" }", value),
			Raw:     raw,
		}}}
	}

	assert.True(t, IsDuplicateIDError(withPattern(bson.D{{Key: "_id", Value: 1}}, "01ARZ3NDEKTSV4RRFFQ69G5FAV")))
	assert.False(t, IsDuplicateIDError(withPattern(
		bson.D{{Key: "userId", Value: 1}, {Key: "propertyId", Value: 1}}, "user_id_7")))
	assert.False(t, IsDuplicateIDError(withPattern(bson.D{{Key: "uid", Value: 1}}, "_id_")))
}

func TestDuplicateKeyIndex(t *testing.T) {
	assert.Equal(t, "_id_", duplicateKeyIndex("E11000 duplicate key error collection: db.c index: _id_ dup key: { _id: \"x_id_\" }"))
	assert.Equal(t, "userId_1_propertyId_1", duplicateKeyIndex("E11000 duplicate key error collection: db.favorites index: userId_1_propertyId_1 dup key: { userId: \"user_id_7\" }"))
	assert.Equal(t, "", duplicateKeyIndex("E11000 duplicate key error"))
}

func TestIsMongoDuplicateKeyError(t *testing.T) {
	assert.False(t, IsMongoDuplicateKeyError(nil))
	assert.False(t, IsMongoDuplicateKeyError(errors.New("boom")))
	assert.True(t, IsMongoDuplicateKeyError(mongo.CommandError{Code: 11000}))
	assert.True(t, IsMongoDuplicateKeyError(mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Code: 11000}}},
	}))
	assert.True(t, IsMongoDuplicateKeyError(fmt.Errorf("wrapped: %w", mockDuplicateKeyError("_id_", "x"))))
}
