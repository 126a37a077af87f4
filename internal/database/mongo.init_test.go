package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type indexedModel struct {
	Email      string `bson:"email" index:"unique,sparse"`
	Department string `bson:"department" index:"single;compound:dept_status"`
	Status     string `bson:"status,omitempty" index:"compound:dept_status"`
	CreatedAt  int64  `bson:"createdAt" index:"single,order:-1"`
	ExpiresAt  int64  `bson:"expiresAt" index:"ttl:0"`
	Title      string `bson:"title" index:"text"`
	Ignored    string `bson:"-" index:"single"`
	Plain      string `bson:"plain"`
}

func TestParseIndexSpecs(t *testing.T) {
	specs, err := parseIndexSpecs(&indexedModel{})
	require.NoError(t, err)

	byName := map[string]indexSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}
	assert.Len(t, byName, 6)

	email := byName["email_unique"]
	assert.True(t, email.Unique)
	assert.True(t, email.Sparse)

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, byName["createdAt_single"].Keys)
	assert.Equal(t, bson.D{{Key: "department", Value: 1}}, byName["department_single"].Keys)

	compound := byName["dept_status"]
	assert.Equal(t, bson.D{{Key: "department", Value: 1}, {Key: "status", Value: 1}}, compound.Keys)
	assert.False(t, compound.Unique)

	ttl := byName["expiresAt_ttl"]
	require.NotNil(t, ttl.TTL)
	assert.Equal(t, int32(0), *ttl.TTL)

	assert.Equal(t, bson.D{{Key: "title", Value: "text"}}, byName["title_text"].Keys)
}

func TestParseIndexSpecs_InvalidTTL(t *testing.T) {
	type bad struct {
		At int64 `bson:"at" index:"ttl:soon"`
	}
	_, err := parseIndexSpecs(bad{})
	assert.Error(t, err)
}

func TestSameIndex(t *testing.T) {
	spec := indexSpec{Name: "email_unique", Keys: bson.D{{Key: "email", Value: 1}}, Unique: true}

	assert.True(t, sameIndex(bson.M{"key": bson.M{"email": int32(1)}, "unique": true}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"email": int32(1)}}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"email": int32(-1)}, "unique": true}, spec))
}
