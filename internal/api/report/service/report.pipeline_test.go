package reportsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestQuery_MatchFilterAddsRangeInMillis(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := On("ideas").Where(bson.M{"status": "approved"}).Between("createdAt", TimeRange{Start: &start})

	m := q.MatchFilter()
	assert.Equal(t, "approved", m["status"])
	assert.Equal(t, bson.M{"$gte": start.UnixMilli()}, m["createdAt"])

	// Match gốc không bị sửa
	assert.NotContains(t, q.Match, "createdAt")
}

func TestTopNPipeline_SortsCountDescThenKeyAsc(t *testing.T) {
	p, err := TopNPipeline(On("activities"), ByField("user"), 10, &JoinSpec{From: "users", Fields: []string{"name"}})
	require.NoError(t, err)

	var sawSort, sawLookup, sawLimit bool
	for _, stage := range p {
		switch stage[0].Key {
		case "$sort":
			if !sawSort {
				assert.Equal(t, bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}, stage[0].Value)
			}
			sawSort = true
		case "$limit":
			sawLimit = true
			assert.Equal(t, 10, stage[0].Value)
		case "$lookup":
			sawLookup = true
			assert.Equal(t, "users", stage[0].Value.(bson.M)["from"])
		}
	}
	assert.True(t, sawSort && sawLimit && sawLookup)

	_, err = TopNPipeline(On("activities"), ByField("user"), 0, nil)
	assert.Error(t, err)
}

func TestGroupCountPipeline_TimeBucketUsesUTCDateToString(t *testing.T) {
	p, err := TimeBucketPipeline(On("ideas"), "createdAt", GranularityMonth)
	require.NoError(t, err)
	require.Len(t, p, 4) // match, presence, group, sort

	group := p[2][0].Value.(bson.M)
	expr := group["_id"].(bson.M)["$dateToString"].(bson.M)
	assert.Equal(t, "%Y-%m", expr["format"])
	assert.Equal(t, "UTC", expr["timezone"])

	_, err = TimeBucketPipeline(On("ideas"), "createdAt", "")
	assert.Error(t, err)
}

func TestConditionalSumPipeline_UsesCond(t *testing.T) {
	p, err := ConditionalSumPipeline(On("ideas"), ByField("department"), Predicate{Field: "status", Value: "implemented"})
	require.NoError(t, err)
	group := p[1][0].Value.(bson.M)
	matched := group["matched"].(bson.M)["$sum"].(bson.M)
	assert.Contains(t, matched, "$cond")
}

func TestAveragePipeline_AliasesFields(t *testing.T) {
	p, err := AveragePipeline(On("campaign_metrics"), ByTime("timestamp", GranularityDay), []string{"reach", "channelMetrics.email"})
	require.NoError(t, err)
	group := p[2][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$avg": "$reach"}, group["f0"])
	assert.Equal(t, bson.M{"$avg": "$channelMetrics.email"}, group["f1"])

	_, err = AveragePipeline(On("x"), ByField("k"), nil)
	assert.Error(t, err)
}

func TestFacetPipeline(t *testing.T) {
	byStatus, err := GroupCountStages(ByField("status"))
	require.NoError(t, err)
	p, err := FacetPipeline(On("trainings"), map[string][]bson.D{"byStatus": byStatus})
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, "$facet", p[1][0].Key)

	_, err = FacetPipeline(On("trainings"), nil)
	assert.Error(t, err)
}
