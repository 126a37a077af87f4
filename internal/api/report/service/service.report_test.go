package reportsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
)

func seed(t *testing.T, svc *ReportService, collection string, recs []Record) {
	t.Helper()
	docs := make([]interface{}, 0, len(recs))
	for _, r := range recs {
		docs = append(docs, bson.M(r))
	}
	_, err := svc.store.Collection(collection).InsertMany(context.Background(), docs)
	require.NoError(t, err)
}

func TestReportService_PipelinesMatchInMemory(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	svc := NewReportService(store)
	ctx := context.Background()

	ideas := append(sampleIdeas(), Record{"status": "pending", "department": "Sales", "voteCount": int64(1), "createdAt": ms("2024-02-03T08:00:00Z")})
	seed(t, svc, "ideas", ideas)
	q := On("ideas")

	t.Run("group count", func(t *testing.T) {
		got, err := svc.RunGroupCount(ctx, q, ByField("status"))
		require.NoError(t, err)
		want, _ := GroupCount(ideas, ByField("status"))
		assert.Equal(t, want, got)
	})

	t.Run("percentage", func(t *testing.T) {
		got, err := svc.RunGroupCountWithPercentage(ctx, q, ByField("department"))
		require.NoError(t, err)
		want, _ := GroupCountWithPercentage(ideas, ByField("department"))
		assert.Equal(t, want, got)
	})

	t.Run("month buckets", func(t *testing.T) {
		got, err := svc.RunTimeBuckets(ctx, q, "createdAt", GranularityMonth)
		require.NoError(t, err)
		want, _ := TimeBucketedCount(ideas, "createdAt", GranularityMonth)
		assert.Equal(t, want, got)
	})

	t.Run("day buckets", func(t *testing.T) {
		got, err := svc.RunTimeBuckets(ctx, q, "createdAt", GranularityDay)
		require.NoError(t, err)
		want, _ := TimeBucketedCount(ideas, "createdAt", GranularityDay)
		assert.Equal(t, want, got)
	})

	t.Run("average with nil mean", func(t *testing.T) {
		got, err := svc.RunAverageByGroup(ctx, q, ByField("status"), []string{"voteCount", "missing"})
		require.NoError(t, err)
		want, _ := AverageByGroup(ideas, ByField("status"), []string{"voteCount", "missing"})
		assert.Equal(t, want, got)
		for _, g := range got {
			assert.Nil(t, g.Averages["missing"])
		}
	})

	t.Run("conditional sum", func(t *testing.T) {
		pred := Predicate{Field: "status", Value: "implemented"}
		got, err := svc.RunConditionalSum(ctx, q, ByField("department"), pred)
		require.NoError(t, err)
		want, _ := ConditionalSum(ideas, ByField("department"), pred)
		assert.Equal(t, want, got)
	})

	t.Run("sum", func(t *testing.T) {
		got, err := svc.RunSumByGroup(ctx, q, ByField("department"), []string{"voteCount"})
		require.NoError(t, err)
		want, _ := SumByGroup(ideas, ByField("department"), []string{"voteCount"})
		assert.Equal(t, want, got)
	})

	t.Run("facets", func(t *testing.T) {
		byStatus, err := GroupCountStages(ByField("status"))
		require.NoError(t, err)
		byDept, err := GroupCountStages(ByField("department"))
		require.NoError(t, err)
		res, err := svc.RunFacets(ctx, q.Where(bson.M{"department": "Sales"}), map[string][]bson.D{
			"byStatus":     byStatus,
			"byDepartment": byDept,
		})
		require.NoError(t, err)
		require.Len(t, res["byStatus"], 1)
		assert.Equal(t, "pending", res["byStatus"][0]["_id"])
		require.Len(t, res["byDepartment"], 1)
	})

	t.Run("count and load records", func(t *testing.T) {
		n, err := svc.Count(ctx, q.Where(bson.M{"department": "Eng"}))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		recs, err := svc.LoadRecords(ctx, q, nil)
		require.NoError(t, err)
		assert.Equal(t, InsightSummary(ideas).Lines, InsightSummary(recs).Lines)
	})

	t.Run("invalid spec", func(t *testing.T) {
		_, err := svc.RunGroupCount(ctx, q, ByField(""))
		assert.Error(t, err)
		_, err = svc.RunTimeBuckets(ctx, q, "createdAt", "fortnight")
		assert.Error(t, err)
	})
}

func TestReportService_TopNWithJoin(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	svc := NewReportService(store)
	ctx := context.Background()

	ann := primitive.NewObjectID()
	ben := primitive.NewObjectID()
	ghost := primitive.NewObjectID()
	seed(t, svc, "users", []Record{
		{"_id": ann, "name": "Ann", "department": "Eng"},
		{"_id": ben, "name": "Ben", "department": "Sales"},
	})
	acts := []Record{
		{"user": ann, "type": "vote"}, {"user": ann, "type": "comment"},
		{"user": ben, "type": "vote"}, {"user": ben, "type": "vote"},
		{"user": ghost, "type": "vote"},
	}
	seed(t, svc, "activities", acts)

	join := &JoinSpec{From: "users", Fields: []string{"name", "department"}}
	got, err := svc.RunTopN(ctx, On("activities"), ByField("user"), 10, join)
	require.NoError(t, err)

	joined := map[string]Record{
		ann.Hex(): {"name": "Ann", "department": "Eng"},
		ben.Hex(): {"name": "Ben", "department": "Sales"},
	}
	want, _ := TopNByCount(acts, ByField("user"), 10, join, joined)
	assert.Equal(t, want, got)
	assert.Nil(t, got[2].Fields["name"])

	empty, err := svc.RunTopN(ctx, On("activities"), ByField("user"), 0, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReportService_MissingKeyMergesWithEmpty(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	svc := NewReportService(store)
	ctx := context.Background()

	recs := []Record{
		{"status": "pending", "voteCount": int64(2)},
		{"status": "pending", "department": "", "voteCount": int64(4)},
		{"status": "approved", "department": nil, "voteCount": int64(6)},
		{"status": "implemented", "department": "Eng", "voteCount": int64(1)},
	}
	seed(t, svc, "ideas", recs)
	q := On("ideas")

	counts, err := svc.RunGroupCount(ctx, q, ByField("department"))
	require.NoError(t, err)
	want, _ := GroupCount(recs, ByField("department"))
	assert.Equal(t, want, counts)
	require.Len(t, counts, 2)
	assert.Equal(t, "", counts[0].Key)
	assert.EqualValues(t, 3, counts[0].Count)

	top, err := svc.RunTopN(ctx, q, ByField("department"), 5, nil)
	require.NoError(t, err)
	wantTop, _ := TopNByCount(recs, ByField("department"), 5, nil, nil)
	assert.Equal(t, wantTop, top)

	avgs, err := svc.RunAverageByGroup(ctx, q, ByField("department"), []string{"voteCount"})
	require.NoError(t, err)
	wantAvg, _ := AverageByGroup(recs, ByField("department"), []string{"voteCount"})
	assert.Equal(t, wantAvg, avgs)
	require.Len(t, avgs, 2)
	require.NotNil(t, avgs[0].Averages["voteCount"])
	assert.InDelta(t, 4.0, *avgs[0].Averages["voteCount"], 1e-9)
}

func TestRunConcurrently_FirstErrorFails(t *testing.T) {
	res, err := RunConcurrently(context.Background(), map[string]Job{
		"a": func(context.Context) (interface{}, error) { return 1, nil },
		"b": func(context.Context) (interface{}, error) { return 2, nil },
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, res)

	_, err = RunConcurrently(context.Background(), map[string]Job{
		"ok":  func(context.Context) (interface{}, error) { return 1, nil },
		"bad": func(context.Context) (interface{}, error) { _, e := GroupCount(nil, ByField("")); return nil, e },
	})
	assert.Error(t, err)
}
