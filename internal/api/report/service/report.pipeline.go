package reportsvc

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
)

// Query là phạm vi dữ liệu của một phép tổng hợp: collection, filter gốc và khoảng thời gian
type Query struct {
	Collection string
	Match      bson.M
	TimeField  string
	Range      TimeRange
}

// On tạo Query cho collection
func On(collection string) Query {
	return Query{Collection: collection, TimeField: "createdAt"}
}

// Where gán filter gốc
func (q Query) Where(match bson.M) Query {
	q.Match = match
	return q
}

// Between gán khoảng thời gian lọc trên field
func (q Query) Between(field string, r TimeRange) Query {
	q.TimeField = field
	q.Range = r
	return q
}

// MatchFilter gộp Match và TimeRange thành một filter. Thời gian lưu dạng Unix milli.
func (q Query) MatchFilter() bson.M {
	m := bson.M{}
	for k, v := range q.Match {
		m[k] = v
	}
	if !q.Range.IsZero() && q.TimeField != "" {
		cond := bson.M{}
		if q.Range.Start != nil {
			cond["$gte"] = q.Range.Start.UnixMilli()
		}
		if q.Range.End != nil {
			cond["$lte"] = q.Range.End.UnixMilli()
		}
		m[q.TimeField] = cond
	}
	return m
}

func (q Query) matchStage() bson.D {
	return bson.D{{Key: "$match", Value: q.MatchFilter()}}
}

// groupIDExpr sinh biểu thức _id cho $group. Thiếu key (hoặc null) gom chung nhóm "" như bản in-memory.
func groupIDExpr(key GroupKey) interface{} {
	if key.Granularity == "" {
		return bson.M{"$ifNull": bson.A{"$" + key.Field, ""}}
	}
	_, format, _ := key.Granularity.layout()
	return bson.M{"$dateToString": bson.M{
		"format":   format,
		"date":     bson.M{"$toDate": "$" + key.Field},
		"timezone": "UTC",
	}}
}

// presenceStages loại document thiếu trường thời gian khi nhóm theo bucket
func presenceStages(key GroupKey) []bson.D {
	if key.Granularity == "" {
		return nil
	}
	return []bson.D{{{Key: "$match", Value: bson.M{key.Field: bson.M{"$exists": true, "$ne": nil}}}}}
}

func sortByKey() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}}
}

func withMatch(q Query, stages []bson.D) mongo.Pipeline {
	p := mongo.Pipeline{q.matchStage()}
	return append(p, stages...)
}

// GroupCountStages: $group đếm theo key rồi sắp _id tăng dần
func GroupCountStages(key GroupKey) ([]bson.D, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	stages := presenceStages(key)
	stages = append(stages,
		bson.D{{Key: "$group", Value: bson.M{"_id": groupIDExpr(key), "count": bson.M{"$sum": 1}}}},
		sortByKey(),
	)
	return stages, nil
}

// GroupCountPipeline là pipeline đầy đủ của GroupCount
func GroupCountPipeline(q Query, key GroupKey) (mongo.Pipeline, error) {
	stages, err := GroupCountStages(key)
	if err != nil {
		return nil, err
	}
	return withMatch(q, stages), nil
}

// TopNPipeline: đếm, sắp {count:-1, _id:1}, limit n, rồi $lookup nếu có join
func TopNPipeline(q Query, key GroupKey, n int, join *JoinSpec) (mongo.Pipeline, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, common.BadRequest("Limit must be positive", nil)
	}
	stages := presenceStages(key)
	stages = append(stages,
		bson.D{{Key: "$group", Value: bson.M{"_id": groupIDExpr(key), "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: n}},
	)
	if join != nil {
		if join.From == "" {
			return nil, common.BadRequest("Join collection is required", nil)
		}
		stages = append(stages,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         join.From,
				"localField":   "_id",
				"foreignField": "_id",
				"as":           "joined",
			}}},
			bson.D{{Key: "$project", Value: bson.M{
				"count":  1,
				"joined": bson.M{"$arrayElemAt": bson.A{"$joined", 0}},
			}}},
			// $lookup không giữ thứ tự đảm bảo, sắp lại
			bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		)
	}
	return withMatch(q, stages), nil
}

// TimeBucketPipeline là GroupCount theo bucket thời gian
func TimeBucketPipeline(q Query, field string, g Granularity) (mongo.Pipeline, error) {
	if g == "" {
		return nil, common.BadRequest("Granularity is required", nil)
	}
	return GroupCountPipeline(q, ByTime(field, g))
}

// fieldAlias tên tạm cho trường trong $group (không được chứa dấu chấm)
func fieldAlias(i int) string {
	return fmt.Sprintf("f%d", i)
}

func accumulatorStages(key GroupKey, fields []string, op string) ([]bson.D, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, common.BadRequest("At least one field is required", nil)
	}
	group := bson.M{"_id": groupIDExpr(key), "count": bson.M{"$sum": 1}}
	for i, f := range fields {
		group[fieldAlias(i)] = bson.M{op: "$" + f}
	}
	stages := presenceStages(key)
	return append(stages, bson.D{{Key: "$group", Value: group}}, sortByKey()), nil
}

// AverageStages dùng $avg: bỏ qua giá trị thiếu/không phải số, trả null nếu không có giá trị nào
func AverageStages(key GroupKey, fields []string) ([]bson.D, error) {
	return accumulatorStages(key, fields, "$avg")
}

// AveragePipeline là pipeline đầy đủ của AverageByGroup
func AveragePipeline(q Query, key GroupKey, fields []string) (mongo.Pipeline, error) {
	stages, err := AverageStages(key, fields)
	if err != nil {
		return nil, err
	}
	return withMatch(q, stages), nil
}

// SumStages dùng $sum
func SumStages(key GroupKey, fields []string) ([]bson.D, error) {
	return accumulatorStages(key, fields, "$sum")
}

// SumPipeline là pipeline đầy đủ của SumByGroup
func SumPipeline(q Query, key GroupKey, fields []string) (mongo.Pipeline, error) {
	stages, err := SumStages(key, fields)
	if err != nil {
		return nil, err
	}
	return withMatch(q, stages), nil
}

// ConditionalSumStages: total = $sum 1, matched = $sum $cond(field == value)
func ConditionalSumStages(key GroupKey, pred Predicate) ([]bson.D, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if pred.Field == "" {
		return nil, common.BadRequest("Predicate field is required", nil)
	}
	stages := presenceStages(key)
	return append(stages,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   groupIDExpr(key),
			"total": bson.M{"$sum": 1},
			"matched": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$" + pred.Field, pred.Value}}, 1, 0,
			}}},
		}}},
		sortByKey(),
	), nil
}

// ConditionalSumPipeline là pipeline đầy đủ của ConditionalSum
func ConditionalSumPipeline(q Query, key GroupKey, pred Predicate) (mongo.Pipeline, error) {
	stages, err := ConditionalSumStages(key, pred)
	if err != nil {
		return nil, err
	}
	return withMatch(q, stages), nil
}

// FacetPipeline chạy nhiều sub-pipeline trên cùng filter trong một $facet
func FacetPipeline(q Query, facets map[string][]bson.D) (mongo.Pipeline, error) {
	if len(facets) == 0 {
		return nil, common.BadRequest("At least one facet is required", nil)
	}
	names := make([]string, 0, len(facets))
	for name := range facets {
		names = append(names, name)
	}
	sort.Strings(names)

	facet := bson.D{}
	for _, name := range names {
		stages := facets[name]
		if len(stages) == 0 {
			return nil, common.BadRequest(fmt.Sprintf("Facet %s has no stages", name), nil)
		}
		sub := bson.A{}
		for _, st := range stages {
			sub = append(sub, st)
		}
		facet = append(facet, bson.E{Key: name, Value: sub})
	}
	return mongo.Pipeline{q.matchStage(), {{Key: "$facet", Value: facet}}}, nil
}
