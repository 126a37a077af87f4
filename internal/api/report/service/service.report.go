package reportsvc

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// ReportService thực thi các pipeline tổng hợp trên Store
type ReportService struct {
	store *database.Store
}

// NewReportService tạo ReportService
func NewReportService(store *database.Store) *ReportService {
	return &ReportService{store: store}
}

// queryError: mọi lỗi từ store khi tổng hợp đều là DB_002 (500)
func queryError(collection string, err error) error {
	logger.WithModuleAndCollection("report", collection).WithError(err).Error("Aggregation failed")
	return common.WrapError(common.ErrCodeDatabaseQuery, common.MsgDatabaseError, common.StatusInternalServerError, err)
}

func (s *ReportService) aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := s.store.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return queryError(collection, err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return queryError(collection, err)
	}
	return nil
}

type groupRow struct {
	ID    interface{} `bson:"_id"`
	Count int64       `bson:"count"`
}

func toGroupCounts(rows []groupRow) []GroupCount {
	out := make([]GroupCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, GroupCount{Key: KeyString(r.ID), Count: r.Count})
	}
	return out
}

// RunGroupCount thực thi GroupCountPipeline
func (s *ReportService) RunGroupCount(ctx context.Context, q Query, key GroupKey) ([]GroupCount, error) {
	pipeline, err := GroupCountPipeline(q, key)
	if err != nil {
		return nil, err
	}
	var rows []groupRow
	if err := s.aggregate(ctx, q.Collection, pipeline, &rows); err != nil {
		return nil, err
	}
	return toGroupCounts(rows), nil
}

// RunGroupCountWithPercentage thực thi GroupCount rồi tính phần trăm trên tổng
func (s *ReportService) RunGroupCountWithPercentage(ctx context.Context, q Query, key GroupKey) ([]GroupPercentage, error) {
	counts, err := s.RunGroupCount(ctx, q, key)
	if err != nil {
		return nil, err
	}
	return withPercentage(counts), nil
}

// RunTopN thực thi TopNPipeline. n <= 0 trả về danh sách rỗng, không truy vấn.
func (s *ReportService) RunTopN(ctx context.Context, q Query, key GroupKey, n int, join *JoinSpec) ([]TopEntry, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return []TopEntry{}, nil
	}
	pipeline, err := TopNPipeline(q, key, n, join)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID     interface{} `bson:"_id"`
		Count  int64       `bson:"count"`
		Joined bson.M      `bson:"joined"`
	}
	if err := s.aggregate(ctx, q.Collection, pipeline, &rows); err != nil {
		return nil, err
	}
	out := make([]TopEntry, 0, len(rows))
	for _, r := range rows {
		entry := TopEntry{Key: KeyString(r.ID), Count: r.Count}
		if join != nil {
			entry.Fields = make(map[string]interface{}, len(join.Fields))
			for _, f := range join.Fields {
				var v interface{}
				if r.Joined != nil {
					v, _ = lookup(Record(r.Joined), f)
				}
				entry.Fields[f] = v
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// RunTimeBuckets thực thi TimeBucketPipeline
func (s *ReportService) RunTimeBuckets(ctx context.Context, q Query, field string, g Granularity) ([]Bucket, error) {
	pipeline, err := TimeBucketPipeline(q, field, g)
	if err != nil {
		return nil, err
	}
	var rows []groupRow
	if err := s.aggregate(ctx, q.Collection, pipeline, &rows); err != nil {
		return nil, err
	}
	out := make([]Bucket, 0, len(rows))
	for _, r := range rows {
		out = append(out, newBucket(KeyString(r.ID), g, r.Count))
	}
	return out, nil
}

// RunAverageByGroup thực thi AveragePipeline; $avg null được giữ là nil
func (s *ReportService) RunAverageByGroup(ctx context.Context, q Query, key GroupKey, fields []string) ([]GroupAverage, error) {
	pipeline, err := AveragePipeline(q, key, fields)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := s.aggregate(ctx, q.Collection, pipeline, &rows); err != nil {
		return nil, err
	}
	out := make([]GroupAverage, 0, len(rows))
	for _, r := range rows {
		count, _ := toFloat(r["count"])
		avg := make(map[string]*float64, len(fields))
		for i, f := range fields {
			if v, ok := toFloat(r[fieldAlias(i)]); ok {
				avg[f] = &v
			} else {
				avg[f] = nil
			}
		}
		out = append(out, GroupAverage{Key: KeyString(r["_id"]), Count: int64(count), Averages: avg})
	}
	return out, nil
}

// RunSumByGroup thực thi SumPipeline
func (s *ReportService) RunSumByGroup(ctx context.Context, q Query, key GroupKey, fields []string) ([]GroupSum, error) {
	pipeline, err := SumPipeline(q, key, fields)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := s.aggregate(ctx, q.Collection, pipeline, &rows); err != nil {
		return nil, err
	}
	return decodeSums(rows, fields), nil
}

func decodeSums(rows []bson.M, fields []string) []GroupSum {
	out := make([]GroupSum, 0, len(rows))
	for _, r := range rows {
		count, _ := toFloat(r["count"])
		sums := make(map[string]float64, len(fields))
		for i, f := range fields {
			v, _ := toFloat(r[fieldAlias(i)])
			sums[f] = v
		}
		out = append(out, GroupSum{Key: KeyString(r["_id"]), Count: int64(count), Sums: sums})
	}
	return out
}

// RunConditionalSum thực thi ConditionalSumPipeline
func (s *ReportService) RunConditionalSum(ctx context.Context, q Query, key GroupKey, pred Predicate) ([]ConditionalCount, error) {
	pipeline, err := ConditionalSumPipeline(q, key, pred)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID      interface{} `bson:"_id"`
		Total   int64       `bson:"total"`
		Matched int64       `bson:"matched"`
	}
	if err := s.aggregate(ctx, q.Collection, pipeline, &rows); err != nil {
		return nil, err
	}
	out := make([]ConditionalCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, ConditionalCount{Key: KeyString(r.ID), Total: r.Total, Matched: r.Matched})
	}
	return out, nil
}

// RunFacets chạy một $facet duy nhất; kết quả mỗi facet là danh sách document thô
func (s *ReportService) RunFacets(ctx context.Context, q Query, facets map[string][]bson.D) (map[string][]bson.M, error) {
	pipeline, err := FacetPipeline(q, facets)
	if err != nil {
		return nil, err
	}
	var rows []map[string][]bson.M
	if err := s.aggregate(ctx, q.Collection, pipeline, &rows); err != nil {
		return nil, err
	}
	out := make(map[string][]bson.M, len(facets))
	for name := range facets {
		out[name] = []bson.M{}
	}
	if len(rows) == 1 {
		for name, docs := range rows[0] {
			if docs != nil {
				out[name] = docs
			}
		}
	}
	return out, nil
}

// DecodeRows chuyển kết quả thô của một facet thành []T theo tag bson
func DecodeRows[T any](rows []bson.M) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		raw, err := bson.Marshal(r)
		if err != nil {
			return nil, common.WrapError(common.ErrCodeDatabaseQuery, "Failed to decode aggregate result", common.StatusInternalServerError, err)
		}
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, common.WrapError(common.ErrCodeDatabaseQuery, "Failed to decode aggregate result", common.StatusInternalServerError, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Count đếm document khớp Query
func (s *ReportService) Count(ctx context.Context, q Query) (int64, error) {
	n, err := s.store.Collection(q.Collection).CountDocuments(ctx, q.MatchFilter())
	if err != nil {
		return 0, queryError(q.Collection, err)
	}
	return n, nil
}

// LoadRecords đọc document khớp Query thành []Record cho các hàm tổng hợp trong bộ nhớ
func (s *ReportService) LoadRecords(ctx context.Context, q Query, opts *options.FindOptions) ([]Record, error) {
	cursor, err := s.store.Collection(q.Collection).Find(ctx, q.MatchFilter(), opts)
	if err != nil {
		return nil, queryError(q.Collection, err)
	}
	defer cursor.Close(ctx)
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, queryError(q.Collection, err)
	}
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, Record(d))
	}
	return out, nil
}

// Job là một phép tổng hợp độc lập chạy trong RunConcurrently
type Job func(ctx context.Context) (interface{}, error)

// RunConcurrently chạy các job song song bằng errgroup với context của request.
// Lỗi đầu tiên huỷ các job còn lại và cả lời gọi trả lỗi.
func RunConcurrently(ctx context.Context, jobs map[string]Job) (map[string]interface{}, error) {
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	out := make(map[string]interface{}, len(jobs))
	for name, job := range jobs {
		g.Go(func() error {
			res, err := job(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			out[name] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
