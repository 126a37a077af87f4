package reportsvc

import (
	"fmt"
	"sort"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
)

// Rate trả về numerator/denominator*100, hoặc 0 khi denominator <= 0
func Rate(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator * 100
}

// FilterRange giữ các record có timeField nằm trong r. Record thiếu trường bị loại khi r có cận.
func FilterRange(records []Record, timeField string, r TimeRange) []Record {
	if r.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		v, _ := lookup(rec, timeField)
		t, ok := toTime(v)
		if !ok {
			continue
		}
		if r.Start != nil && t.Before(r.Start.UTC()) {
			continue
		}
		if r.End != nil && t.After(r.End.UTC()) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// partition chia record theo key, trả về thứ tự key tăng dần
func partition(records []Record, key GroupKey) ([]string, map[string][]Record) {
	groups := make(map[string][]Record)
	for _, rec := range records {
		k, ok := key.keyOf(rec)
		if !ok {
			continue
		}
		groups[k] = append(groups[k], rec)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

// GroupCount đếm số record theo nhóm, sắp theo key tăng dần
func GroupCount(records []Record, key GroupKey) ([]GroupCount, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	keys, groups := partition(records, key)
	out := make([]GroupCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, GroupCount{Key: k, Count: int64(len(groups[k]))})
	}
	return out, nil
}

// GroupCountWithPercentage giống GroupCount, thêm Percentage = Rate(count, total)
func GroupCountWithPercentage(records []Record, key GroupKey) ([]GroupPercentage, error) {
	counts, err := GroupCount(records, key)
	if err != nil {
		return nil, err
	}
	return withPercentage(counts), nil
}

func withPercentage(counts []GroupCount) []GroupPercentage {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	out := make([]GroupPercentage, 0, len(counts))
	for _, c := range counts {
		out = append(out, GroupPercentage{Key: c.Key, Count: c.Count, Percentage: Rate(float64(c.Count), float64(total))})
	}
	return out
}

// SortTopN sắp count giảm dần, hoà thì key tăng dần, rồi cắt n phần tử đầu
func SortTopN(counts []GroupCount, n int) []GroupCount {
	if n <= 0 {
		return []GroupCount{}
	}
	sorted := make([]GroupCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Key < sorted[j].Key
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TopNByCount lấy n nhóm đông nhất. Nếu join != nil, mỗi phần tử được bổ sung join.Fields
// từ joined[key]; key không có trong joined thì các trường là nil.
func TopNByCount(records []Record, key GroupKey, n int, join *JoinSpec, joined map[string]Record) ([]TopEntry, error) {
	counts, err := GroupCount(records, key)
	if err != nil {
		return nil, err
	}
	top := SortTopN(counts, n)
	out := make([]TopEntry, 0, len(top))
	for _, c := range top {
		entry := TopEntry{Key: c.Key, Count: c.Count}
		if join != nil {
			entry.Fields = make(map[string]interface{}, len(join.Fields))
			doc := joined[c.Key]
			for _, f := range join.Fields {
				var v interface{}
				if doc != nil {
					v, _ = lookup(doc, f)
				}
				entry.Fields[f] = v
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// TimeBucketedCount đếm record theo bucket thời gian của field, bucket tăng dần.
// Record không có thời gian hợp lệ không thuộc bucket nào.
func TimeBucketedCount(records []Record, field string, g Granularity) ([]Bucket, error) {
	if g == "" {
		return nil, common.BadRequest("Granularity is required", nil)
	}
	counts, err := GroupCount(records, ByTime(field, g))
	if err != nil {
		return nil, err
	}
	out := make([]Bucket, 0, len(counts))
	for _, c := range counts {
		out = append(out, newBucket(c.Key, g, c.Count))
	}
	return out, nil
}

// AverageByGroup tính trung bình từng trường trên các giá trị số có mặt.
// Nhóm không có giá trị nào cho một trường thì trung bình là nil.
func AverageByGroup(records []Record, key GroupKey, fields []string) ([]GroupAverage, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, common.BadRequest("At least one field is required", nil)
	}
	keys, groups := partition(records, key)
	out := make([]GroupAverage, 0, len(keys))
	for _, k := range keys {
		out = append(out, GroupAverage{
			Key:      k,
			Count:    int64(len(groups[k])),
			Averages: averages(groups[k], fields),
		})
	}
	return out, nil
}

// Mean trả về trung bình các giá trị số có mặt của field, nil nếu không có
func Mean(records []Record, field string) *float64 {
	return averages(records, []string{field})[field]
}

func averages(records []Record, fields []string) map[string]*float64 {
	res := make(map[string]*float64, len(fields))
	for _, f := range fields {
		var sum float64
		var n int
		for _, rec := range records {
			v, _ := lookup(rec, f)
			if x, ok := toFloat(v); ok {
				sum += x
				n++
			}
		}
		if n == 0 {
			res[f] = nil
			continue
		}
		mean := sum / float64(n)
		res[f] = &mean
	}
	return res
}

// SumByGroup cộng các trường số theo nhóm; giá trị thiếu tính là 0
func SumByGroup(records []Record, key GroupKey, fields []string) ([]GroupSum, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	keys, groups := partition(records, key)
	out := make([]GroupSum, 0, len(keys))
	for _, k := range keys {
		sums := make(map[string]float64, len(fields))
		for _, f := range fields {
			for _, rec := range groups[k] {
				v, _ := lookup(rec, f)
				if x, ok := toFloat(v); ok {
					sums[f] += x
				}
			}
		}
		out = append(out, GroupSum{Key: k, Count: int64(len(groups[k])), Sums: sums})
	}
	return out, nil
}

// ConditionalSum đếm trong mỗi nhóm số record thoả pred, kèm tổng số record của nhóm
func ConditionalSum(records []Record, key GroupKey, pred Predicate) ([]ConditionalCount, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if pred.Field == "" {
		return nil, common.BadRequest("Predicate field is required", nil)
	}
	keys, groups := partition(records, key)
	out := make([]ConditionalCount, 0, len(keys))
	for _, k := range keys {
		c := ConditionalCount{Key: k, Total: int64(len(groups[k]))}
		for _, rec := range groups[k] {
			v, _ := lookup(rec, pred.Field)
			if equalValue(v, pred.Value) {
				c.Matched++
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// Facet là một phép tổng hợp độc lập trên tập record đã lọc
type Facet func(records []Record) (interface{}, error)

// FacetedAggregate chạy các facet trên cùng tập record đã qua filter.
// Một facet lỗi thì cả lời gọi lỗi, không trả kết quả dở dang.
func FacetedAggregate(records []Record, filter func(Record) bool, facets map[string]Facet) (map[string]interface{}, error) {
	base := records
	if filter != nil {
		base = make([]Record, 0, len(records))
		for _, rec := range records {
			if filter(rec) {
				base = append(base, rec)
			}
		}
	}
	out := make(map[string]interface{}, len(facets))
	for name, facet := range facets {
		res, err := facet(base)
		if err != nil {
			return nil, fmt.Errorf("facet %s: %w", name, err)
		}
		out[name] = res
	}
	return out, nil
}

// InsightSummary tóm tắt tập ideas: phòng ban nhiều idea nhất (hoà thì tên nhỏ nhất),
// tỉ lệ triển khai và tổng số idea. Tập rỗng cho "None", 0, 0.
func InsightSummary(ideas []Record) Insight {
	counts, _ := GroupCount(ideas, ByField("department"))
	top := "None"
	if best := SortTopN(counts, 1); len(best) == 1 && best[0].Key != "" {
		top = best[0].Key
	}

	var implemented int64
	for _, rec := range ideas {
		if v, _ := lookup(rec, "status"); v == "implemented" {
			implemented++
		}
	}
	total := int64(len(ideas))
	rate := Rate(float64(implemented), float64(total))

	return Insight{
		TopDepartment:      top,
		ImplementationRate: rate,
		TotalIdeas:         total,
		Lines: []string{
			fmt.Sprintf("Top performing department: %s", top),
			fmt.Sprintf("Implementation rate: %.1f%%", rate),
			fmt.Sprintf("Total ideas submitted: %d", total),
		},
	}
}
