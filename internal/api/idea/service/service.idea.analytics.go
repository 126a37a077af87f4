package ideasvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/models"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

// StatusStat số idea và số phiếu trung bình theo trạng thái
type StatusStat struct {
	Status   string   `json:"status"`
	Count    int64    `json:"count"`
	AvgVotes *float64 `json:"avgVotes"`
}

// DepartmentStat thống kê theo phòng ban
type DepartmentStat struct {
	Department         string   `json:"department"`
	TotalIdeas         int64    `json:"totalIdeas"`
	ImplementedIdeas   int64    `json:"implementedIdeas"`
	ImplementationRate float64  `json:"implementationRate"`
	AvgVotes           *float64 `json:"avgVotes,omitempty"`
}

// MonthlyTrend số idea gửi và được duyệt trong một tháng
type MonthlyTrend struct {
	Key         string `json:"key"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Submissions int64  `json:"submissions"`
	Approvals   int64  `json:"approvals"`
}

// Analytics là kết quả GET /ideas/analytics
type Analytics struct {
	IdeaStats       []StatusStat     `json:"ideaStats"`
	DepartmentStats []DepartmentStat `json:"departmentStats"`
	MonthlyTrends   []MonthlyTrend   `json:"monthlyTrends"`
}

// TimelineStats là kết quả GET /ideas/timeline-stats
type TimelineStats struct {
	Timeline    []reportsvc.Bucket `json:"timeline"`
	Total       int64              `json:"total"`
	Implemented int64              `json:"implemented"`
}

var implemented = reportsvc.Predicate{Field: "status", Value: models.StatusImplemented}

func ideas(r reportsvc.TimeRange) reportsvc.Query {
	return reportsvc.On(global.MongoDB_ColNames.Ideas).Between("createdAt", r)
}

// DepartmentStatsFrom ghép số idea triển khai với số phiếu trung bình theo phòng ban
func DepartmentStatsFrom(counts []reportsvc.ConditionalCount, votes []reportsvc.GroupAverage) []DepartmentStat {
	avg := make(map[string]*float64, len(votes))
	for _, v := range votes {
		avg[v.Key] = v.Averages["voteCount"]
	}
	out := make([]DepartmentStat, 0, len(counts))
	for _, c := range counts {
		out = append(out, DepartmentStat{
			Department:         c.Key,
			TotalIdeas:         c.Total,
			ImplementedIdeas:   c.Matched,
			ImplementationRate: reportsvc.Rate(float64(c.Matched), float64(c.Total)),
			AvgVotes:           avg[c.Key],
		})
	}
	return out
}

// MonthlyTrendsFrom chuyển ConditionalSum theo tháng thành MonthlyTrend
func MonthlyTrendsFrom(counts []reportsvc.ConditionalCount) []MonthlyTrend {
	out := make([]MonthlyTrend, 0, len(counts))
	for _, c := range counts {
		m := MonthlyTrend{Key: c.Key, Submissions: c.Total, Approvals: c.Matched}
		if t, err := time.Parse("2006-01", c.Key); err == nil {
			m.Year, m.Month = t.Year(), int(t.Month())
		}
		out = append(out, m)
	}
	return out
}

// Analytics chạy các phép tổng hợp của màn hình phân tích idea song song
func (s *IdeaService) Analytics(ctx context.Context, r reportsvc.TimeRange) (*Analytics, error) {
	q := ideas(r)
	voteFields := []string{"voteCount"}
	results, err := reportsvc.RunConcurrently(ctx, map[string]reportsvc.Job{
		"ideaStats": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunAverageByGroup(ctx, q, reportsvc.ByField("status"), voteFields)
		},
		"departmentCounts": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunConditionalSum(ctx, q, reportsvc.ByField("department"), implemented)
		},
		"departmentVotes": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunAverageByGroup(ctx, q, reportsvc.ByField("department"), voteFields)
		},
		"monthlyTrends": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunConditionalSum(ctx, q,
				reportsvc.ByTime("createdAt", reportsvc.GranularityMonth),
				reportsvc.Predicate{Field: "status", Value: models.StatusApproved})
		},
	})
	if err != nil {
		return nil, err
	}

	byStatus := results["ideaStats"].([]reportsvc.GroupAverage)
	stats := make([]StatusStat, 0, len(byStatus))
	for _, g := range byStatus {
		stats = append(stats, StatusStat{Status: g.Key, Count: g.Count, AvgVotes: g.Averages["voteCount"]})
	}
	return &Analytics{
		IdeaStats: stats,
		DepartmentStats: DepartmentStatsFrom(
			results["departmentCounts"].([]reportsvc.ConditionalCount),
			results["departmentVotes"].([]reportsvc.GroupAverage),
		),
		MonthlyTrends: MonthlyTrendsFrom(results["monthlyTrends"].([]reportsvc.ConditionalCount)),
	}, nil
}

// DepartmentStats trả về tổng số và số idea đã triển khai theo phòng ban
func (s *IdeaService) DepartmentStats(ctx context.Context, r reportsvc.TimeRange) ([]DepartmentStat, error) {
	counts, err := s.Reports.RunConditionalSum(ctx, ideas(r), reportsvc.ByField("department"), implemented)
	if err != nil {
		return nil, err
	}
	return DepartmentStatsFrom(counts, nil), nil
}

// TimelineStats trả về số idea theo tháng và tổng số idea đã triển khai
func (s *IdeaService) TimelineStats(ctx context.Context, r reportsvc.TimeRange) (*TimelineStats, error) {
	q := ideas(r)
	results, err := reportsvc.RunConcurrently(ctx, map[string]reportsvc.Job{
		"timeline": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunTimeBuckets(ctx, q, "createdAt", reportsvc.GranularityMonth)
		},
		"implemented": func(ctx context.Context) (interface{}, error) {
			return s.Reports.Count(ctx, q.Where(bson.M{"status": models.StatusImplemented}))
		},
	})
	if err != nil {
		return nil, err
	}
	timeline := results["timeline"].([]reportsvc.Bucket)
	var total int64
	for _, b := range timeline {
		total += b.Count
	}
	return &TimelineStats{
		Timeline:    timeline,
		Total:       total,
		Implemented: results["implemented"].(int64),
	}, nil
}
