// Package dashboardsvc gom số liệu cho trang tổng quan.
package dashboardsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	activitymodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	ideamodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/models"
	ideasvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

const (
	recentIdeas      = 5
	recentActivities = 10
)

// NameValue một điểm dữ liệu cho biểu đồ
type NameValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Statistics phần thống kê của dashboard, tính trong bộ nhớ trên toàn bộ ideas
type Statistics struct {
	TotalIdeas         int64            `json:"totalIdeas"`
	ImplementationRate float64          `json:"implementationRate"`
	IdeasByStatus      map[string]int64 `json:"ideasByStatus"`
	IdeasByDepartment  []NameValue      `json:"ideasByDepartment"`
	Insights           []string         `json:"insights"`
}

// Dashboard là kết quả GET /dashboard
type Dashboard struct {
	Statistics     Statistics                    `json:"statistics"`
	RecentIdeas    []ideamodels.IdeaView         `json:"recentIdeas"`
	UserActivities []activitymodels.ActivityView `json:"userActivities"`
}

// Performance là kết quả GET /dashboard/performance
type Performance struct {
	TotalIdeas  int64 `json:"totalIdeas"`
	ActiveUsers int64 `json:"activeUsers"`
	Activities  int64 `json:"activities"`
	Trainings   int64 `json:"trainings"`
}

// DashboardService không có collection riêng, chỉ đọc qua các service khác
type DashboardService struct {
	reports    *reportsvc.ReportService
	ideas      *ideasvc.IdeaService
	activities *activitysvc.ActivityService
}

// NewDashboardService tạo DashboardService
func NewDashboardService(reports *reportsvc.ReportService, ideas *ideasvc.IdeaService, activities *activitysvc.ActivityService) *DashboardService {
	return &DashboardService{reports: reports, ideas: ideas, activities: activities}
}

// StatisticsFrom tính Statistics từ các bản ghi idea (cần status và department)
func StatisticsFrom(ideas []reportsvc.Record) (Statistics, error) {
	byStatus, err := reportsvc.GroupCount(ideas, reportsvc.ByField("status"))
	if err != nil {
		return Statistics{}, err
	}
	byDepartment, err := reportsvc.GroupCount(ideas, reportsvc.ByField("department"))
	if err != nil {
		return Statistics{}, err
	}
	insight := reportsvc.InsightSummary(ideas)

	stats := Statistics{
		TotalIdeas:         insight.TotalIdeas,
		ImplementationRate: insight.ImplementationRate,
		IdeasByStatus:      make(map[string]int64, len(byStatus)),
		IdeasByDepartment:  make([]NameValue, 0, len(byDepartment)),
		Insights:           insight.Lines,
	}
	for _, g := range byStatus {
		stats.IdeasByStatus[g.Key] = g.Count
	}
	for _, g := range byDepartment {
		stats.IdeasByDepartment = append(stats.IdeasByDepartment, NameValue{Name: g.Key, Value: g.Count})
	}
	return stats, nil
}

// Dashboard đọc ideas, idea mới nhất và activity mới nhất song song
func (s *DashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	results, err := reportsvc.RunConcurrently(ctx, map[string]reportsvc.Job{
		"ideas": func(ctx context.Context) (interface{}, error) {
			opts := options.Find().SetProjection(bson.M{"status": 1, "department": 1, "createdAt": 1})
			return s.reports.LoadRecords(ctx, reportsvc.On(global.MongoDB_ColNames.Ideas), opts)
		},
		"recentIdeas": func(ctx context.Context) (interface{}, error) {
			return s.ideas.Recent(ctx, recentIdeas)
		},
		"userActivities": func(ctx context.Context) (interface{}, error) {
			return s.activities.Recent(ctx, recentActivities)
		},
	})
	if err != nil {
		return nil, err
	}
	stats, err := StatisticsFrom(results["ideas"].([]reportsvc.Record))
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Statistics:     stats,
		RecentIdeas:    results["recentIdeas"].([]ideamodels.IdeaView),
		UserActivities: results["userActivities"].([]activitymodels.ActivityView),
	}, nil
}

// DepartmentStats tổng số và số idea đã triển khai theo phòng ban
func (s *DashboardService) DepartmentStats(ctx context.Context, r reportsvc.TimeRange) ([]ideasvc.DepartmentStat, error) {
	return s.ideas.DepartmentStats(ctx, r)
}

// Performance đếm ideas, users, activities và trainings song song
func (s *DashboardService) Performance(ctx context.Context) (*Performance, error) {
	cols := global.MongoDB_ColNames
	count := func(coll string) reportsvc.Job {
		return func(ctx context.Context) (interface{}, error) {
			return s.reports.Count(ctx, reportsvc.On(coll))
		}
	}
	results, err := reportsvc.RunConcurrently(ctx, map[string]reportsvc.Job{
		"ideas":      count(cols.Ideas),
		"users":      count(cols.Users),
		"activities": count(cols.Activities),
		"trainings":  count(cols.Trainings),
	})
	if err != nil {
		return nil, err
	}
	return &Performance{
		TotalIdeas:  results["ideas"].(int64),
		ActiveUsers: results["users"].(int64),
		Activities:  results["activities"].(int64),
		Trainings:   results["trainings"].(int64),
	}, nil
}
