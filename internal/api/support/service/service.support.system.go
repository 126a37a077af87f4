package supportsvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

// activeWindow khoảng thời gian tính một user là đang hoạt động
const activeWindow = 5 * time.Minute

var performanceFields = []string{"responseTime", "errorRate", "uptime", "activeUsers"}

// HourlyPerformance trung bình các chỉ số trong một giờ
type HourlyPerformance struct {
	Hour            string   `json:"hour"`
	Samples         int64    `json:"samples"`
	AvgResponseTime *float64 `json:"avgResponseTime"`
	AvgErrorRate    *float64 `json:"avgErrorRate"`
	AvgUptime       *float64 `json:"avgUptime"`
	AvgActiveUsers  *float64 `json:"avgActiveUsers"`
}

// RealtimeMetrics là kết quả GET /support/metrics/realtime
type RealtimeMetrics struct {
	OpenTickets int64                  `json:"openTickets"`
	ActiveUsers int64                  `json:"activeUsers"`
	ByPriority  []reportsvc.GroupCount `json:"byPriority"`
	ByStatus    []reportsvc.GroupCount `json:"byStatus"`
}

// PerformanceWindow day=1, week=7, month=30 ngày tính tới now; rỗng là day
func PerformanceWindow(now time.Time, timeframe string) reportsvc.TimeRange {
	days := 1
	switch timeframe {
	case "week":
		days = 7
	case "month":
		days = 30
	}
	start := now.AddDate(0, 0, -days)
	return reportsvc.TimeRange{Start: &start, End: &now}
}

// HourlyPerformanceFrom đổi GroupAverage theo giờ thành HourlyPerformance
func HourlyPerformanceFrom(rows []reportsvc.GroupAverage) []HourlyPerformance {
	out := make([]HourlyPerformance, 0, len(rows))
	for _, r := range rows {
		out = append(out, HourlyPerformance{
			Hour:            r.Key,
			Samples:         r.Count,
			AvgResponseTime: r.Averages["responseTime"],
			AvgErrorRate:    r.Averages["errorRate"],
			AvgUptime:       r.Averages["uptime"],
			AvgActiveUsers:  r.Averages["activeUsers"],
		})
	}
	return out
}

// StatusViewFrom ghép trạng thái và mẫu hiệu năng mới nhất; thiếu trạng thái nghĩa là operational
func StatusViewFrom(status *models.SystemStatus, sample *models.PerformanceMetric) dto.SystemStatusView {
	view := dto.SystemStatusView{Status: models.SystemOperational}
	if status != nil {
		ts := status.Timestamp
		view.Status = status.Status
		view.Message = status.Message
		view.LastUpdated = &ts
		view.Components = status.Components
	}
	if sample != nil {
		rt, er, up, au := sample.ResponseTime, sample.ErrorRate, sample.Uptime, sample.ActiveUsers
		view.Metrics = dto.LatestMetrics{ResponseTime: &rt, ErrorRate: &er, Uptime: &up, ActiveUsers: &au}
	}
	return view
}

// SystemStatus trả về trạng thái hệ thống và mẫu hiệu năng mới nhất
func (s *SupportService) SystemStatus(ctx context.Context) (dto.SystemStatusView, error) {
	newest := bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}
	var status *models.SystemStatus
	st, err := s.statuses.FindOne(ctx, bson.M{}, options.FindOne().SetSort(newest))
	switch {
	case err == nil:
		status = &st
	case !common.IsNotFound(err):
		return dto.SystemStatusView{}, err
	}
	var sample *models.PerformanceMetric
	pm, err := s.samples.FindOne(ctx, bson.M{}, options.FindOne().SetSort(newest))
	switch {
	case err == nil:
		sample = &pm
	case !common.IsNotFound(err):
		return dto.SystemStatusView{}, err
	}
	return StatusViewFrom(status, sample), nil
}

// SystemUpdate ghi trạng thái mới. Khi không còn operational, mọi user nhận notification ưu tiên cao.
func (s *SupportService) SystemUpdate(ctx context.Context, actor authmodels.User, in dto.SystemUpdateInput) (models.SystemStatus, error) {
	status, err := s.statuses.InsertOne(ctx, models.SystemStatus{
		Status:     in.Status,
		Components: in.Components,
		Message:    in.Message,
		UpdatedBy:  actor.ID,
		Timestamp:  s.Now(),
	})
	if err != nil {
		return status, err
	}
	if status.Status != models.SystemOperational {
		_, err := s.notifications.ToAll(ctx, notifsvc.Input{
			Title:    "System Status Update",
			Message:  "System status: " + status.Status + ". " + status.Message,
			Type:     notifmodels.TypeSystem,
			Priority: notifmodels.PriorityHigh,
		})
		s.warnNotify(err, "System Status Update")
	}
	return status, nil
}

// RecordPerformance ghi một mẫu hiệu năng; timestamp rỗng là thời điểm hiện tại
func (s *SupportService) RecordPerformance(ctx context.Context, in dto.PerformanceSampleInput) (models.PerformanceMetric, error) {
	ts := s.Now()
	if in.Timestamp != nil {
		ts = in.Timestamp.UnixMilli()
	}
	return s.samples.InsertOne(ctx, models.PerformanceMetric{
		Timestamp:    ts,
		ResponseTime: in.ResponseTime,
		ErrorRate:    in.ErrorRate,
		Uptime:       in.Uptime,
		ActiveUsers:  in.ActiveUsers,
		CPU:          in.CPU,
		Memory:       in.Memory,
		APICalls:     in.APICalls,
		SlowQueries:  in.SlowQueries,
	})
}

// PerformanceMetrics trung bình theo giờ trong timeframe
func (s *SupportService) PerformanceMetrics(ctx context.Context, timeframe string) ([]HourlyPerformance, error) {
	q := reportsvc.On(global.MongoDB_ColNames.PerformanceMetrics).
		Between("timestamp", PerformanceWindow(time.Now().UTC(), timeframe))
	rows, err := s.reports.RunAverageByGroup(ctx, q, reportsvc.ByTime("timestamp", reportsvc.GranularityHour), performanceFields)
	if err != nil {
		return nil, err
	}
	return HourlyPerformanceFrom(rows), nil
}

// Realtime đếm ticket đang mở, phân bố theo mức ưu tiên/trạng thái và số user có activity trong 5 phút gần nhất
func (s *SupportService) Realtime(ctx context.Context) (*RealtimeMetrics, error) {
	tickets := reportsvc.On(global.MongoDB_ColNames.SupportTickets)
	now := time.Now().UTC()
	since := now.Add(-activeWindow)
	recent := reportsvc.On(global.MongoDB_ColNames.Activities).
		Between("timestamp", reportsvc.TimeRange{Start: &since, End: &now})

	results, err := reportsvc.RunConcurrently(ctx, map[string]reportsvc.Job{
		"open": func(ctx context.Context) (interface{}, error) {
			return s.reports.Count(ctx, tickets.Where(bson.M{"status": models.StatusOpen}))
		},
		"byPriority": func(ctx context.Context) (interface{}, error) {
			return s.reports.RunGroupCount(ctx, tickets, reportsvc.ByField("priority"))
		},
		"byStatus": func(ctx context.Context) (interface{}, error) {
			return s.reports.RunGroupCount(ctx, tickets, reportsvc.ByField("status"))
		},
		"activeUsers": func(ctx context.Context) (interface{}, error) {
			return s.reports.RunGroupCount(ctx, recent, reportsvc.ByField("user"))
		},
	})
	if err != nil {
		return nil, err
	}
	return &RealtimeMetrics{
		OpenTickets: results["open"].(int64),
		ActiveUsers: int64(len(results["activeUsers"].([]reportsvc.GroupCount))),
		ByPriority:  results["byPriority"].([]reportsvc.GroupCount),
		ByStatus:    results["byStatus"].([]reportsvc.GroupCount),
	}, nil
}
