package campaignsvc

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/models"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

var metricFields = []string{"reach", "engagement", "conversion", "roi"}

// StatusSummary số campaign và tổng ngân sách theo trạng thái
type StatusSummary struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalBudget float64 `json:"totalBudget"`
}

// TypeSummary theo loại campaign; AvgROI nil khi không có giá trị
type TypeSummary struct {
	Type       string   `json:"type"`
	Count      int64    `json:"count"`
	AvgROI     *float64 `json:"avgROI"`
	TotalReach float64  `json:"totalReach"`
}

// ActiveTotals tổng của các campaign đang chạy
type ActiveTotals struct {
	Count           int64   `json:"count"`
	TotalBudget     float64 `json:"totalBudget"`
	TotalReach      float64 `json:"totalReach"`
	TotalEngagement float64 `json:"totalEngagement"`
	TotalConversion float64 `json:"totalConversion"`
}

// Analytics là kết quả GET /campaigns/analytics
type Analytics struct {
	ByStatus     []StatusSummary `json:"byStatus"`
	ByType       []TypeSummary   `json:"byType"`
	ActiveTotals ActiveTotals    `json:"activeTotals"`
}

// PerformancePoint trung bình các chỉ số trong một ngày
type PerformancePoint struct {
	Date       string   `json:"date"`
	Samples    int64    `json:"samples"`
	Reach      *float64 `json:"reach"`
	Engagement *float64 `json:"engagement"`
	Conversion *float64 `json:"conversion"`
	ROI        *float64 `json:"roi"`
}

// Performance là kết quả GET /campaigns/:id/performance
type Performance struct {
	Campaign  models.Campaign    `json:"campaign"`
	Timeframe string             `json:"timeframe"`
	Daily     []PerformancePoint `json:"daily"`
}

// ShareResult là kết quả POST /campaigns/share-report
type ShareResult struct {
	ReportURL  string `json:"reportUrl"`
	Format     string `json:"format"`
	Recipients int    `json:"recipients"`
}

// TypeSummariesFrom ghép ROI trung bình với tổng reach theo loại
func TypeSummariesFrom(avgs []reportsvc.GroupAverage, sums []reportsvc.GroupSum) []TypeSummary {
	reach := make(map[string]float64, len(sums))
	for _, s := range sums {
		reach[s.Key] = s.Sums["metrics.reach"]
	}
	out := make([]TypeSummary, 0, len(avgs))
	for _, a := range avgs {
		out = append(out, TypeSummary{Type: a.Key, Count: a.Count, AvgROI: a.Averages["metrics.roi"], TotalReach: reach[a.Key]})
	}
	return out
}

// PerformanceFrom đổi GroupAverage theo ngày thành PerformancePoint
func PerformanceFrom(rows []reportsvc.GroupAverage) []PerformancePoint {
	out := make([]PerformancePoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, PerformancePoint{
			Date:       r.Key,
			Samples:    r.Count,
			Reach:      r.Averages["reach"],
			Engagement: r.Averages["engagement"],
			Conversion: r.Averages["conversion"],
			ROI:        r.Averages["roi"],
		})
	}
	return out
}

// Analytics tổng hợp campaign theo trạng thái, theo loại và tổng của các campaign đang chạy
func (s *CampaignService) Analytics(ctx context.Context, r reportsvc.TimeRange) (*Analytics, error) {
	q := reportsvc.On(global.MongoDB_ColNames.Campaigns).Between("createdAt", r)
	active := q.Where(bson.M{"status": models.StatusActive})
	results, err := reportsvc.RunConcurrently(ctx, map[string]reportsvc.Job{
		"byStatus": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunSumByGroup(ctx, q, reportsvc.ByField("status"), []string{"budget"})
		},
		"typeROI": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunAverageByGroup(ctx, q, reportsvc.ByField("type"), []string{"metrics.roi"})
		},
		"typeReach": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunSumByGroup(ctx, q, reportsvc.ByField("type"), []string{"metrics.reach"})
		},
		"activeTotals": func(ctx context.Context) (interface{}, error) {
			return s.Reports.RunSumByGroup(ctx, active, reportsvc.ByField("status"),
				[]string{"budget", "metrics.reach", "metrics.engagement", "metrics.conversion"})
		},
	})
	if err != nil {
		return nil, err
	}

	sums := results["byStatus"].([]reportsvc.GroupSum)
	byStatus := make([]StatusSummary, 0, len(sums))
	for _, g := range sums {
		byStatus = append(byStatus, StatusSummary{Status: g.Key, Count: g.Count, TotalBudget: g.Sums["budget"]})
	}
	var totals ActiveTotals
	for _, g := range results["activeTotals"].([]reportsvc.GroupSum) {
		totals.Count += g.Count
		totals.TotalBudget += g.Sums["budget"]
		totals.TotalReach += g.Sums["metrics.reach"]
		totals.TotalEngagement += g.Sums["metrics.engagement"]
		totals.TotalConversion += g.Sums["metrics.conversion"]
	}
	return &Analytics{
		ByStatus: byStatus,
		ByType: TypeSummariesFrom(
			results["typeROI"].([]reportsvc.GroupAverage),
			results["typeReach"].([]reportsvc.GroupSum),
		),
		ActiveTotals: totals,
	}, nil
}

// Performance trung bình theo ngày của các metric trong timeframe gần nhất
func (s *CampaignService) Performance(ctx context.Context, id primitive.ObjectID, timeframe string) (*Performance, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if timeframe == "" {
		timeframe = "month"
	}
	q := reportsvc.On(global.MongoDB_ColNames.CampaignMetrics).
		Between("timestamp", PerformanceWindow(time.Now().UTC(), timeframe)).
		Where(bson.M{"campaign": id})
	rows, err := s.Reports.RunAverageByGroup(ctx, q, reportsvc.ByTime("timestamp", reportsvc.GranularityDay), metricFields)
	if err != nil {
		return nil, err
	}
	return &Performance{Campaign: campaign, Timeframe: timeframe, Daily: PerformanceFrom(rows)}, nil
}

type reportDocument struct {
	Campaign    models.Campaign         `json:"campaign"`
	Metrics     []models.CampaignMetric `json:"metrics"`
	GeneratedAt int64                   `json:"generatedAt"`
}

// RenderReport ghi báo cáo ra JSON hoặc CSV (mỗi dòng một metric)
func RenderReport(doc reportDocument, format string) ([]byte, string, error) {
	if format != "csv" {
		b, err := json.MarshalIndent(doc, "", "  ")
		return b, "application/json", err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"campaign", "title", "timestamp", "reach", "engagement", "conversion", "roi"})
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, m := range doc.Metrics {
		_ = w.Write([]string{
			doc.Campaign.ID.Hex(),
			doc.Campaign.Title,
			time.UnixMilli(m.Timestamp).UTC().Format(time.RFC3339),
			f(m.Reach), f(m.Engagement), f(m.Conversion), f(m.ROI),
		})
	}
	w.Flush()
	return buf.Bytes(), "text/csv", w.Error()
}

// ShareReport tạo báo cáo, lưu vào storage và gửi notification kèm đường dẫn cho người nhận
func (s *CampaignService) ShareReport(ctx context.Context, actor authmodels.User, in dto.ShareReportInput) (*ShareResult, error) {
	id, err := primitive.ObjectIDFromHex(in.CampaignID)
	if err != nil {
		return nil, common.BadRequest("Invalid campaignId", nil)
	}
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics, err := s.RecentMetrics(ctx, &id)
	if err != nil {
		return nil, err
	}
	format := in.Format
	if format == "" {
		format = "json"
	}
	body, contentType, err := RenderReport(reportDocument{Campaign: campaign, Metrics: metrics, GeneratedAt: s.Now()}, format)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeBusinessOperation, "Failed to render report", common.StatusInternalServerError, err)
	}
	url, err := s.Storage.Put(ctx, ReportKey(id, uuid.NewString(), format), bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeBusinessOperation, "Failed to store report", common.StatusInternalServerError, err)
	}

	recipients := make([]primitive.ObjectID, 0, len(in.Recipients))
	for _, hex := range in.Recipients {
		if rid, err := primitive.ObjectIDFromHex(hex); err == nil {
			recipients = append(recipients, rid)
		}
	}
	message := in.Message
	if message == "" {
		message = actor.Name + " shared a report for campaign: " + campaign.Title
	}
	s.notify(ctx, recipients, "", notifsvc.Input{
		Title:      "Campaign Report Shared",
		Message:    message,
		Type:       notifmodels.TypeCampaign,
		EntityID:   &id,
		EntityType: entityType,
		Data:       map[string]interface{}{"reportUrl": url, "format": format},
	})
	return &ShareResult{ReportURL: url, Format: format, Recipients: len(recipients)}, nil
}
