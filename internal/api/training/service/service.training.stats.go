package trainingsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

// DepartmentTraining thống kê khoá học theo phòng ban
type DepartmentTraining struct {
	Department     string   `json:"department" bson:"_id"`
	TotalTrainings int64    `json:"totalTrainings" bson:"totalTrainings"`
	AvgCapacity    *float64 `json:"avgCapacity" bson:"avgCapacity"`
	TotalEnrolled  int64    `json:"totalEnrolled" bson:"totalEnrolled"`
}

// CompletionRate tỉ lệ hoàn thành của một khoá học
type CompletionRate struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Title          string             `json:"title" bson:"title"`
	Enrolled       int64              `json:"enrolled" bson:"enrolled"`
	Completed      int64              `json:"completed" bson:"completed"`
	CompletionRate float64            `json:"completionRate" bson:"-"`
}

// Statistics là kết quả GET /training/statistics
type Statistics struct {
	ByDepartment    []DepartmentTraining   `json:"byDepartment"`
	ByStatus        []reportsvc.GroupCount `json:"byStatus"`
	CompletionRates []CompletionRate       `json:"completionRates"`
}

type statusRow struct {
	ID    interface{} `bson:"_id"`
	Count int64       `bson:"count"`
}

func statisticsFacets() (map[string][]bson.D, error) {
	byStatus, err := reportsvc.GroupCountStages(reportsvc.ByField("status"))
	if err != nil {
		return nil, err
	}
	enrolledSize := bson.M{"$size": bson.M{"$ifNull": bson.A{"$enrolledUsers", bson.A{}}}}
	return map[string][]bson.D{
		"byDepartment": {
			{{Key: "$group", Value: bson.M{
				"_id":            "$department",
				"totalTrainings": bson.M{"$sum": 1},
				"avgCapacity":    bson.M{"$avg": "$capacity"},
				"totalEnrolled":  bson.M{"$sum": enrolledSize},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		},
		"byStatus": byStatus,
		"completionRates": {
			{{Key: "$project", Value: bson.M{
				"title":    1,
				"enrolled": enrolledSize,
				"completed": bson.M{"$size": bson.M{"$filter": bson.M{
					"input": bson.M{"$ifNull": bson.A{"$enrolledUsers", bson.A{}}},
					"as":    "e",
					"cond":  bson.M{"$eq": bson.A{"$$e.status", models.EnrollmentCompleted}},
				}}},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}}},
		},
	}, nil
}

// Statistics chạy một $facet trên collection trainings
func (s *TrainingService) Statistics(ctx context.Context) (*Statistics, error) {
	facets, err := statisticsFacets()
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.RunFacets(ctx, reportsvc.On(global.MongoDB_ColNames.Trainings), facets)
	if err != nil {
		return nil, err
	}

	byDepartment, err := reportsvc.DecodeRows[DepartmentTraining](rows["byDepartment"])
	if err != nil {
		return nil, err
	}
	rates, err := reportsvc.DecodeRows[CompletionRate](rows["completionRates"])
	if err != nil {
		return nil, err
	}
	for i := range rates {
		rates[i].CompletionRate = reportsvc.Rate(float64(rates[i].Completed), float64(rates[i].Enrolled))
	}
	statusRows, err := reportsvc.DecodeRows[statusRow](rows["byStatus"])
	if err != nil {
		return nil, err
	}
	byStatus := make([]reportsvc.GroupCount, 0, len(statusRows))
	for _, r := range statusRows {
		byStatus = append(byStatus, reportsvc.GroupCount{Key: reportsvc.KeyString(r.ID), Count: r.Count})
	}
	return &Statistics{ByDepartment: byDepartment, ByStatus: byStatus, CompletionRates: rates}, nil
}
