package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"Cadence/internal/api/dto"
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/mongo"
	"Cadence/internal/repository"

	"github.com/jinzhu/copier"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// reportTopN 报告中 Top 帖子数量
const reportTopN = 5

type ReportService interface {
	Report(ctx context.Context, days int) (*dto.ReportDTO, error)
}

type reportServiceImpl struct {
	recordRepo    repository.PostRecordRepo
	perfRepo      mongo.PerformanceRepo
	weightService WeightService
}

func NewReportService(
	recordRepo repository.PostRecordRepo,
	perfRepo mongo.PerformanceRepo,
	weightService WeightService,
) ReportService {
	return &reportServiceImpl{
		recordRepo:    recordRepo,
		perfRepo:      perfRepo,
		weightService: weightService,
	}
}

// Report 汇总窗口内的发布表现：按互动率排序的 Top 帖子、当前权重表、
// 失败数量，以及按内容形式聚合的洞察结论。
func (s *reportServiceImpl) Report(ctx context.Context, days int) (*dto.ReportDTO, error) {
	if days <= 0 {
		days = consts.DefaultLookbackDays
	}
	since := time.Now().AddDate(0, 0, -days)

	posted, err := s.recordRepo.PostedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	failed, err := s.recordRepo.FailedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ReportPostDTO, 0, len(posted))
	for _, rec := range posted {
		snapshot, err := s.perfRepo.LatestByPostID(ctx, rec.ID)
		if err != nil {
			if errors.Is(err, mongodriver.ErrNoDocuments) {
				continue
			}
			return nil, err
		}
		item := &dto.ReportPostDTO{
			RecordID:       rec.ID,
			ExternalPostID: rec.ExternalPostID,
			EngagementRate: snapshot.EngagementRate(),
		}
		// 计数与内容维度字段同名，直接拷贝
		if err := copier.Copy(item, snapshot); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].EngagementRate > items[j].EngagementRate
	})

	insights := buildInsights(items)
	if len(items) > reportTopN {
		items = items[:reportTopN]
	}

	return &dto.ReportDTO{
		WindowDays:  days,
		PostedCount: len(posted),
		FailedCount: len(failed),
		TopPosts:    items,
		Weights:     s.weightService.CurrentTable(),
		Insights:    insights,
	}, nil
}

// buildInsights 对比各内容形式与整体平均互动率，生成人类可读结论
func buildInsights(items []*dto.ReportPostDTO) []string {
	if len(items) == 0 {
		return []string{"窗口内没有表现数据"}
	}

	var total float64
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, item := range items {
		total += item.EngagementRate
		sums[item.ContentType] += item.EngagementRate
		counts[item.ContentType]++
	}
	overall := total / float64(len(items))
	if overall <= 0 {
		return []string{"窗口内互动率均为零"}
	}

	types := make([]string, 0, len(sums))
	for contentType := range sums {
		types = append(types, contentType)
	}
	sort.Strings(types)

	insights := make([]string, 0, len(types))
	for _, contentType := range types {
		mean := sums[contentType] / float64(counts[contentType])
		delta := (mean/overall - 1) * 100
		switch {
		case delta >= 5:
			insights = append(insights,
				fmt.Sprintf("content_type=%s outperformed by %.0f%%", contentType, delta))
		case delta <= -5:
			insights = append(insights,
				fmt.Sprintf("content_type=%s underperformed by %.0f%%", contentType, -delta))
		}
	}
	if len(insights) == 0 {
		insights = append(insights, "各内容形式表现接近平均水平")
	}
	return insights
}
