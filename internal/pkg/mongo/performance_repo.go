package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PerformanceRepo interface {
	Append(ctx context.Context, rec *PerformanceRecord) error
	ListSince(ctx context.Context, since time.Time) ([]*PerformanceRecord, error)
	ListByPostID(ctx context.Context, postID string) ([]*PerformanceRecord, error)
	LatestByPostID(ctx context.Context, postID string) (*PerformanceRecord, error)
}

type performanceRepoImpl struct {
	col *mongo.Collection
}

func NewPerformanceRepo(db *mongo.Database) PerformanceRepo {
	return &performanceRepoImpl{
		col: db.Collection("performance"),
	}
}

// Append 追加一条采集快照，历史快照只增不改
func (s *performanceRepoImpl) Append(ctx context.Context, rec *PerformanceRecord) error {
	_, err := s.col.InsertOne(ctx, rec)
	return err
}

// ListSince 拉取窗口内全部快照，供权重重算聚合
func (s *performanceRepoImpl) ListSince(ctx context.Context, since time.Time) ([]*PerformanceRecord, error) {
	filter := bson.M{"captured_at": bson.M{"$gte": since}}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []*PerformanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByPostID 按帖子拉取全部快照，按采集时间升序
func (s *performanceRepoImpl) ListByPostID(ctx context.Context, postID string) ([]*PerformanceRecord, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "captured_at", Value: 1}})

	cursor, err := s.col.Find(ctx, bson.M{"post_id": postID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []*PerformanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LatestByPostID 取帖子最近一条快照，没有快照时返回 mongo.ErrNoDocuments
func (s *performanceRepoImpl) LatestByPostID(ctx context.Context, postID string) (*PerformanceRecord, error) {
	findOptions := options.FindOne().
		SetSort(bson.D{{Key: "captured_at", Value: -1}})

	var rec PerformanceRecord
	if err := s.col.FindOne(ctx, bson.M{"post_id": postID}, findOptions).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
