package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jobsink/internal/model"
	"jobsink/internal/repository"
)

// collection is the subset of *mongo.Collection used by JobMongo.
type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// JobMongo is a MongoDB implementation of repository.DocumentRepository.
// Documents keep list fields as native arrays.
type JobMongo struct {
	collection func(name string) collection
}

// NewJobMongo creates a new JobMongo repository on db.
func NewJobMongo(db *mongo.Database) *JobMongo {
	return &JobMongo{collection: func(name string) collection { return db.Collection(name) }}
}

var _ repository.DocumentRepository = (*JobMongo)(nil)

// Insert stores job as a single document and returns the generated ObjectID in hex.
func (r *JobMongo) Insert(ctx context.Context, collection string, job *model.Job) (string, error) {
	res, err := r.collection(collection).InsertOne(ctx, toDocument(job))
	if err != nil {
		return "", fmt.Errorf("insert job %s: %w", job.ReqID, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// All returns every document of collection.
func (r *JobMongo) All(ctx context.Context, collection string) ([]bson.D, error) {
	cur, err := r.collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	docs := make([]bson.D, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// toDocument builds the nested document for job, in the same field order as the relational table.
// Absent lists become empty arrays; absent scalars become null.
func toDocument(job *model.Job) bson.D {
	return bson.D{
		{Key: "slug", Value: job.Slug},
		{Key: "language", Value: job.Language},
		{Key: "languages", Value: job.Languages.OrEmpty()},
		{Key: "req_id", Value: job.ReqID},
		{Key: "title", Value: job.Title},
		{Key: "description", Value: job.Description},
		{Key: "street_address", Value: job.StreetAddress},
		{Key: "city", Value: job.City},
		{Key: "state", Value: job.State},
		{Key: "country_code", Value: job.CountryCode},
		{Key: "postal_code", Value: job.PostalCode},
		{Key: "location_type", Value: job.LocationType},
		{Key: "latitude", Value: job.Latitude},
		{Key: "longitude", Value: job.Longitude},
		{Key: "categories", Value: job.Categories.OrEmpty()},
		{Key: "tags", Value: job.Tags.OrEmpty()},
		{Key: "tags5", Value: job.Tags5.OrEmpty()},
		{Key: "tags6", Value: job.Tags6.OrEmpty()},
		{Key: "brand", Value: job.Brand},
		{Key: "promotion_value", Value: job.PromotionValue},
		{Key: "salary_currency", Value: job.SalaryCurrency},
		{Key: "salary_value", Value: job.SalaryValue},
		{Key: "salary_min_value", Value: job.SalaryMinValue},
		{Key: "salary_max_value", Value: job.SalaryMaxValue},
		{Key: "benefits", Value: job.Benefits.OrEmpty()},
		{Key: "employment_type", Value: job.EmploymentType},
		{Key: "hiring_organization", Value: job.HiringOrganization},
		{Key: "source", Value: job.Source},
		{Key: "apply_url", Value: job.ApplyURL},
		{Key: "internal", Value: job.Internal},
		{Key: "searchable", Value: job.Searchable},
		{Key: "applyable", Value: job.Applyable},
		{Key: "li_easy_applyable", Value: job.LiEasyApplyable},
		{Key: "ats_code", Value: job.ATSCode},
		{Key: "update_date", Value: job.UpdateDate},
		{Key: "create_date", Value: job.CreateDate},
		{Key: "category", Value: job.Category.OrEmpty()},
		{Key: "full_location", Value: job.FullLocation},
		{Key: "short_location", Value: job.ShortLocation},
	}
}
