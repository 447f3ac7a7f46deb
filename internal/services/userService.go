package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/arzan03/MediBook/internal/models"
	"github.com/arzan03/MediBook/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Admin user management over the users collection.

var userProjection = bson.M{"password": 0, "resetPasswordToken": 0, "resetPasswordExpires": 0}

// UserListOptions are the admin user-list filters. Zero values mean
// "no filter"; Status accepts "active" or "inactive".
type UserListOptions struct {
	Search string
	Role   string
	Status string
	Page   int64
	Limit  int64
}

// UserList is a page of users plus pagination metadata.
type UserList struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int64         `json:"page"`
	Pages int64         `json:"pages"`
}

func userListFilter(opts UserListOptions) bson.M {
	filter := bson.M{}
	if opts.Search != "" {
		pattern := regexp.QuoteMeta(opts.Search)
		filter["$or"] = bson.A{
			bson.M{"name": primitive.Regex{Pattern: pattern, Options: "i"}},
			bson.M{"email": primitive.Regex{Pattern: pattern, Options: "i"}},
		}
	}
	switch opts.Role {
	case models.RolePatient, models.RoleDoctor, models.RoleAdmin:
		filter["role"] = opts.Role
	}
	switch opts.Status {
	case "active":
		filter["isActive"] = true
	case "inactive":
		filter["isActive"] = false
	}
	return filter
}

// ListUsers returns one page of the (filtered) user directory, newest first.
func ListUsers(ctx context.Context, opts UserListOptions) (UserList, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 10
	}
	filter := userListFilter(opts)

	findOpts := options.Find().
		SetProjection(userProjection).
		SetSort(bson.M{"createdAt": -1}).
		SetSkip((opts.Page - 1) * opts.Limit).
		SetLimit(opts.Limit)

	tasks := []utils.ParallelTask{
		func() (interface{}, error) {
			cursor, err := userCollection.Find(ctx, filter, findOpts)
			if err != nil {
				return nil, err
			}
			defer cursor.Close(ctx)
			users := []models.User{}
			if err := cursor.All(ctx, &users); err != nil {
				return nil, err
			}
			return users, nil
		},
		func() (interface{}, error) {
			return userCollection.CountDocuments(ctx, filter)
		},
	}

	results, errs := utils.RunParallelTasks(tasks)
	if err := utils.FirstError(errs); err != nil {
		return UserList{}, err
	}

	total := results[1].(int64)
	pages := total / opts.Limit
	if total%opts.Limit != 0 {
		pages++
	}
	return UserList{
		Users: results[0].([]models.User),
		Total: total,
		Page:  opts.Page,
		Pages: pages,
	}, nil
}

// SetUserActive flips a user's isActive flag and returns the updated user.
func SetUserActive(ctx context.Context, id primitive.ObjectID, active bool) (models.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(userProjection)

	var user models.User
	err := userCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": active}}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// DeleteUser removes a user. Admin accounts cannot be deleted this way.
func DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := userCollection.DeleteOne(ctx, bson.M{"_id": id, "role": bson.M{"$ne": models.RoleAdmin}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
