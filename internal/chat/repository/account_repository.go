package repository

import (
	"context"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/pkg/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AccountRepository read-only lookups against the school accounts
// collections. The chat core never mutates them.
type AccountRepository interface {
	FindTeacher(ctx context.Context, id string) (*domain.TeacherAccount, error)
	FindParent(ctx context.Context, id string) (*domain.ParentAccount, error)
	FindStudent(ctx context.Context, id string) (*domain.StudentRecord, error)
}

type accountRepository struct {
	teachers *mongo.Collection
	parents  *mongo.Collection
	students *mongo.Collection
}

// NewMongoAccountRepository create an AccountRepository
func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &accountRepository{
		teachers: db.Collection("teachers"),
		parents:  db.Collection("parents"),
		students: db.Collection("students"),
	}
}

func (r *accountRepository) FindTeacher(ctx context.Context, id string) (*domain.TeacherAccount, error) {
	var t domain.TeacherAccount
	err := r.teachers.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "teacher not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "find teacher", err)
	}
	return &t, nil
}

func (r *accountRepository) FindParent(ctx context.Context, id string) (*domain.ParentAccount, error) {
	var p domain.ParentAccount
	err := r.parents.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "parent not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "find parent", err)
	}
	return &p, nil
}

func (r *accountRepository) FindStudent(ctx context.Context, id string) (*domain.StudentRecord, error) {
	var s domain.StudentRecord
	err := r.students.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "student not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "find student", err)
	}
	return &s, nil
}
